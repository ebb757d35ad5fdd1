package dto

import "time"

// ExerciseProgress is one row of the student dashboard: a published
// exercise joined with the student's own submission state.
type ExerciseProgress struct {
	ExerciseID   uint       `json:"exercise_id"`
	Title        string     `json:"title"`
	Difficulty   string     `json:"difficulty"`
	Deadline     *time.Time `json:"deadline"`
	MaxPossible  int        `json:"max_possible"`
	Status       string     `json:"status"`
	SubmissionID *uint      `json:"submission_id"`
	TotalScore   *int       `json:"total_score"`
	Percentage   *float64   `json:"percentage"`
	SubmittedAt  *time.Time `json:"submitted_at"`
}

// ProgressSummary aggregates the student's standing across all published
// exercises.
type ProgressSummary struct {
	TotalExercises    int      `json:"total_exercises"`
	Submitted         int      `json:"submitted"`
	Graded            int      `json:"graded"`
	NotSubmitted      int      `json:"not_submitted"`
	AveragePercentage *float64 `json:"average_percentage"`
}

// StudentDashboardResponse is the aggregated dashboard payload.
type StudentDashboardResponse struct {
	Summary   ProgressSummary    `json:"summary"`
	Exercises []ExerciseProgress `json:"exercises"`
}

// Dashboard progress status values. "not_submitted" mirrors the
// NoSubmission lifecycle state for pairs without a submission row.
const (
	ProgressStatusNotSubmitted = "not_submitted"
	ProgressStatusPending      = "pending"
	ProgressStatusGraded       = "graded"
)

// AdminStats holds the aggregate counts shown on the admin landing view.
type AdminStats struct {
	TotalExercises   int64 `json:"total_exercises"`
	TotalSubmissions int64 `json:"total_submissions"`
	Pending          int64 `json:"pending"`
	Graded           int64 `json:"graded"`
}

// AdminDashboardResponse pairs the aggregate counts with the most recent
// submissions across all students.
type AdminDashboardResponse struct {
	Stats             AdminStats           `json:"stats"`
	RecentSubmissions []SubmissionResponse `json:"recent_submissions"`
}
