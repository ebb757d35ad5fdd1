package models

import "time"

// Submission holds a student's code artifacts for one exercise. At most one
// submission exists per (exercise, student) pair; resubmission updates the
// row in place.
type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExerciseID  uint      `gorm:"not null;uniqueIndex:idx_submissions_exercise_student" json:"exercise_id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_submissions_exercise_student" json:"student_id"`
	MainCode    string    `gorm:"type:text;not null" json:"main_code"`
	TestCode    string    `gorm:"type:text" json:"test_code"`
	Status      string    `gorm:"size:32;not null" json:"status"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Exercise    Exercise  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exercise"`
	Student     User      `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Grade       *Grade    `json:"grade"`
}

const (
	// SubmissionStatusPending indicates the submission awaits grading.
	SubmissionStatusPending = "pending"
	// SubmissionStatusGraded indicates the submission has been evaluated.
	SubmissionStatusGraded = "graded"
)

// IsGraded reports whether the submission has been evaluated.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
