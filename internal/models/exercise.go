package models

import "time"

// Exercise is an assignment authored by an admin, optionally published for students.
type Exercise struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	CreatedBy         uint        `gorm:"not null" json:"created_by"`
	Title             string      `gorm:"size:255;not null" json:"title"`
	Description       string      `gorm:"type:text" json:"description"`
	Difficulty        string      `gorm:"size:16;not null;default:'easy'" json:"difficulty"`
	IsPublished       bool        `gorm:"not null;default:false" json:"is_published"`
	Deadline          *time.Time  `json:"deadline"`
	SolutionCode      string      `gorm:"type:text" json:"solution_code"`
	SolutionPublished bool        `gorm:"not null;default:false" json:"solution_published"`
	TestFileURL       string      `gorm:"size:512" json:"test_file_url"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	Criteria          []Criterion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"criteria"`
}

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// IsPastDeadline reports whether the informational deadline has passed.
// Deadlines never block submissions.
func (e Exercise) IsPastDeadline(reference time.Time) bool {
	return e.Deadline != nil && reference.After(*e.Deadline)
}

// Criterion is a point-weighted rubric line item belonging to one exercise.
// The criterion set is replaced wholesale on every exercise save, so IDs are
// only stable within a single edit session.
type Criterion struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExerciseID uint   `gorm:"not null;index" json:"exercise_id"`
	Label      string `gorm:"size:255;not null" json:"label"`
	MaxPoints  int    `gorm:"not null" json:"max_points"`
	Position   int    `gorm:"not null" json:"position"`
}
