package models

import "time"

// Grade is the aggregate evaluation of one submission. A submission carries
// at most one grade; re-grading updates the row in place.
type Grade struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	SubmissionID    uint             `gorm:"not null;uniqueIndex" json:"submission_id"`
	GradedBy        uint             `gorm:"not null" json:"graded_by"`
	TotalScore      int              `gorm:"not null" json:"total_score"`
	Comment         string           `gorm:"type:text" json:"comment"`
	GradedAt        time.Time        `gorm:"not null" json:"graded_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	CriterionGrades []CriterionGrade `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"criterion_grades"`
}

// CriterionGrade records the points awarded for one criterion within one
// grade. The set is replaced wholesale on every grade save.
type CriterionGrade struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GradeID     uint      `gorm:"not null;index" json:"grade_id"`
	CriterionID uint      `gorm:"not null" json:"criterion_id"`
	Points      int       `gorm:"not null" json:"points"`
	Criterion   Criterion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"criterion"`
}
