package dto

import (
	"time"

	"github.com/kodeclass/kodex-api/internal/grading"
	"github.com/kodeclass/kodex-api/internal/models"
)

// GradeEntryInput awards points for one criterion. The upper bound is
// checked against the criterion itself in the service, not here.
type GradeEntryInput struct {
	CriterionID uint `json:"criterion_id" validate:"required,gt=0"`
	Points      int  `json:"points" validate:"gte=0"`
}

// GradeSubmissionRequest is the grading actor's payload. Saving replaces
// the full criterion-grade set and recomputes the total.
type GradeSubmissionRequest struct {
	Entries []GradeEntryInput `json:"entries" validate:"required,dive"`
	Comment string            `json:"comment"`
}

// CriterionGradeResponse is one rubric line of a grade, joined back to its
// criterion by identity.
type CriterionGradeResponse struct {
	CriterionID uint   `json:"criterion_id"`
	Label       string `json:"label"`
	MaxPoints   int    `json:"max_points"`
	Points      int    `json:"points"`
}

// GradeResponse is the client view of a grade. Percentage is null when the
// exercise has no criteria; the UI must special-case that instead of
// dividing by zero.
type GradeResponse struct {
	ID              uint                     `json:"id"`
	SubmissionID    uint                     `json:"submission_id"`
	GradedBy        uint                     `json:"graded_by"`
	TotalScore      int                      `json:"total_score"`
	MaxPossible     int                      `json:"max_possible"`
	Percentage      *float64                 `json:"percentage"`
	Comment         string                   `json:"comment"`
	GradedAt        time.Time                `json:"graded_at"`
	CriterionGrades []CriterionGradeResponse `json:"criterion_grades"`
}

// NewGradeResponse converts a Grade model into a DTO, matching criterion
// grades back to the exercise criteria by ID and ordering by position.
func NewGradeResponse(model models.Grade, criteria []models.Criterion) GradeResponse {
	entries := grading.MatchEntries(criteria, model.CriterionGrades)

	lines := make([]CriterionGradeResponse, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, CriterionGradeResponse{
			CriterionID: entry.Criterion.ID,
			Label:       entry.Criterion.Label,
			MaxPoints:   entry.Criterion.MaxPoints,
			Points:      entry.Points,
		})
	}

	response := GradeResponse{
		ID:              model.ID,
		SubmissionID:    model.SubmissionID,
		GradedBy:        model.GradedBy,
		TotalScore:      model.TotalScore,
		MaxPossible:     grading.MaxPossible(criteria),
		Comment:         model.Comment,
		GradedAt:        model.GradedAt,
		CriterionGrades: lines,
	}

	if pct, err := grading.Percentage(model.TotalScore, response.MaxPossible); err == nil {
		response.Percentage = &pct
	}

	return response
}
