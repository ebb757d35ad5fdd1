package dto

import (
	"fmt"
	"time"

	"github.com/kodeclass/kodex-api/internal/grading"
	"github.com/kodeclass/kodex-api/internal/models"
)

// CriterionInput is one rubric line in an exercise save payload. Position
// follows slice order; the stored criterion set is replaced wholesale.
type CriterionInput struct {
	Label     string `json:"label" validate:"required,max=255"`
	MaxPoints int    `json:"max_points" validate:"required,gt=0"`
}

// ExerciseSaveRequest is shared by create and update; every save replaces
// the full criterion set.
type ExerciseSaveRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description"`
	Difficulty  string           `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Deadline    *time.Time       `json:"deadline"`
	IsPublished bool             `json:"is_published"`
	Criteria    []CriterionInput `json:"criteria" validate:"dive"`
}

// SolutionUpdateRequest stores the model solution and its own publication
// flag, independent of the exercise publication flag.
type SolutionUpdateRequest struct {
	SolutionCode      string `json:"solution_code"`
	SolutionPublished bool   `json:"solution_published"`
}

// CriterionResponse is the client view of a rubric line.
type CriterionResponse struct {
	ID        uint   `json:"id"`
	Label     string `json:"label"`
	MaxPoints int    `json:"max_points"`
	Position  int    `json:"position"`
}

// ExerciseResponse is the client view of an exercise with its ordered
// criteria and rubric totals.
type ExerciseResponse struct {
	ID                uint                `json:"id"`
	CreatedBy         uint                `json:"created_by"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Difficulty        string              `json:"difficulty"`
	IsPublished       bool                `json:"is_published"`
	SolutionPublished bool                `json:"solution_published"`
	Deadline          *time.Time          `json:"deadline"`
	TestFileURL       string              `json:"test_file_url"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	Criteria          []CriterionResponse `json:"criteria"`
	MaxPossible       int                 `json:"max_possible"`
	RubricWarning     string              `json:"rubric_warning,omitempty"`
}

// ExerciseDetailResponse is the student view of a single exercise: the
// exercise itself, the student's own submission (with grade, if visible)
// and the model solution when its flag allows.
type ExerciseDetailResponse struct {
	Exercise     ExerciseResponse    `json:"exercise"`
	Submission   *SubmissionResponse `json:"submission"`
	SolutionCode string              `json:"solution_code,omitempty"`
}

// NewExerciseResponse converts an Exercise model into a DTO. Criteria are
// ordered by position and the rubric warning is attached when the total
// overshoots the conventional target.
func NewExerciseResponse(model models.Exercise) ExerciseResponse {
	criteria := make([]models.Criterion, len(model.Criteria))
	copy(criteria, model.Criteria)
	grading.SortCriteria(criteria)

	responses := make([]CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		responses = append(responses, CriterionResponse{
			ID:        criterion.ID,
			Label:     criterion.Label,
			MaxPoints: criterion.MaxPoints,
			Position:  criterion.Position,
		})
	}

	response := ExerciseResponse{
		ID:                model.ID,
		CreatedBy:         model.CreatedBy,
		Title:             model.Title,
		Description:       model.Description,
		Difficulty:        model.Difficulty,
		IsPublished:       model.IsPublished,
		SolutionPublished: model.SolutionPublished,
		Deadline:          model.Deadline,
		TestFileURL:       model.TestFileURL,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		Criteria:          responses,
		MaxPossible:       grading.MaxPossible(criteria),
	}

	if grading.ExceedsTarget(criteria) {
		response.RubricWarning = fmt.Sprintf("rubric total %d exceeds the target of %d points", response.MaxPossible, grading.TargetRubricTotal)
	}

	return response
}

// NewExerciseResponseSlice converts exercise models into DTOs.
func NewExerciseResponseSlice(exercises []models.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, 0, len(exercises))
	for _, exercise := range exercises {
		responses = append(responses, NewExerciseResponse(exercise))
	}
	return responses
}
