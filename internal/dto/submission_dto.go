package dto

import (
	"time"

	"github.com/kodeclass/kodex-api/internal/models"
)

// SubmissionUpsertRequest carries the two code artifacts for submit and
// resubmit. Blank main code is rejected by the lifecycle check, not by a
// validator tag, so the caller sees the domain error.
type SubmissionUpsertRequest struct {
	MainCode string `json:"main_code"`
	TestCode string `json:"test_code"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	ExerciseID *uint   `query:"exercise_id"`
	StudentID  *uint   `query:"student_id"`
	Status     *string `query:"status" validate:"omitempty,oneof=pending graded"`
}

// ExerciseLite summarizes an exercise in submission responses.
type ExerciseLite struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID          uint           `json:"id"`
	ExerciseID  uint           `json:"exercise_id"`
	StudentID   uint           `json:"student_id"`
	MainCode    string         `json:"main_code"`
	TestCode    string         `json:"test_code"`
	Status      string         `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Exercise    ExerciseLite   `json:"exercise"`
	Student     StudentLite    `json:"student"`
	Grade       *GradeResponse `json:"grade"`
}

// NewSubmissionResponse converts a Submission model into a DTO. The grade,
// when present, is joined back to the exercise criteria by identity.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:          model.ID,
		ExerciseID:  model.ExerciseID,
		StudentID:   model.StudentID,
		MainCode:    model.MainCode,
		TestCode:    model.TestCode,
		Status:      model.Status,
		SubmittedAt: model.SubmittedAt,
	}

	if model.Exercise.ID != 0 {
		response.Exercise = ExerciseLite{
			ID:         model.Exercise.ID,
			Title:      model.Exercise.Title,
			Difficulty: model.Exercise.Difficulty,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:       model.Student.ID,
			FullName: model.Student.FullName,
			Email:    model.Student.Email,
		}
	}

	if model.Grade != nil {
		grade := NewGradeResponse(*model.Grade, model.Exercise.Criteria)
		response.Grade = &grade
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
