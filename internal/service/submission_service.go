package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/grading"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService drives the student side of the submission lifecycle.
type SubmissionService interface {
	Submit(ctx context.Context, exerciseID uint, payload dto.SubmissionUpsertRequest, actor Actor) (dto.SubmissionResponse, error)
	ListOwn(ctx context.Context, actor Actor, status *string) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	exercises   repository.ExerciseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, exercises repository.ExerciseRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		exercises:   exercises,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit creates the submission for a (exercise, student) pair or, when one
// exists, resubmits in place: code and timestamp refresh, status returns to
// pending and any stale grade is removed. The deadline is informational and
// never blocks a submit.
func (s *submissionService) Submit(ctx context.Context, exerciseID uint, payload dto.SubmissionUpsertRequest, actor Actor) (dto.SubmissionResponse, error) {
	if err := grading.ValidateSubmit(payload.MainCode); err != nil {
		return dto.SubmissionResponse{}, err
	}

	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrExerciseNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !exercise.IsPublished {
		return dto.SubmissionResponse{}, ErrExerciseNotFound
	}

	existing, err := s.submissions.GetByExerciseAndStudent(ctx, exerciseID, actor.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.create(ctx, exerciseID, payload, actor)
	case err != nil:
		return dto.SubmissionResponse{}, err
	}

	return s.resubmit(ctx, existing, payload)
}

func (s *submissionService) create(ctx context.Context, exerciseID uint, payload dto.SubmissionUpsertRequest, actor Actor) (dto.SubmissionResponse, error) {
	submission := models.Submission{
		ExerciseID:  exerciseID,
		StudentID:   actor.ID,
		MainCode:    payload.MainCode,
		TestCode:    payload.TestCode,
		Status:      models.SubmissionStatusPending,
		SubmittedAt: s.now(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("exercise_id", exerciseID).
		Uint("student_id", actor.ID).
		Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) resubmit(ctx context.Context, submission models.Submission, payload dto.SubmissionUpsertRequest) (dto.SubmissionResponse, error) {
	state := grading.StateOf(&submission)
	if !state.CanResubmit() {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	wasGraded := state == grading.StateGraded

	submission.MainCode = payload.MainCode
	submission.TestCode = payload.TestCode
	submission.Status = models.SubmissionStatusPending
	submission.SubmittedAt = s.now()

	if err := s.submissions.Resubmit(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", updated.ID).
		Bool("reopened", wasGraded).
		Msg("submission resubmitted")

	return dto.NewSubmissionResponse(updated), nil
}

// ListOwn returns the student's submissions, newest first, restricted to
// published exercises.
func (s *submissionService) ListOwn(ctx context.Context, actor Actor, status *string) ([]dto.SubmissionResponse, error) {
	filter := dto.SubmissionFilter{StudentID: &actor.ID, Status: status}
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		StudentID: filter.StudentID,
		Status:    filter.Status,
	})
	if err != nil {
		return nil, err
	}

	visible := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if submission.Exercise.IsPublished {
			visible = append(visible, submission)
		}
	}

	return dto.NewSubmissionResponseSlice(visible), nil
}
