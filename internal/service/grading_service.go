package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/grading"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/observability"
	"github.com/kodeclass/kodex-api/internal/repository"
)

// ErrUnknownCriterion indicates a grade entry referencing a criterion that
// does not belong to the submission's exercise. Criterion IDs change on
// every exercise save, so a grading form held open across an edit can
// produce this.
var ErrUnknownCriterion = errors.New("entry references unknown criterion")

// GradingService encapsulates grading workflows for administrators.
type GradingService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, submissionID uint) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, actor Actor) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	grades      repository.GradeRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(submissions repository.SubmissionRepository, grades repository.GradeRepository, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: submissions,
		grades:      grades,
		validator:   validate,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradingService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		ExerciseID: filter.ExerciseID,
		StudentID:  filter.StudentID,
		Status:     filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *gradingService) Get(ctx context.Context, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

// Grade validates every entry against its criterion bounds, computes the
// total and persists the grade with its criterion-grade lines in one
// transaction, transitioning the submission to graded. Grading an already
// graded submission updates the existing grade in place.
func (s *gradingService) Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, actor Actor) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/kodeclass/kodex-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.grade")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if !grading.StateOf(&submission).CanGrade() {
		span.SetStatus(codes.Error, "invalid_state")
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	entries, err := s.buildEntries(submission.Exercise.Criteria, payload.Entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry_validation_failed")
		return dto.SubmissionResponse{}, err
	}

	total, err := grading.ComputeTotal(entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_out_of_range")
		return dto.SubmissionResponse{}, err
	}

	grade := models.Grade{
		SubmissionID: submission.ID,
		GradedBy:     actor.ID,
		TotalScore:   total,
		Comment:      strings.TrimSpace(payload.Comment),
		GradedAt:     s.now(),
	}

	lines := make([]models.CriterionGrade, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, models.CriterionGrade{
			CriterionID: entry.Criterion.ID,
			Points:      entry.Points,
		})
	}

	if err := s.grades.Save(ctx, &grade, lines); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_save_failed")
		observability.SubmissionsGraded().WithLabelValues("error").Inc()
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionsGraded().WithLabelValues("success").Inc()

	graded, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("grader_id", actor.ID).
		Int("total_score", total).
		Msg("submission graded")

	span.SetAttributes(
		attribute.Int("grading.total_score", total),
		attribute.Int("grading.entries", len(entries)),
	)

	return dto.NewSubmissionResponse(graded), nil
}

// buildEntries resolves payload entries against the exercise's criteria by
// ID. Every entry must reference a known criterion and stay within its
// bounds; the UI clamps at entry time, this is defense in depth.
func (s *gradingService) buildEntries(criteria []models.Criterion, inputs []dto.GradeEntryInput) ([]grading.Entry, error) {
	byID := make(map[uint]models.Criterion, len(criteria))
	for _, criterion := range criteria {
		byID[criterion.ID] = criterion
	}

	entries := make([]grading.Entry, 0, len(inputs))
	for _, input := range inputs {
		criterion, ok := byID[input.CriterionID]
		if !ok {
			return nil, ErrUnknownCriterion
		}
		entries = append(entries, grading.Entry{Criterion: criterion, Points: input.Points})
	}

	if err := grading.ValidateEntries(entries); err != nil {
		return nil, err
	}

	return entries, nil
}
