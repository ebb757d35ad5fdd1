package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
)

// ErrExerciseNotFound indicates an exercise could not be found. Unpublished
// exercises are reported the same way to students so their existence leaks
// nothing.
var ErrExerciseNotFound = errors.New("exercise not found")

// FileUploader pushes an attachment to external storage and returns its URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ExerciseService orchestrates exercise authoring and student reads.
type ExerciseService interface {
	ListAdmin(ctx context.Context) ([]dto.ExerciseResponse, error)
	ListPublished(ctx context.Context) ([]dto.ExerciseResponse, error)
	GetAdmin(ctx context.Context, id uint) (dto.ExerciseResponse, error)
	GetForStudent(ctx context.Context, id uint, actor Actor) (dto.ExerciseDetailResponse, error)
	Create(ctx context.Context, payload dto.ExerciseSaveRequest, actor Actor) (dto.ExerciseResponse, error)
	Update(ctx context.Context, id uint, payload dto.ExerciseSaveRequest, actor Actor) (dto.ExerciseResponse, error)
	Delete(ctx context.Context, id uint) error
	SetPublished(ctx context.Context, id uint, published bool) (dto.ExerciseResponse, error)
	UpdateSolution(ctx context.Context, id uint, payload dto.SolutionUpdateRequest) (dto.ExerciseResponse, error)
	UploadTestFile(ctx context.Context, id uint, file *multipart.FileHeader) (dto.ExerciseResponse, error)
}

type exerciseService struct {
	exercises   repository.ExerciseRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	uploader    FileUploader
	logger      zerolog.Logger
	now         func() time.Time
}

// NewExerciseService constructs the exercise service.
func NewExerciseService(exercises repository.ExerciseRepository, submissions repository.SubmissionRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) ExerciseService {
	return &exerciseService{
		exercises:   exercises,
		submissions: submissions,
		validator:   validate,
		uploader:    uploader,
		logger:      logger.With().Str("component", "exercise_service").Logger(),
		now:         time.Now,
	}
}

func (s *exerciseService) ListAdmin(ctx context.Context) ([]dto.ExerciseResponse, error) {
	exercises, err := s.exercises.List(ctx, repository.ExerciseFilter{})
	if err != nil {
		return nil, err
	}
	return dto.NewExerciseResponseSlice(exercises), nil
}

func (s *exerciseService) ListPublished(ctx context.Context) ([]dto.ExerciseResponse, error) {
	exercises, err := s.exercises.List(ctx, repository.ExerciseFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	return dto.NewExerciseResponseSlice(exercises), nil
}

func (s *exerciseService) GetAdmin(ctx context.Context, id uint) (dto.ExerciseResponse, error) {
	exercise, err := s.getExercise(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}
	return dto.NewExerciseResponse(exercise), nil
}

// GetForStudent resolves a published exercise together with the student's
// own submission and grade. The model solution is attached only when its
// own publication flag allows; the two flags are independent.
func (s *exerciseService) GetForStudent(ctx context.Context, id uint, actor Actor) (dto.ExerciseDetailResponse, error) {
	exercise, err := s.getExercise(ctx, id)
	if err != nil {
		return dto.ExerciseDetailResponse{}, err
	}

	if !exercise.IsPublished {
		return dto.ExerciseDetailResponse{}, ErrExerciseNotFound
	}

	detail := dto.ExerciseDetailResponse{Exercise: dto.NewExerciseResponse(exercise)}

	submission, err := s.submissions.GetByExerciseAndStudent(ctx, id, actor.ID)
	switch {
	case err == nil:
		response := dto.NewSubmissionResponse(submission)
		detail.Submission = &response
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No submission yet; the pair is still in its initial state.
	default:
		return dto.ExerciseDetailResponse{}, err
	}

	if exercise.SolutionPublished {
		detail.SolutionCode = exercise.SolutionCode
	}

	return detail, nil
}

func (s *exerciseService) Create(ctx context.Context, payload dto.ExerciseSaveRequest, actor Actor) (dto.ExerciseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise := models.Exercise{
		CreatedBy:   actor.ID,
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Difficulty:  payload.Difficulty,
		Deadline:    payload.Deadline,
		IsPublished: payload.IsPublished,
	}

	if err := s.exercises.Create(ctx, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}

	if err := s.exercises.ReplaceCriteria(ctx, exercise.ID, criteriaFromInputs(payload.Criteria)); err != nil {
		return dto.ExerciseResponse{}, err
	}

	created, err := s.exercises.GetByID(ctx, exercise.ID)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	s.logger.Info().Uint("exercise_id", created.ID).Uint("author_id", actor.ID).Msg("exercise created")

	return dto.NewExerciseResponse(created), nil
}

// Update rewrites the exercise and replaces its criterion set wholesale.
// Criterion IDs are not stable across saves.
func (s *exerciseService) Update(ctx context.Context, id uint, payload dto.ExerciseSaveRequest, actor Actor) (dto.ExerciseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise, err := s.getExercise(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise.Title = strings.TrimSpace(payload.Title)
	exercise.Description = strings.TrimSpace(payload.Description)
	exercise.Difficulty = payload.Difficulty
	exercise.Deadline = payload.Deadline
	exercise.IsPublished = payload.IsPublished

	if err := s.exercises.Update(ctx, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}

	if err := s.exercises.ReplaceCriteria(ctx, exercise.ID, criteriaFromInputs(payload.Criteria)); err != nil {
		return dto.ExerciseResponse{}, err
	}

	updated, err := s.exercises.GetByID(ctx, exercise.ID)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	s.logger.Info().Uint("exercise_id", updated.ID).Uint("author_id", actor.ID).Msg("exercise updated")

	return dto.NewExerciseResponse(updated), nil
}

func (s *exerciseService) Delete(ctx context.Context, id uint) error {
	if err := s.exercises.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	s.logger.Info().Uint("exercise_id", id).Msg("exercise deleted")

	return nil
}

func (s *exerciseService) SetPublished(ctx context.Context, id uint, published bool) (dto.ExerciseResponse, error) {
	exercise, err := s.getExercise(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise.IsPublished = published
	if err := s.exercises.Update(ctx, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}

	return dto.NewExerciseResponse(exercise), nil
}

func (s *exerciseService) UpdateSolution(ctx context.Context, id uint, payload dto.SolutionUpdateRequest) (dto.ExerciseResponse, error) {
	exercise, err := s.getExercise(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise.SolutionCode = payload.SolutionCode
	exercise.SolutionPublished = payload.SolutionPublished

	if err := s.exercises.Update(ctx, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}

	return dto.NewExerciseResponse(exercise), nil
}

func (s *exerciseService) UploadTestFile(ctx context.Context, id uint, file *multipart.FileHeader) (dto.ExerciseResponse, error) {
	if file == nil {
		return dto.ExerciseResponse{}, fmt.Errorf("attachment file is required")
	}

	exercise, err := s.getExercise(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	if err := validateAttachmentType(file); err != nil {
		return dto.ExerciseResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.ExerciseResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	uploadURL, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.ExerciseResponse{}, fmt.Errorf("failed to upload attachment: %w", err)
	}

	exercise.TestFileURL = uploadURL
	if err := s.exercises.Update(ctx, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}

	s.logger.Info().Uint("exercise_id", id).Msg("test file attached")

	return dto.NewExerciseResponse(exercise), nil
}

func (s *exerciseService) getExercise(ctx context.Context, id uint) (models.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Exercise{}, ErrExerciseNotFound
		}
		return models.Exercise{}, err
	}
	return exercise, nil
}

func criteriaFromInputs(inputs []dto.CriterionInput) []models.Criterion {
	criteria := make([]models.Criterion, 0, len(inputs))
	for i, input := range inputs {
		criteria = append(criteria, models.Criterion{
			Label:     strings.TrimSpace(input.Label),
			MaxPoints: input.MaxPoints,
			Position:  i,
		})
	}
	return criteria
}

func validateAttachmentType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"text/plain", "application/zip", "application/x-zip-compressed"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}
