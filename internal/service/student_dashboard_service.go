package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/grading"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
)

// StudentDashboardService aggregates a student's standing across published
// exercises.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	exercises   repository.ExerciseRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(exercises repository.ExerciseRepository, submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		exercises:   exercises,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	exercises, err := s.exercises.List(ctx, repository.ExerciseFilter{PublishedOnly: true})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := s.buildResponse(exercises, submissions)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

// buildResponse joins published exercises against the student's submissions
// into one progress row per exercise. Percentages use each exercise's
// current rubric; an exercise with an empty rubric contributes a score but
// no percentage.
func (s *studentDashboardService) buildResponse(exercises []models.Exercise, submissions []models.Submission) dto.StudentDashboardResponse {
	submissionByExercise := map[uint]models.Submission{}
	for _, submission := range submissions {
		submissionByExercise[submission.ExerciseID] = submission
	}

	summary := dto.ProgressSummary{}
	progress := make([]dto.ExerciseProgress, 0, len(exercises))
	var percentTotal float64
	var percentCount int

	for _, exercise := range exercises {
		summary.TotalExercises++
		maxPossible := grading.MaxPossible(exercise.Criteria)

		row := dto.ExerciseProgress{
			ExerciseID:  exercise.ID,
			Title:       exercise.Title,
			Difficulty:  exercise.Difficulty,
			Deadline:    exercise.Deadline,
			MaxPossible: maxPossible,
			Status:      dto.ProgressStatusNotSubmitted,
		}

		submission, submitted := submissionByExercise[exercise.ID]
		if !submitted {
			summary.NotSubmitted++
			progress = append(progress, row)
			continue
		}

		summary.Submitted++
		submittedAt := submission.SubmittedAt
		row.SubmissionID = &submission.ID
		row.SubmittedAt = &submittedAt
		row.Status = dto.ProgressStatusPending

		if submission.IsGraded() && submission.Grade != nil {
			summary.Graded++
			row.Status = dto.ProgressStatusGraded
			total := submission.Grade.TotalScore
			row.TotalScore = &total
			if percentage, err := grading.Percentage(total, maxPossible); err == nil {
				row.Percentage = &percentage
				percentTotal += percentage
				percentCount++
			}
		}

		progress = append(progress, row)
	}

	if percentCount > 0 {
		average := percentTotal / float64(percentCount)
		summary.AveragePercentage = &average
	}

	return dto.StudentDashboardResponse{
		Summary:   summary,
		Exercises: progress,
	}
}
