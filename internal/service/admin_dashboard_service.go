package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
)

// recentSubmissionLimit caps the recent-activity list on the admin landing
// view.
const recentSubmissionLimit = 5

// AdminDashboardService aggregates the counts and recent activity shown on
// the admin landing view.
type AdminDashboardService interface {
	GetOverview(ctx context.Context) (dto.AdminDashboardResponse, error)
}

type adminDashboardService struct {
	exercises   repository.ExerciseRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewAdminDashboardService constructs the admin dashboard service.
func NewAdminDashboardService(exercises repository.ExerciseRepository, submissions repository.SubmissionRepository, logger zerolog.Logger) AdminDashboardService {
	return &adminDashboardService{
		exercises:   exercises,
		submissions: submissions,
		logger:      logger.With().Str("component", "admin_dashboard_service").Logger(),
	}
}

// GetOverview returns exercise and submission totals, the pending/graded
// split and the five most recent submissions, newest first. Counts include
// unpublished exercises; admins see the full authoring backlog.
func (s *adminDashboardService) GetOverview(ctx context.Context) (dto.AdminDashboardResponse, error) {
	totalExercises, err := s.exercises.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	totalSubmissions, err := s.submissions.Count(ctx, nil)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	pendingStatus := models.SubmissionStatusPending
	pending, err := s.submissions.Count(ctx, &pendingStatus)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	gradedStatus := models.SubmissionStatusGraded
	graded, err := s.submissions.Count(ctx, &gradedStatus)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	recent, err := s.submissions.List(ctx, repository.SubmissionFilter{Limit: recentSubmissionLimit})
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	return dto.AdminDashboardResponse{
		Stats: dto.AdminStats{
			TotalExercises:   totalExercises,
			TotalSubmissions: totalSubmissions,
			Pending:          pending,
			Graded:           graded,
		},
		RecentSubmissions: dto.NewSubmissionResponseSlice(recent),
	}, nil
}
