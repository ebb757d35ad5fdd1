package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/observability"
	"github.com/kodeclass/kodex-api/internal/repository"
)

// ErrAnnouncementNotFound indicates an announcement could not be found.
var ErrAnnouncementNotFound = errors.New("announcement not found")

const announcementCacheKey = "announcements:list:v1"

// AnnouncementService exposes announcement reads for everyone and writes
// for administrators.
type AnnouncementService interface {
	List(ctx context.Context) ([]dto.AnnouncementResponse, error)
	Create(ctx context.Context, payload dto.AnnouncementSaveRequest, actor Actor) (dto.AnnouncementResponse, error)
	Update(ctx context.Context, id uint, payload dto.AnnouncementSaveRequest) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id uint) error
}

type announcementService struct {
	repo      repository.AnnouncementRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	policy    *bluemonday.Policy
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(repo repository.AnnouncementRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AnnouncementService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &announcementService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		logger:    logger.With().Str("component", "announcement_service").Logger(),
		policy:    policy,
	}
}

// List returns announcements pinned-first, newest-first. Results are served
// from cache when possible; mutations invalidate the cache.
func (s *announcementService) List(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	start := time.Now()
	defer func() {
		observability.AnnouncementsLatency().Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, announcementCacheKey).Result(); err == nil && cached != "" {
			var responses []dto.AnnouncementResponse
			if err := json.Unmarshal([]byte(cached), &responses); err == nil {
				observability.AnnouncementsRequests().WithLabelValues("hit").Inc()
				return responses, nil
			}
		} else if err != nil && err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read announcement cache")
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		observability.AnnouncementsRequests().WithLabelValues("error").Inc()
		return nil, err
	}

	responses := dto.NewAnnouncementResponseSlice(items)

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, announcementCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache announcements")
			}
		}
	}

	observability.AnnouncementsRequests().WithLabelValues("miss").Inc()

	return responses, nil
}

func (s *announcementService) Create(ctx context.Context, payload dto.AnnouncementSaveRequest, actor Actor) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	item := models.Announcement{
		Title:     strings.TrimSpace(payload.Title),
		Content:   s.policy.Sanitize(payload.Content),
		Pinned:    payload.Pinned,
		CreatedBy: actor.ID,
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, item.ID)
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidate(ctx)
	s.logger.Info().Uint("announcement_id", created.ID).Uint("author_id", actor.ID).Msg("announcement created")

	return dto.NewAnnouncementResponse(created), nil
}

func (s *announcementService) Update(ctx context.Context, id uint, payload dto.AnnouncementSaveRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	item.Title = strings.TrimSpace(payload.Title)
	item.Content = s.policy.Sanitize(payload.Content)
	item.Pinned = payload.Pinned

	if err := s.repo.Update(ctx, &item); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidate(ctx)

	return dto.NewAnnouncementResponse(item), nil
}

func (s *announcementService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.invalidate(ctx)
	s.logger.Info().Uint("announcement_id", id).Msg("announcement deleted")

	return nil
}

func (s *announcementService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, announcementCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate announcement cache")
	}
}
