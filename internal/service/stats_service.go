package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
)

const fullStatsCacheKey = "stats:full"

// StatsService computes read-only projections over the other stores.
type StatsService interface {
	BasicStats(ctx context.Context) (dto.BasicStatsResponse, error)
	FullStats(ctx context.Context) (dto.FullStatsResponse, error)
}

type statsService struct {
	users      repository.UserRepository
	courses    repository.CourseRepository
	attendance repository.AttendanceRepository
	complaints repository.ComplaintRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStatsService builds the aggregator. Full stats are cached in redis for
// cacheTTL; cache failures degrade to a recompute.
func NewStatsService(users repository.UserRepository, courses repository.CourseRepository, attendance repository.AttendanceRepository, complaints repository.ComplaintRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) StatsService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &statsService{
		users:      users,
		courses:    courses,
		attendance: attendance,
		complaints: complaints,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("component", "stats_service").Logger(),
		now:        time.Now,
	}
}

func (s *statsService) BasicStats(ctx context.Context) (dto.BasicStatsResponse, error) {
	var (
		stats dto.BasicStatsResponse
		err   error
	)

	if stats.Students, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.Lecturers, err = s.users.CountByRole(ctx, models.RoleLecturer); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.Admins, err = s.users.CountByRole(ctx, models.RoleAdmin); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.Courses, err = s.courses.Count(ctx); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.ComplaintsOpen, err = s.complaints.CountByStatus(ctx, models.ComplaintStatusOpen); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.ComplaintsTotal, err = s.complaints.Count(ctx); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.AttendanceCount, err = s.attendance.CountSessions(ctx); err != nil {
		return dto.BasicStatsResponse{}, err
	}
	if stats.AttendanceRecords, err = s.attendance.CountRecords(ctx); err != nil {
		return dto.BasicStatsResponse{}, err
	}

	return stats, nil
}

func (s *statsService) FullStats(ctx context.Context) (dto.FullStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, fullStatsCacheKey).Result(); err == nil {
			var stats dto.FullStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				stats.CacheHit = true
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	stats, err := s.computeFullStats(ctx)
	if err != nil {
		return dto.FullStatsResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, fullStatsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return stats, nil
}

func (s *statsService) computeFullStats(ctx context.Context) (dto.FullStatsResponse, error) {
	var (
		stats dto.FullStatsResponse
		err   error
	)

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return dto.FullStatsResponse{}, err
	}
	if stats.Students, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return dto.FullStatsResponse{}, err
	}
	if stats.Lecturers, err = s.users.CountByRole(ctx, models.RoleLecturer); err != nil {
		return dto.FullStatsResponse{}, err
	}
	if stats.Courses, err = s.courses.Count(ctx); err != nil {
		return dto.FullStatsResponse{}, err
	}
	if stats.OpenComplaints, err = s.complaints.CountByStatus(ctx, models.ComplaintStatusOpen); err != nil {
		return dto.FullStatsResponse{}, err
	}

	total, err := s.attendance.CountRecords(ctx)
	if err != nil {
		return dto.FullStatsResponse{}, err
	}
	present, err := s.attendance.CountRecordsByStatus(ctx, models.AttendanceStatusPresent)
	if err != nil {
		return dto.FullStatsResponse{}, err
	}

	stats.TotalAttendanceRecords = total
	if total > 0 {
		stats.AttendanceRate = int(math.Round(float64(present) / float64(total) * 100))
	}
	stats.GeneratedAt = s.now().UTC()

	return stats, nil
}
