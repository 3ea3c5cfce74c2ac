package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
)

func TestStatsServiceBasicStats(t *testing.T) {
	svc, db := setupStatsService(t, nil)
	seedStatsData(t, db)

	stats, err := svc.BasicStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Students)
	require.Equal(t, int64(1), stats.Lecturers)
	require.Equal(t, int64(1), stats.Admins)
	require.Equal(t, int64(1), stats.Courses)
	require.Equal(t, int64(1), stats.ComplaintsOpen)
	require.Equal(t, int64(2), stats.ComplaintsTotal)
	require.Equal(t, int64(2), stats.AttendanceCount)
	require.Equal(t, int64(1), stats.AttendanceRecords)
}

func TestStatsServiceFullStatsRate(t *testing.T) {
	svc, db := setupStatsService(t, nil)
	seedStatsData(t, db)

	stats, err := svc.FullStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.TotalUsers)
	require.Equal(t, 100, stats.AttendanceRate, "every record is present")
	require.False(t, stats.CacheHit)
	require.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsServiceFullStatsZeroRecords(t *testing.T) {
	svc, _ := setupStatsService(t, nil)

	stats, err := svc.FullStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.AttendanceRate, "rate is zero when nothing was recorded")
}

func TestStatsServiceFullStatsCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	svc, db := setupStatsService(t, redisClient)
	seedStatsData(t, db)

	first, err := svc.FullStats(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	// New data must not show up until the cache entry expires.
	extra := models.User{Name: "S3", Email: "s3@campus.test", Role: models.RoleStudent, PasswordHash: "h"}
	require.NoError(t, db.Create(&extra).Error)

	second, err := svc.FullStats(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.TotalUsers, second.TotalUsers)

	mini.FastForward(2 * time.Minute)

	third, err := svc.FullStats(context.Background())
	require.NoError(t, err)
	require.False(t, third.CacheHit)
	require.Equal(t, first.TotalUsers+1, third.TotalUsers)
}

func setupStatsService(t *testing.T, cache *redis.Client) (StatsService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t,
		&models.User{}, &models.Course{}, &models.Material{},
		&models.LectureSession{}, &models.AttendanceRecord{}, &models.Complaint{},
	)

	svc := NewStatsService(
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewAttendanceRepository(db),
		repository.NewComplaintRepository(db),
		cache,
		time.Minute,
		zerolog.Nop(),
	)
	return svc, db
}

func seedStatsData(t *testing.T, db *gorm.DB) {
	t.Helper()

	users := []models.User{
		{Name: "S1", Email: "s1@campus.test", Role: models.RoleStudent, PasswordHash: "h"},
		{Name: "S2", Email: "s2@campus.test", Role: models.RoleStudent, PasswordHash: "h"},
		{Name: "L1", Email: "l1@campus.test", Role: models.RoleLecturer, PasswordHash: "h"},
		{Name: "A1", Email: "a1@campus.test", Role: models.RoleAdmin, PasswordHash: "h"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	course := models.Course{Code: "CS101", Title: "Intro"}
	require.NoError(t, db.Create(&course).Error)

	now := time.Now().UTC()
	sessions := []models.LectureSession{
		{CourseID: course.ID, LectureID: "lec-1", Date: now, ExpiresAt: now.Add(3 * time.Hour)},
		{CourseID: course.ID, LectureID: "lec-2", Date: now, ExpiresAt: now.Add(3 * time.Hour)},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	record := models.AttendanceRecord{SessionID: sessions[0].ID, UserID: users[0].ID, Status: models.AttendanceStatusPresent, Timestamp: now}
	require.NoError(t, db.Create(&record).Error)

	complaints := []models.Complaint{
		{UserID: users[0].ID, Title: "Open", Description: "pending complaint", Status: models.ComplaintStatusOpen, Attachments: datatypes.JSON([]byte(`[]`))},
		{UserID: users[1].ID, Title: "Done", Description: "handled complaint", Status: models.ComplaintStatusResolved, Attachments: datatypes.JSON([]byte(`[]`))},
	}
	for i := range complaints {
		require.NoError(t, db.Create(&complaints[i]).Error)
	}
}
