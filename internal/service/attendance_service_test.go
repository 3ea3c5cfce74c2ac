package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
)

func TestAttendanceServiceGenerateSession(t *testing.T) {
	svc, db, _ := setupAttendanceService(t)
	course := seedCourse(t, db)

	lecturer := Requester{ID: 1, Role: models.RoleLecturer}
	session, err := svc.GenerateSession(context.Background(), course.ID, lecturer)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(session.LectureID, "lec-"))
	require.True(t, strings.HasPrefix(session.QRDataURL, "data:image/png;base64,"))
	require.True(t, session.ExpiresAt.After(time.Now()))

	var payload dto.QRPayload
	require.NoError(t, json.Unmarshal([]byte(session.Payload), &payload))
	require.Equal(t, course.ID, payload.CourseID)
	require.Equal(t, session.LectureID, payload.LectureID)

	second, err := svc.GenerateSession(context.Background(), course.ID, lecturer)
	require.NoError(t, err)
	require.NotEqual(t, session.LectureID, second.LectureID, "each session gets a fresh lecture id")
}

func TestAttendanceServiceGenerateRequiresStaff(t *testing.T) {
	svc, db, _ := setupAttendanceService(t)
	course := seedCourse(t, db)

	_, err := svc.GenerateSession(context.Background(), course.ID, Requester{ID: 9, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GenerateSession(context.Background(), course.ID+100, Requester{ID: 1, Role: models.RoleLecturer})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestAttendanceServiceRedeem(t *testing.T) {
	svc, db, _ := setupAttendanceService(t)
	course := seedCourse(t, db)

	session, err := svc.GenerateSession(context.Background(), course.ID, Requester{ID: 1, Role: models.RoleLecturer})
	require.NoError(t, err)

	student := Requester{ID: 42, Role: models.RoleStudent}
	result, err := svc.Redeem(context.Background(), session.Payload, student)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, session.LectureID, result.LectureID)
	require.Equal(t, models.AttendanceStatusPresent, result.Status)

	_, err = svc.Redeem(context.Background(), session.Payload, student)
	require.ErrorIs(t, err, ErrAlreadyScanned)

	other := Requester{ID: 43, Role: models.RoleStudent}
	_, err = svc.Redeem(context.Background(), session.Payload, other)
	require.NoError(t, err, "a different student may still scan")
}

func TestAttendanceServiceRedeemRejectsBadPayloads(t *testing.T) {
	svc, db, _ := setupAttendanceService(t)
	course := seedCourse(t, db)

	session, err := svc.GenerateSession(context.Background(), course.ID, Requester{ID: 1, Role: models.RoleLecturer})
	require.NoError(t, err)

	student := Requester{ID: 42, Role: models.RoleStudent}

	truncated := session.Payload[:len(session.Payload)/2]
	_, err = svc.Redeem(context.Background(), truncated, student)
	require.ErrorIs(t, err, ErrInvalidPayload)

	altered, err := json.Marshal(dto.QRPayload{CourseID: course.ID, LectureID: "lec-forged", IssuedAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.Redeem(context.Background(), string(altered), student)
	require.ErrorIs(t, err, ErrSessionNotFound)

	empty, err := json.Marshal(dto.QRPayload{})
	require.NoError(t, err)
	_, err = svc.Redeem(context.Background(), string(empty), student)
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestAttendanceServiceRedeemExpiredSession(t *testing.T) {
	svc, db, _ := setupAttendanceService(t)
	course := seedCourse(t, db)

	session, err := svc.GenerateSession(context.Background(), course.ID, Requester{ID: 1, Role: models.RoleLecturer})
	require.NoError(t, err)

	impl, ok := svc.(*attendanceService)
	require.True(t, ok)
	impl.now = func() time.Time { return time.Now().Add(4 * time.Hour) }

	_, err = svc.Redeem(context.Background(), session.Payload, Requester{ID: 42, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestAttendanceServiceDuplicateDetectedWithoutCache(t *testing.T) {
	db := setupServiceTestDB(t, &models.Course{}, &models.Material{}, &models.LectureSession{}, &models.AttendanceRecord{})
	course := seedCourse(t, db)

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewCourseRepository(db), nil, 3*time.Hour, zerolog.Nop())

	session, err := svc.GenerateSession(context.Background(), course.ID, Requester{ID: 1, Role: models.RoleLecturer})
	require.NoError(t, err)

	student := Requester{ID: 42, Role: models.RoleStudent}
	_, err = svc.Redeem(context.Background(), session.Payload, student)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), session.Payload, student)
	require.ErrorIs(t, err, ErrAlreadyScanned, "database lookup backstops the cache")
}

func TestAttendanceServiceListSessions(t *testing.T) {
	svc, db, _ := setupAttendanceService(t)
	course := seedCourse(t, db)

	lecturer := Requester{ID: 1, Role: models.RoleLecturer}
	session, err := svc.GenerateSession(context.Background(), course.ID, lecturer)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), session.Payload, Requester{ID: 42, Role: models.RoleStudent})
	require.NoError(t, err)

	sessions, err := svc.ListSessions(context.Background(), course.ID, lecturer)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, session.LectureID, sessions[0].LectureID)
	require.Equal(t, 1, sessions[0].RecordCount)

	_, err = svc.ListSessions(context.Background(), course.ID, Requester{ID: 42, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrForbidden)
}

func setupAttendanceService(t *testing.T) (AttendanceService, *gorm.DB, *redis.Client) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := setupServiceTestDB(t, &models.Course{}, &models.Material{}, &models.LectureSession{}, &models.AttendanceRecord{})

	svc := NewAttendanceService(repository.NewAttendanceRepository(db), repository.NewCourseRepository(db), redisClient, 3*time.Hour, zerolog.Nop())
	return svc, db, redisClient
}

func seedCourse(t *testing.T, db *gorm.DB) models.Course {
	t.Helper()
	course := models.Course{Code: "CS101", Title: "Intro to Programming", LecturerID: 1}
	require.NoError(t, db.Create(&course).Error)
	return course
}
