package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/models"
)

func TestAttendanceRepositorySessionLifecycle(t *testing.T) {
	db := setupRepoTestDB(t, &models.LectureSession{}, &models.AttendanceRecord{})
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	session := models.LectureSession{CourseID: 1, LectureID: "lec-abc", Date: now, ExpiresAt: now.Add(3 * time.Hour)}
	require.NoError(t, repo.CreateSession(context.Background(), &session))
	require.NotZero(t, session.ID)

	found, err := repo.GetSession(context.Background(), 1, "lec-abc")
	require.NoError(t, err)
	require.Equal(t, session.ID, found.ID)

	_, err = repo.GetSession(context.Background(), 1, "lec-other")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetSession(context.Background(), 2, "lec-abc")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "lecture id must match its own course")
}

func TestAttendanceRepositoryRecords(t *testing.T) {
	db := setupRepoTestDB(t, &models.LectureSession{}, &models.AttendanceRecord{})
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	session := models.LectureSession{CourseID: 1, LectureID: "lec-abc", Date: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.CreateSession(context.Background(), &session))

	exists, err := repo.HasRecord(context.Background(), session.ID, 7)
	require.NoError(t, err)
	require.False(t, exists)

	record := models.AttendanceRecord{SessionID: session.ID, UserID: 7, Status: models.AttendanceStatusPresent, Timestamp: now}
	require.NoError(t, repo.AppendRecord(context.Background(), &record))

	exists, err = repo.HasRecord(context.Background(), session.ID, 7)
	require.NoError(t, err)
	require.True(t, exists)

	duplicate := models.AttendanceRecord{SessionID: session.ID, UserID: 7, Status: models.AttendanceStatusPresent, Timestamp: now}
	require.Error(t, repo.AppendRecord(context.Background(), &duplicate), "unique index rejects a second record per user")

	records, err := repo.CountRecords(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), records)

	present, err := repo.CountRecordsByStatus(context.Background(), models.AttendanceStatusPresent)
	require.NoError(t, err)
	require.Equal(t, int64(1), present)
}

func TestAttendanceRepositoryListSessionsByCourse(t *testing.T) {
	db := setupRepoTestDB(t, &models.LectureSession{}, &models.AttendanceRecord{})
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	older := models.LectureSession{CourseID: 1, LectureID: "lec-old", Date: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-45 * time.Hour)}
	newer := models.LectureSession{CourseID: 1, LectureID: "lec-new", Date: now, ExpiresAt: now.Add(3 * time.Hour)}
	other := models.LectureSession{CourseID: 2, LectureID: "lec-other", Date: now, ExpiresAt: now.Add(3 * time.Hour)}
	require.NoError(t, repo.CreateSession(context.Background(), &older))
	require.NoError(t, repo.CreateSession(context.Background(), &newer))
	require.NoError(t, repo.CreateSession(context.Background(), &other))

	record := models.AttendanceRecord{SessionID: newer.ID, UserID: 7, Status: models.AttendanceStatusPresent, Timestamp: now}
	require.NoError(t, repo.AppendRecord(context.Background(), &record))

	sessions, err := repo.ListSessionsByCourse(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "lec-new", sessions[0].LectureID, "newest session first")
	require.Len(t, sessions[0].Records, 1)

	total, err := repo.CountSessions(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
}
