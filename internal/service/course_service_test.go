package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
)

type fakeStorage struct {
	uploads []string
	err     error
}

func (f *fakeStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, name)
	return "https://files.test/" + name, nil
}

func TestCourseServiceCreate(t *testing.T) {
	svc, store := setupCourseService(t)
	ctx := context.Background()

	lecturer := Requester{ID: 5, Role: models.RoleLecturer}
	course, err := svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Intro to Programming"}, nil, lecturer)
	require.NoError(t, err)
	require.NotZero(t, course.ID)
	require.Equal(t, uint(5), course.LecturerID, "lecturer defaults to the creator")
	require.Empty(t, store.uploads)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestCourseServiceCreateGuards(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Intro"}, nil, Requester{ID: 9, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrForbidden)

	lecturer := Requester{ID: 5, Role: models.RoleLecturer}
	_, err = svc.Create(ctx, dto.CourseCreateRequest{Code: "C", Title: ""}, nil, lecturer)
	require.Error(t, err, "validation rejects short code and empty title")

	_, err = svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Intro"}, nil, lecturer)
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Copy"}, nil, lecturer)
	require.ErrorIs(t, err, ErrCourseCodeTaken)
}

func TestCourseServiceCreateWithFile(t *testing.T) {
	svc, store := setupCourseService(t)
	ctx := context.Background()

	file := makeFileHeader(t, "syllabus.txt", []byte("Week 1: introductions\nWeek 2: variables"))
	lecturer := Requester{ID: 5, Role: models.RoleLecturer}

	course, err := svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Intro"}, file, lecturer)
	require.NoError(t, err)
	require.Len(t, course.Materials, 1)
	require.Equal(t, "syllabus.txt", course.Materials[0].Title)
	require.Equal(t, []string{"syllabus.txt"}, store.uploads)
}

func TestCourseServiceAddMaterials(t *testing.T) {
	svc, store := setupCourseService(t)
	ctx := context.Background()

	lecturer := Requester{ID: 5, Role: models.RoleLecturer}
	course, err := svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Intro"}, nil, lecturer)
	require.NoError(t, err)

	files := []*multipart.FileHeader{
		makeFileHeader(t, "week1.txt", []byte("variables and types")),
		makeFileHeader(t, "week2.txt", []byte("control flow basics")),
	}

	updated, err := svc.AddMaterials(ctx, course.ID, files, lecturer)
	require.NoError(t, err)
	require.Len(t, updated.Materials, 2)
	require.Len(t, store.uploads, 2)

	_, err = svc.AddMaterials(ctx, course.ID, files, Requester{ID: 9, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddMaterials(ctx, course.ID+100, files, lecturer)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseServiceRejectsBadUploads(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	lecturer := Requester{ID: 5, Role: models.RoleLecturer}
	course, err := svc.Create(ctx, dto.CourseCreateRequest{Code: "CS101", Title: "Intro"}, nil, lecturer)
	require.NoError(t, err)

	binary := makeFileHeader(t, "tool.bin", []byte{0x7f, 0x45, 0x4c, 0x46, 0x02, 0x01, 0x01, 0x00})
	_, err = svc.AddMaterials(ctx, course.ID, []*multipart.FileHeader{binary}, lecturer)
	require.ErrorIs(t, err, ErrFileTypeNotAllowed)

	huge := makeFileHeader(t, "huge.txt", bytes.Repeat([]byte("a"), 2*1024*1024))
	_, err = svc.AddMaterials(ctx, course.ID, []*multipart.FileHeader{huge}, lecturer)
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func setupCourseService(t *testing.T) (CourseService, *fakeStorage) {
	t.Helper()
	db := setupServiceTestDB(t, &models.Course{}, &models.Material{})
	store := &fakeStorage{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(repository.NewCourseRepository(db), store, validate, 1, zerolog.Nop())
	return svc, store
}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	headers := req.MultipartForm.File["file"]
	require.Len(t, headers, 1)
	return headers[0]
}
