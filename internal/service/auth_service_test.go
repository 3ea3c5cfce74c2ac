package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
	"github.com/helwan-dev/smart-campus-api/internal/security"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthService(t)

	ctx := context.Background()
	user, err := svc.Register(ctx, dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@campus.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, models.RoleStudent, user.Role, "role defaults to student")

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "alice@campus.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, user.ID, login.User.ID)

	profile, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@campus.test", profile.Email)
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "A", Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Name: "Eve", Email: "eve@campus.test", Password: "s3cret-pass", Role: "superuser"})
	require.Error(t, err, "unknown role is rejected")
}

func TestAuthServiceDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "Alice", Email: "alice@campus.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Name: "Imposter", Email: "alice@campus.test", Password: "another-pass"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "Alice", Email: "alice@campus.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@campus.test", Password: "whatever"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "alice@campus.test", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthServicePasswordNeverStoredPlain(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "Alice", Email: "alice@campus.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "alice@campus.test").Error)
	require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$2"), "bcrypt hash expected")
}

func setupAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t, &models.User{})

	validate := validator.New(validator.WithRequiredStructEnabled())
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := security.NewJWTManager("test-secret", time.Hour)

	return NewAuthService(repository.NewUserRepository(db), hasher, tokens, validate, zerolog.Nop()), db
}

func setupServiceTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}
