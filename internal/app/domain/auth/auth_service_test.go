package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/app/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, email, name, passwordHash string) (*UserRecord, error) {
	args := m.Called(ctx, email, name, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserRecord), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserRecord), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserRecord), args.Error(1)
}

func (m *MockAuthRepo) UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error {
	args := m.Called(ctx, id, language)
	return args.Error(0)
}

func (m *MockAuthRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func newTestJWT() *JWTService {
	return NewJWTService("test-secret", time.Hour)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	userID := uuid.New()
	repo.On("CreateUser", mock.Anything, "traveler@example.com", "Asha", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret-password")) == nil
	})).Return(&UserRecord{
		User: models.User{ID: userID, Email: "traveler@example.com", Name: "Asha", Language: "en"},
	}, nil)

	svc := NewService(repo, newTestJWT(), zap.NewNop())
	user, token, err := svc.Register(context.Background(), "traveler@example.com", "Asha", "secret-password")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NotEmpty(t, token)

	claims, err := newTestJWT().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	repo.AssertExpectations(t)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := NewService(new(MockAuthRepo), newTestJWT(), zap.NewNop())

	_, _, err := svc.Register(context.Background(), "not-an-email", "", "secret-password")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = svc.Register(context.Background(), "ok@example.com", "", "short")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	record := &UserRecord{
		User:         models.User{ID: uuid.New(), Email: "traveler@example.com"},
		PasswordHash: string(hash),
	}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByEmail", mock.Anything, "traveler@example.com").Return(record, nil)

		svc := NewService(repo, newTestJWT(), zap.NewNop())
		user, token, err := svc.Login(context.Background(), "traveler@example.com", "secret-password")

		require.NoError(t, err)
		assert.Equal(t, record.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByEmail", mock.Anything, "traveler@example.com").Return(record, nil)

		svc := NewService(repo, newTestJWT(), zap.NewNop())
		_, _, err := svc.Login(context.Background(), "traveler@example.com", "wrong")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, models.ErrNotFound)

		svc := NewService(repo, newTestJWT(), zap.NewNop())
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

		// Same error either way; callers cannot probe which emails exist.
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})
}

func TestJWTRoundTrip(t *testing.T) {
	jwtSvc := newTestJWT()
	token, err := jwtSvc.GenerateToken("user-1", "a@b.c", true)
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IsAdmin)

	_, err = NewJWTService("other-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTExpiredToken(t *testing.T) {
	jwtSvc := NewJWTService("test-secret", -time.Minute)
	token, err := jwtSvc.GenerateToken("user-1", "a@b.c", false)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}
