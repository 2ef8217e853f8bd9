package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/app/observability/metrics"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, email, name, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	jwt    *JWTService
}

func NewService(repo Repository, jwt *JWTService, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		jwt:    jwt,
	}
}

// Register creates a profile and returns it with a signed session token.
func (s *ServiceImpl) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", models.ErrValidation
	}
	if len(password) < 8 {
		return nil, "", models.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
	if err != nil {
		span.SetStatus(codes.Error, "create user failed")
		metrics.Get().AuthRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("op", "register"), attribute.String("outcome", "error")))
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", err
	}

	metrics.Get().AuthRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", "register"), attribute.String("outcome", "ok")))
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &user.User, token, nil
}

// Login checks credentials and returns the profile with a fresh token. The
// error is the same whether the email is unknown or the password is wrong.
func (s *ServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.Get().AuthRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("op", "login"), attribute.String("outcome", "denied")))
		return nil, "", models.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Password mismatch", zap.String("user_id", user.ID.String()))
		metrics.Get().AuthRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("op", "login"), attribute.String("outcome", "denied")))
		return nil, "", models.ErrUnauthenticated
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", err
	}

	metrics.Get().AuthRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", "login"), attribute.String("outcome", "ok")))
	return &user.User, token, nil
}

func (s *ServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user.User, nil
}

func (s *ServiceImpl) UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error {
	return s.repo.UpdateLanguage(ctx, id, language)
}

func (s *ServiceImpl) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ErrValidation
	}
	return s.repo.UpdateName(ctx, id, name)
}
