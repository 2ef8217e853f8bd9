package attractions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ListAttractions(ctx context.Context, filter Filter) ([]*models.Attraction, error)
	GetAttraction(ctx context.Context, id uuid.UUID) (*models.Attraction, error)
	GetAttractionNames(ctx context.Context) ([]string, error)
	CreateAttraction(ctx context.Context, a *models.Attraction) (*models.Attraction, error)
	UpdateAttraction(ctx context.Context, a *models.Attraction) error
	DeleteAttraction(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Cache
}

const namesCacheKey = "attraction-names"

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *ServiceImpl) ListAttractions(ctx context.Context, filter Filter) ([]*models.Attraction, error) {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "ListAttractions", trace.WithAttributes(
		attribute.String("filter.category", filter.Category),
		attribute.Bool("filter.featured_only", filter.FeaturedOnly),
	))
	defer span.End()

	if filter.Category != "" && !models.ValidCategory(filter.Category) {
		span.SetStatus(codes.Error, "unknown category")
		return nil, models.ErrValidation
	}
	return s.repo.ListAttractions(ctx, filter)
}

func (s *ServiceImpl) GetAttraction(ctx context.Context, id uuid.UUID) (*models.Attraction, error) {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "GetAttraction")
	defer span.End()
	return s.repo.GetAttraction(ctx, id)
}

// GetAttractionNames caches the catalog names; the mention scanner reloads
// them on every admin write through the invalidation below.
func (s *ServiceImpl) GetAttractionNames(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(namesCacheKey); ok {
		return cached.([]string), nil
	}
	names, err := s.repo.GetAttractionNames(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(namesCacheKey, names, cache.DefaultExpiration)
	return names, nil
}

func (s *ServiceImpl) CreateAttraction(ctx context.Context, a *models.Attraction) (*models.Attraction, error) {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "CreateAttraction")
	defer span.End()

	if err := validateAttraction(a); err != nil {
		span.SetStatus(codes.Error, "invalid attraction")
		return nil, err
	}

	now := time.Now()
	a.ID = uuid.New()
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.repo.CreateAttraction(ctx, a); err != nil {
		return nil, err
	}
	s.cache.Delete(namesCacheKey)
	s.logger.Info("Attraction created",
		zap.String("id", a.ID.String()),
		zap.String("name", a.Name),
	)
	return a, nil
}

func (s *ServiceImpl) UpdateAttraction(ctx context.Context, a *models.Attraction) error {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "UpdateAttraction")
	defer span.End()

	if err := validateAttraction(a); err != nil {
		return err
	}
	if err := s.repo.UpdateAttraction(ctx, a); err != nil {
		return err
	}
	s.cache.Delete(namesCacheKey)
	return nil
}

func (s *ServiceImpl) DeleteAttraction(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "DeleteAttraction")
	defer span.End()

	if err := s.repo.DeleteAttraction(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(namesCacheKey)
	return nil
}

func validateAttraction(a *models.Attraction) error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Description) == "" {
		return models.ErrValidation
	}
	if !models.ValidCategory(string(a.Category)) {
		return models.ErrValidation
	}
	if a.Rating < 0 || a.Rating > 5 {
		return models.ErrValidation
	}
	return nil
}
