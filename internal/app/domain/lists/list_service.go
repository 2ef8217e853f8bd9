package lists

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetCuratedLists(ctx context.Context) ([]*models.CuratedList, error)
	GetCuratedList(ctx context.Context, id uuid.UUID) (*ListWithItems, error)
	CreateCuratedList(ctx context.Context, title string, titleES, description, descriptionES *string, icon string) (*models.CuratedList, error)
	AddListItem(ctx context.Context, listID, attractionID uuid.UUID, sortOrder int) error
	RemoveListItem(ctx context.Context, listID, attractionID uuid.UUID) error
	DeleteCuratedList(ctx context.Context, id uuid.UUID) error
}

// ServiceImpl caches reads since curated lists change rarely and sit on the
// home screen of every client.
type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Cache
}

const listsCacheKey = "curated-lists"

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *ServiceImpl) GetCuratedLists(ctx context.Context) ([]*models.CuratedList, error) {
	ctx, span := otel.Tracer("CuratedListService").Start(ctx, "GetCuratedLists")
	defer span.End()

	if cached, ok := s.cache.Get(listsCacheKey); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]*models.CuratedList), nil
	}

	lists, err := s.repo.GetCuratedLists(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(listsCacheKey, lists, cache.DefaultExpiration)
	return lists, nil
}

func (s *ServiceImpl) GetCuratedList(ctx context.Context, id uuid.UUID) (*ListWithItems, error) {
	ctx, span := otel.Tracer("CuratedListService").Start(ctx, "GetCuratedList", trace.WithAttributes(
		attribute.String("list.id", id.String()),
	))
	defer span.End()

	key := "curated-list:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.(*ListWithItems), nil
	}

	list, err := s.repo.GetCuratedList(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, list, cache.DefaultExpiration)
	return list, nil
}

func (s *ServiceImpl) CreateCuratedList(ctx context.Context, title string, titleES, description, descriptionES *string, icon string) (*models.CuratedList, error) {
	ctx, span := otel.Tracer("CuratedListService").Start(ctx, "CreateCuratedList")
	defer span.End()

	if strings.TrimSpace(title) == "" {
		return nil, models.ErrValidation
	}
	if icon == "" {
		icon = "star"
	}

	list := &models.CuratedList{
		ID:            uuid.New(),
		Title:         title,
		TitleES:       titleES,
		Description:   description,
		DescriptionES: descriptionES,
		Icon:          icon,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.CreateCuratedList(ctx, list); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return list, nil
}

func (s *ServiceImpl) AddListItem(ctx context.Context, listID, attractionID uuid.UUID, sortOrder int) error {
	ctx, span := otel.Tracer("CuratedListService").Start(ctx, "AddListItem")
	defer span.End()

	if err := s.repo.AddListItem(ctx, listID, attractionID, sortOrder); err != nil {
		return err
	}
	s.cache.Delete("curated-list:" + listID.String())
	return nil
}

func (s *ServiceImpl) RemoveListItem(ctx context.Context, listID, attractionID uuid.UUID) error {
	ctx, span := otel.Tracer("CuratedListService").Start(ctx, "RemoveListItem")
	defer span.End()

	if err := s.repo.RemoveListItem(ctx, listID, attractionID); err != nil {
		return err
	}
	s.cache.Delete("curated-list:" + listID.String())
	return nil
}

func (s *ServiceImpl) DeleteCuratedList(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CuratedListService").Start(ctx, "DeleteCuratedList")
	defer span.End()

	if err := s.repo.DeleteCuratedList(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}
