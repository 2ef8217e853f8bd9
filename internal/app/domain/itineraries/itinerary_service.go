package itineraries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

// Generator is the completion side of itinerary creation; the assistant
// service satisfies it.
type Generator interface {
	GenerateItinerary(ctx context.Context, prefs models.ItineraryPreferences) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GenerateAndSave(ctx context.Context, userID uuid.UUID, name string, prefs models.ItineraryPreferences) (*models.Itinerary, error)
	GetItinerary(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error)
	ListUserItineraries(ctx context.Context, userID uuid.UUID) ([]*models.Itinerary, error)
	DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error
}

type ServiceImpl struct {
	logger    *zap.Logger
	repo      Repository
	generator Generator
}

func NewService(repo Repository, generator Generator, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		generator: generator,
	}
}

// GenerateAndSave asks the completion gateway for a plan and persists it
// under the user's account in one step.
func (s *ServiceImpl) GenerateAndSave(ctx context.Context, userID uuid.UUID, name string, prefs models.ItineraryPreferences) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateAndSave", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("itinerary.duration_days", prefs.Duration),
	))
	defer span.End()

	content, err := s.generator.GenerateItinerary(ctx, prefs)
	if err != nil {
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Pune %d-day trip", prefs.Duration)
	}

	it := &models.Itinerary{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Content:   content,
		Duration:  prefs.Duration,
		Budget:    prefs.Budget,
		Interests: prefs.Interests,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateItinerary(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("Itinerary generated",
		zap.String("user_id", userID.String()),
		zap.String("itinerary_id", it.ID.String()),
		zap.Int("duration_days", prefs.Duration),
	)
	return it, nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItinerary")
	defer span.End()
	return s.repo.GetItinerary(ctx, userID, id)
}

func (s *ServiceImpl) ListUserItineraries(ctx context.Context, userID uuid.UUID) ([]*models.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ListUserItineraries")
	defer span.End()
	return s.repo.ListUserItineraries(ctx, userID)
}

func (s *ServiceImpl) DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "DeleteItinerary")
	defer span.End()
	return s.repo.DeleteItinerary(ctx, userID, id)
}
