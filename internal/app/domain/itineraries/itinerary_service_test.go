package itineraries

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) CreateItinerary(ctx context.Context, it *models.Itinerary) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockItineraryRepo) GetItinerary(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) ListUserItineraries(ctx context.Context, userID uuid.UUID) ([]*models.Itinerary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Itinerary), args.Error(1)
}

func (m *MockItineraryRepo) DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateItinerary(ctx context.Context, prefs models.ItineraryPreferences) (string, error) {
	args := m.Called(ctx, prefs)
	return args.String(0), args.Error(1)
}

func TestGenerateAndSave(t *testing.T) {
	userID := uuid.New()
	prefs := models.ItineraryPreferences{
		Interests: []string{"heritage"},
		Duration:  2,
		Budget:    "medium",
	}

	repo := new(MockItineraryRepo)
	gen := new(MockGenerator)
	gen.On("GenerateItinerary", mock.Anything, prefs).Return("Day 1: Shaniwar Wada", nil)
	repo.On("CreateItinerary", mock.Anything, mock.MatchedBy(func(it *models.Itinerary) bool {
		return it.UserID == userID && it.Content == "Day 1: Shaniwar Wada" && it.Duration == 2
	})).Return(nil)

	svc := NewService(repo, gen, zap.NewNop())
	it, err := svc.GenerateAndSave(context.Background(), userID, "", prefs)

	require.NoError(t, err)
	assert.Equal(t, "Pune 2-day trip", it.Name)
	assert.Equal(t, "Day 1: Shaniwar Wada", it.Content)
	repo.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestGenerateAndSaveDoesNotPersistOnGenerationFailure(t *testing.T) {
	repo := new(MockItineraryRepo)
	gen := new(MockGenerator)
	gen.On("GenerateItinerary", mock.Anything, mock.Anything).Return("", models.ErrRateLimited)

	svc := NewService(repo, gen, zap.NewNop())
	it, err := svc.GenerateAndSave(context.Background(), uuid.New(), "trip", models.ItineraryPreferences{
		Interests: []string{"food"},
		Duration:  1,
		Budget:    "low",
	})

	assert.Nil(t, it)
	assert.ErrorIs(t, err, models.ErrRateLimited)
	repo.AssertNotCalled(t, "CreateItinerary", mock.Anything, mock.Anything)
}

func TestGenerateAndSaveKeepsCustomName(t *testing.T) {
	repo := new(MockItineraryRepo)
	gen := new(MockGenerator)
	gen.On("GenerateItinerary", mock.Anything, mock.Anything).Return("plan", nil)
	repo.On("CreateItinerary", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, gen, zap.NewNop())
	it, err := svc.GenerateAndSave(context.Background(), uuid.New(), "  Monsoon weekend  ", models.ItineraryPreferences{
		Interests: []string{"nature"},
		Duration:  3,
		Budget:    "high",
	})

	require.NoError(t, err)
	assert.Equal(t, "Monsoon weekend", it.Name)
}

func TestGenerateAndSaveSurfacesRepoError(t *testing.T) {
	repo := new(MockItineraryRepo)
	gen := new(MockGenerator)
	gen.On("GenerateItinerary", mock.Anything, mock.Anything).Return("plan", nil)
	repo.On("CreateItinerary", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := NewService(repo, gen, zap.NewNop())
	it, err := svc.GenerateAndSave(context.Background(), uuid.New(), "", models.ItineraryPreferences{
		Interests: []string{"food"},
		Duration:  1,
		Budget:    "low",
	})

	assert.Nil(t, it)
	assert.EqualError(t, err, "db down")
}
