package itineraries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateItinerary(ctx context.Context, it *models.Itinerary) error
	GetItinerary(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error)
	ListUserItineraries(ctx context.Context, userID uuid.UUID) ([]*models.Itinerary, error)
	DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const itineraryColumns = "id, user_id, name, content, duration, budget, interests, created_at"

func (r *RepositoryImpl) CreateItinerary(ctx context.Context, it *models.Itinerary) error {
	query := "INSERT INTO itineraries (" + itineraryColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	_, err := r.pgpool.Exec(ctx, query,
		it.ID, it.UserID, it.Name, it.Content, it.Duration, it.Budget, it.Interests, it.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create itinerary", zap.Error(err))
		return fmt.Errorf("failed to create itinerary: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetItinerary(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error) {
	query := "SELECT " + itineraryColumns + " FROM itineraries WHERE id = $1 AND user_id = $2"
	var it models.Itinerary
	err := r.pgpool.QueryRow(ctx, query, id, userID).Scan(
		&it.ID, &it.UserID, &it.Name, &it.Content, &it.Duration, &it.Budget, &it.Interests, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get itinerary", zap.Error(err))
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	return &it, nil
}

func (r *RepositoryImpl) ListUserItineraries(ctx context.Context, userID uuid.UUID) ([]*models.Itinerary, error) {
	query := "SELECT " + itineraryColumns + " FROM itineraries WHERE user_id = $1 ORDER BY created_at DESC"
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list itineraries", zap.Error(err))
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	var out []*models.Itinerary
	for rows.Next() {
		var it models.Itinerary
		err := rows.Scan(&it.ID, &it.UserID, &it.Name, &it.Content, &it.Duration, &it.Budget, &it.Interests, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan itinerary: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *RepositoryImpl) DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM itineraries WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		r.logger.Error("Failed to delete itinerary", zap.Error(err))
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
