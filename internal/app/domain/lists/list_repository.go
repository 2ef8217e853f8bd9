package lists

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

// ListWithItems is a curated list with its attractions resolved, in sort
// order.
type ListWithItems struct {
	models.CuratedList
	Attractions []*models.Attraction `json:"attractions"`
}

type Repository interface {
	GetCuratedLists(ctx context.Context) ([]*models.CuratedList, error)
	GetCuratedList(ctx context.Context, id uuid.UUID) (*ListWithItems, error)
	CreateCuratedList(ctx context.Context, list *models.CuratedList) error
	AddListItem(ctx context.Context, listID, attractionID uuid.UUID, sortOrder int) error
	RemoveListItem(ctx context.Context, listID, attractionID uuid.UUID) error
	DeleteCuratedList(ctx context.Context, id uuid.UUID) error
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

func (r *RepositoryImpl) GetCuratedLists(ctx context.Context) ([]*models.CuratedList, error) {
	query := `
        SELECT id, title, title_es, description, description_es, icon, created_at
        FROM curated_lists
        ORDER BY created_at
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to get curated lists", zap.Error(err))
		return nil, fmt.Errorf("failed to get curated lists: %w", err)
	}
	defer rows.Close()

	var out []*models.CuratedList
	for rows.Next() {
		var l models.CuratedList
		err := rows.Scan(&l.ID, &l.Title, &l.TitleES, &l.Description, &l.DescriptionES, &l.Icon, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan curated list: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// GetCuratedList loads a list and its attractions in one round trip each.
func (r *RepositoryImpl) GetCuratedList(ctx context.Context, id uuid.UUID) (*ListWithItems, error) {
	var list ListWithItems
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, title, title_es, description, description_es, icon, created_at
        FROM curated_lists WHERE id = $1
    `, id).Scan(&list.ID, &list.Title, &list.TitleES, &list.Description, &list.DescriptionES, &list.Icon, &list.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get curated list", zap.Error(err))
		return nil, fmt.Errorf("failed to get curated list: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, `
        SELECT a.id, a.name, a.name_es, a.description, a.description_es, a.category,
               a.latitude, a.longitude, a.address, a.image_url, a.ticket_price, a.opening_hours,
               a.rating, a.is_featured, a.created_at, a.updated_at
        FROM curated_list_items i
        JOIN attractions a ON a.id = i.attraction_id
        WHERE i.list_id = $1
        ORDER BY i.sort_order, a.name
    `, id)
	if err != nil {
		r.logger.Error("Failed to get curated list items", zap.Error(err))
		return nil, fmt.Errorf("failed to get curated list items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attraction
		err := rows.Scan(
			&a.ID, &a.Name, &a.NameES, &a.Description, &a.DescriptionES, &a.Category,
			&a.Latitude, &a.Longitude, &a.Address, &a.ImageURL, &a.TicketPrice, &a.OpeningHours,
			&a.Rating, &a.IsFeatured, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan curated list item: %w", err)
		}
		list.Attractions = append(list.Attractions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read curated list items: %w", err)
	}
	return &list, nil
}

func (r *RepositoryImpl) CreateCuratedList(ctx context.Context, list *models.CuratedList) error {
	query := `
        INSERT INTO curated_lists (id, title, title_es, description, description_es, icon, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		list.ID, list.Title, list.TitleES, list.Description, list.DescriptionES, list.Icon, list.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create curated list", zap.Error(err))
		return fmt.Errorf("failed to create curated list: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) AddListItem(ctx context.Context, listID, attractionID uuid.UUID, sortOrder int) error {
	query := `
        INSERT INTO curated_list_items (id, list_id, attraction_id, sort_order)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (list_id, attraction_id) DO UPDATE SET sort_order = EXCLUDED.sort_order
    `
	_, err := r.pgpool.Exec(ctx, query, uuid.New(), listID, attractionID, sortOrder)
	if err != nil {
		r.logger.Error("Failed to add list item", zap.Error(err))
		return fmt.Errorf("failed to add list item: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) RemoveListItem(ctx context.Context, listID, attractionID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM curated_list_items WHERE list_id = $1 AND attraction_id = $2",
		listID, attractionID)
	if err != nil {
		r.logger.Error("Failed to remove list item", zap.Error(err))
		return fmt.Errorf("failed to remove list item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteCuratedList(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM curated_lists WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete curated list", zap.Error(err))
		return fmt.Errorf("failed to delete curated list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
