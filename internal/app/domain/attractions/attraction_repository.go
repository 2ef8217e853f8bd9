package attractions

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

// Filter narrows the attraction listing. Zero values mean "no constraint".
type Filter struct {
	Category     string
	FeaturedOnly bool
	MinRating    float64
	Search       string
}

type Repository interface {
	ListAttractions(ctx context.Context, filter Filter) ([]*models.Attraction, error)
	GetAttraction(ctx context.Context, id uuid.UUID) (*models.Attraction, error)
	GetAttractionNames(ctx context.Context) ([]string, error)
	CreateAttraction(ctx context.Context, a *models.Attraction) error
	UpdateAttraction(ctx context.Context, a *models.Attraction) error
	DeleteAttraction(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     DB
}

func NewRepository(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const attractionColumns = "id, name, name_es, description, description_es, category, " +
	"latitude, longitude, address, image_url, ticket_price, opening_hours, rating, " +
	"is_featured, created_at, updated_at"

func scanAttraction(row pgx.Row) (*models.Attraction, error) {
	var a models.Attraction
	err := row.Scan(
		&a.ID, &a.Name, &a.NameES, &a.Description, &a.DescriptionES, &a.Category,
		&a.Latitude, &a.Longitude, &a.Address, &a.ImageURL, &a.TicketPrice, &a.OpeningHours,
		&a.Rating, &a.IsFeatured, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttractions returns attractions matching filter, best rated first.
func (r *RepositoryImpl) ListAttractions(ctx context.Context, filter Filter) ([]*models.Attraction, error) {
	builder := psql.Select(attractionColumns).
		From("attractions").
		OrderBy("rating DESC", "name ASC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.FeaturedOnly {
		builder = builder.Where(sq.Eq{"is_featured": true})
	}
	if filter.MinRating > 0 {
		builder = builder.Where(sq.GtOrEq{"rating": filter.MinRating})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attractions query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list attractions", zap.Error(err))
		return nil, fmt.Errorf("failed to list attractions: %w", err)
	}
	defer rows.Close()

	var out []*models.Attraction
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attraction: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attractions: %w", err)
	}
	return out, nil
}

func (r *RepositoryImpl) GetAttraction(ctx context.Context, id uuid.UUID) (*models.Attraction, error) {
	query := "SELECT " + attractionColumns + " FROM attractions WHERE id = $1"
	a, err := scanAttraction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get attraction", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get attraction: %w", err)
	}
	return a, nil
}

// GetAttractionNames returns every attraction name; feeds the mention scanner.
func (r *RepositoryImpl) GetAttractionNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT name FROM attractions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list attraction names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan attraction name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *RepositoryImpl) CreateAttraction(ctx context.Context, a *models.Attraction) error {
	query := `
        INSERT INTO attractions (
            id, name, name_es, description, description_es, category,
            latitude, longitude, address, image_url, ticket_price, opening_hours,
            rating, is_featured, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Name, a.NameES, a.Description, a.DescriptionES, a.Category,
		a.Latitude, a.Longitude, a.Address, a.ImageURL, a.TicketPrice, a.OpeningHours,
		a.Rating, a.IsFeatured, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create attraction", zap.Error(err))
		return fmt.Errorf("failed to create attraction: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) UpdateAttraction(ctx context.Context, a *models.Attraction) error {
	query := `
        UPDATE attractions SET
            name = $2, name_es = $3, description = $4, description_es = $5, category = $6,
            latitude = $7, longitude = $8, address = $9, image_url = $10, ticket_price = $11,
            opening_hours = $12, rating = $13, is_featured = $14, updated_at = now()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		a.ID, a.Name, a.NameES, a.Description, a.DescriptionES, a.Category,
		a.Latitude, a.Longitude, a.Address, a.ImageURL, a.TicketPrice,
		a.OpeningHours, a.Rating, a.IsFeatured,
	)
	if err != nil {
		r.logger.Error("Failed to update attraction", zap.Error(err))
		return fmt.Errorf("failed to update attraction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteAttraction(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM attractions WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete attraction", zap.Error(err))
		return fmt.Errorf("failed to delete attraction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
