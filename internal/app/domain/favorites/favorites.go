package favorites

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/middleware"
	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]*models.Attraction, error)
	AddFavorite(ctx context.Context, userID, attractionID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, attractionID uuid.UUID) error
	IsFavorite(ctx context.Context, userID, attractionID uuid.UUID) (bool, error)
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

// ListFavorites returns the user's favorited attractions, most recently
// favorited first.
func (r *RepositoryImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*models.Attraction, error) {
	query := `
        SELECT a.id, a.name, a.name_es, a.description, a.description_es, a.category,
               a.latitude, a.longitude, a.address, a.image_url, a.ticket_price, a.opening_hours,
               a.rating, a.is_featured, a.created_at, a.updated_at
        FROM favorites f
        JOIN attractions a ON a.id = f.attraction_id
        WHERE f.user_id = $1
        ORDER BY f.created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list favorites", zap.Error(err))
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var out []*models.Attraction
	for rows.Next() {
		var a models.Attraction
		err := rows.Scan(
			&a.ID, &a.Name, &a.NameES, &a.Description, &a.DescriptionES, &a.Category,
			&a.Latitude, &a.Longitude, &a.Address, &a.ImageURL, &a.TicketPrice, &a.OpeningHours,
			&a.Rating, &a.IsFeatured, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *RepositoryImpl) AddFavorite(ctx context.Context, userID, attractionID uuid.UUID) error {
	query := `
        INSERT INTO favorites (user_id, attraction_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, attraction_id) DO NOTHING
    `
	_, err := r.pgpool.Exec(ctx, query, userID, attractionID)
	if err != nil {
		r.logger.Error("Failed to add favorite", zap.Error(err))
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) RemoveFavorite(ctx context.Context, userID, attractionID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND attraction_id = $2",
		userID, attractionID)
	if err != nil {
		r.logger.Error("Failed to remove favorite", zap.Error(err))
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) IsFavorite(ctx context.Context, userID, attractionID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND attraction_id = $2)",
		userID, attractionID).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check favorite", zap.Error(err))
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

type Handler struct {
	repo Repository
	log  *zap.Logger
}

func NewHandler(repo Repository, log *zap.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log,
	}
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

// List handles GET /api/favorites.
func (h *Handler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	favorites, err := h.repo.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list favorites", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load favorites"})
		return
	}
	if favorites == nil {
		favorites = []*models.Attraction{}
	}
	c.JSON(http.StatusOK, favorites)
}

// Check handles GET /api/favorites/:attractionID.
func (h *Handler) Check(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	attractionID, err := uuid.Parse(c.Param("attractionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	fav, err := h.repo.IsFavorite(c.Request.Context(), userID, attractionID)
	if err != nil {
		h.log.Error("Failed to check favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": fav})
}

// Add handles PUT /api/favorites/:attractionID. Re-favoriting is a no-op.
func (h *Handler) Add(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	attractionID, err := uuid.Parse(c.Param("attractionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	if err := h.repo.AddFavorite(c.Request.Context(), userID, attractionID); err != nil {
		h.log.Error("Failed to add favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /api/favorites/:attractionID.
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	attractionID, err := uuid.Parse(c.Param("attractionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	if err := h.repo.RemoveFavorite(c.Request.Context(), userID, attractionID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		h.log.Error("Failed to remove favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}
