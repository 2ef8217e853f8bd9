package events

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	ListUpcomingEvents(ctx context.Context) ([]*models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
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

const eventColumns = "id, name, name_es, description, description_es, location, event_date, image_url, is_featured, created_at"

// ListUpcomingEvents returns events from today onward, soonest first.
func (r *RepositoryImpl) ListUpcomingEvents(ctx context.Context) ([]*models.Event, error) {
	query := "SELECT " + eventColumns + ` FROM events
        WHERE event_date >= date_trunc('day', now())
        ORDER BY event_date ASC`
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list events", zap.Error(err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(&e.ID, &e.Name, &e.NameES, &e.Description, &e.DescriptionES,
			&e.Location, &e.EventDate, &e.ImageURL, &e.IsFeatured, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *RepositoryImpl) CreateEvent(ctx context.Context, e *models.Event) error {
	query := "INSERT INTO events (" + eventColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"
	_, err := r.pgpool.Exec(ctx, query,
		e.ID, e.Name, e.NameES, e.Description, e.DescriptionES,
		e.Location, e.EventDate, e.ImageURL, e.IsFeatured, e.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create event", zap.Error(err))
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete event", zap.Error(err))
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
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

// List handles GET /api/events.
func (h *Handler) List(c *gin.Context) {
	events, err := h.repo.ListUpcomingEvents(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// Create handles POST /api/admin/events.
func (h *Handler) Create(c *gin.Context) {
	var e models.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(e.Name) == "" || e.EventDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and event_date are required"})
		return
	}

	e.ID = uuid.New()
	e.CreatedAt = time.Now()

	if err := h.repo.CreateEvent(c.Request.Context(), &e); err != nil {
		h.log.Error("Failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// Delete handles DELETE /api/admin/events/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	if err := h.repo.DeleteEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		h.log.Error("Failed to delete event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}
