package alerts

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
	ListActiveAlerts(ctx context.Context) ([]*models.Alert, error)
	CreateAlert(ctx context.Context, a *models.Alert) error
	DeactivateAlert(ctx context.Context, id uuid.UUID) error
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

// ListActiveAlerts returns alerts that are active and not expired, newest
// first.
func (r *RepositoryImpl) ListActiveAlerts(ctx context.Context) ([]*models.Alert, error) {
	query := `
        SELECT id, title, title_es, message, message_es, alert_type, is_active, expires_at, created_at
        FROM alerts
        WHERE is_active = TRUE AND (expires_at IS NULL OR expires_at > now())
        ORDER BY created_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list alerts", zap.Error(err))
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var out []*models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(&a.ID, &a.Title, &a.TitleES, &a.Message, &a.MessageES,
			&a.AlertType, &a.IsActive, &a.ExpiresAt, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *RepositoryImpl) CreateAlert(ctx context.Context, a *models.Alert) error {
	query := `
        INSERT INTO alerts (id, title, title_es, message, message_es, alert_type, is_active, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.pgpool.Exec(ctx, query,
		a.ID, a.Title, a.TitleES, a.Message, a.MessageES, a.AlertType, a.IsActive, a.ExpiresAt, a.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create alert", zap.Error(err))
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) DeactivateAlert(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "UPDATE alerts SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to deactivate alert", zap.Error(err))
		return fmt.Errorf("failed to deactivate alert: %w", err)
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

// List handles GET /api/alerts.
func (h *Handler) List(c *gin.Context) {
	alerts, err := h.repo.ListActiveAlerts(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list alerts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alerts"})
		return
	}
	if alerts == nil {
		alerts = []*models.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

// Create handles POST /api/admin/alerts.
func (h *Handler) Create(c *gin.Context) {
	var a models.Alert
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and message are required"})
		return
	}
	switch a.AlertType {
	case models.AlertInfo, models.AlertWarning, models.AlertDanger:
	case "":
		a.AlertType = models.AlertInfo
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown alert type"})
		return
	}

	a.ID = uuid.New()
	a.IsActive = true
	a.CreatedAt = time.Now()

	if err := h.repo.CreateAlert(c.Request.Context(), &a); err != nil {
		h.log.Error("Failed to create alert", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create alert"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Deactivate handles DELETE /api/admin/alerts/:id. Alerts are switched off,
// not removed, so past alerts stay auditable.
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}
	if err := h.repo.DeactivateAlert(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		h.log.Error("Failed to deactivate alert", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate alert"})
		return
	}
	c.Status(http.StatusNoContent)
}
