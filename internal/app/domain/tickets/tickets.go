package tickets

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/middleware"
	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateTicket(ctx context.Context, t *models.Ticket) error
	ListUserTickets(ctx context.Context, userID uuid.UUID) ([]*models.Ticket, error)
	CancelTicket(ctx context.Context, userID, ticketID uuid.UUID) error
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

func (r *RepositoryImpl) CreateTicket(ctx context.Context, t *models.Ticket) error {
	query := `
        INSERT INTO tickets (id, user_id, attraction_id, quantity, purchase_date, visit_date, confirmation_code)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		t.ID, t.UserID, t.AttractionID, t.Quantity, t.PurchaseDate, t.VisitDate, t.ConfirmationCode)
	if err != nil {
		r.logger.Error("Failed to create ticket", zap.Error(err))
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// ListUserTickets returns the user's tickets with the attraction name
// resolved, newest purchase first.
func (r *RepositoryImpl) ListUserTickets(ctx context.Context, userID uuid.UUID) ([]*models.Ticket, error) {
	query := `
        SELECT t.id, t.user_id, t.attraction_id, a.name, t.quantity, t.purchase_date, t.visit_date, t.confirmation_code
        FROM tickets t
        JOIN attractions a ON a.id = t.attraction_id
        WHERE t.user_id = $1
        ORDER BY t.purchase_date DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list tickets", zap.Error(err))
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var out []*models.Ticket
	for rows.Next() {
		var t models.Ticket
		err := rows.Scan(&t.ID, &t.UserID, &t.AttractionID, &t.AttractionName,
			&t.Quantity, &t.PurchaseDate, &t.VisitDate, &t.ConfirmationCode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// CancelTicket removes a ticket, scoped to its owner.
func (r *RepositoryImpl) CancelTicket(ctx context.Context, userID, ticketID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM tickets WHERE id = $1 AND user_id = $2", ticketID, userID)
	if err != nil {
		r.logger.Error("Failed to cancel ticket", zap.Error(err))
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// confirmationCode builds a short human-readable code like PUNE-7KQ2XF.
// 0/O and 1/I are left out of the alphabet so codes survive being read
// over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func confirmationCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "PUNE-" + string(buf), nil
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

type purchaseRequest struct {
	AttractionID uuid.UUID `json:"attraction_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1,max=20"`
	VisitDate    time.Time `json:"visit_date" binding:"required"`
}

// Purchase handles POST /api/tickets. The purchase is simulated: a ticket
// row with a confirmation code, no payment leg.
func (h *Handler) Purchase(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.VisitDate.Before(time.Now().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visit_date cannot be in the past"})
		return
	}

	ctx, span := otel.Tracer("TicketHandler").Start(c.Request.Context(), "Purchase", trace.WithAttributes(
		attribute.String("attraction.id", req.AttractionID.String()),
		attribute.Int("ticket.quantity", req.Quantity),
	))
	defer span.End()

	code, err := confirmationCode()
	if err != nil {
		h.log.Error("Failed to generate confirmation code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase ticket"})
		return
	}

	ticket := &models.Ticket{
		ID:               uuid.New(),
		UserID:           userID,
		AttractionID:     req.AttractionID,
		Quantity:         req.Quantity,
		PurchaseDate:     time.Now(),
		VisitDate:        req.VisitDate,
		ConfirmationCode: code,
	}
	if err := h.repo.CreateTicket(ctx, ticket); err != nil {
		h.log.Error("Failed to create ticket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase ticket"})
		return
	}

	h.log.Info("Ticket purchased",
		zap.String("user_id", userID.String()),
		zap.String("confirmation_code", ticket.ConfirmationCode),
	)
	c.JSON(http.StatusCreated, ticket)
}

// List handles GET /api/tickets.
func (h *Handler) List(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	tickets, err := h.repo.ListUserTickets(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tickets"})
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

// Cancel handles DELETE /api/tickets/:id.
func (h *Handler) Cancel(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	if err := h.repo.CancelTicket(c.Request.Context(), userID, ticketID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		h.log.Error("Failed to cancel ticket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel ticket"})
		return
	}
	c.Status(http.StatusNoContent)
}
