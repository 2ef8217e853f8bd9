package itineraries

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/middleware"
	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
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

type generateRequest struct {
	Name      string   `json:"name"`
	Interests []string `json:"interests" binding:"required"`
	Duration  int      `json:"duration" binding:"required"`
	Budget    string   `json:"budget" binding:"required"`
}

// Generate handles POST /api/itineraries/generate.
func (h *Handler) Generate(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	it, err := h.service.GenerateAndSave(c.Request.Context(), userID, req.Name, models.ItineraryPreferences{
		Interests: req.Interests,
		Duration:  req.Duration,
		Budget:    req.Budget,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary preferences"})
		case errors.Is(err, models.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		case errors.Is(err, models.ErrQuotaExceeded):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Service temporarily unavailable."})
		default:
			h.log.Error("Failed to generate itinerary", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate itinerary"})
		}
		return
	}
	c.JSON(http.StatusCreated, it)
}

// List handles GET /api/itineraries.
func (h *Handler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	itineraries, err := h.service.ListUserItineraries(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list itineraries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load itineraries"})
		return
	}
	if itineraries == nil {
		itineraries = []*models.Itinerary{}
	}
	c.JSON(http.StatusOK, itineraries)
}

// Get handles GET /api/itineraries/:id.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	it, err := h.service.GetItinerary(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
			return
		}
		h.log.Error("Failed to get itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load itinerary"})
		return
	}
	c.JSON(http.StatusOK, it)
}

// Delete handles DELETE /api/itineraries/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	if err := h.service.DeleteItinerary(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
			return
		}
		h.log.Error("Failed to delete itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete itinerary"})
		return
	}
	c.Status(http.StatusNoContent)
}
