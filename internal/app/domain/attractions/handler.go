package attractions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

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

// List handles GET /api/attractions with optional category, featured,
// min_rating and q query parameters.
func (h *Handler) List(c *gin.Context) {
	filter := Filter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}
	if c.Query("featured") == "true" {
		filter.FeaturedOnly = true
	}
	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_rating must be a number"})
			return
		}
		filter.MinRating = minRating
	}

	attractions, err := h.service.ListAttractions(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		h.log.Error("Failed to list attractions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load attractions"})
		return
	}
	if attractions == nil {
		attractions = []*models.Attraction{}
	}
	c.JSON(http.StatusOK, attractions)
}

// Get handles GET /api/attractions/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	attraction, err := h.service.GetAttraction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attraction not found"})
			return
		}
		h.log.Error("Failed to get attraction", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load attraction"})
		return
	}
	c.JSON(http.StatusOK, attraction)
}

// Create handles POST /api/admin/attractions.
func (h *Handler) Create(c *gin.Context) {
	var a models.Attraction
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.service.CreateAttraction(c.Request.Context(), &a)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction"})
			return
		}
		h.log.Error("Failed to create attraction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create attraction"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/admin/attractions/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	var a models.Attraction
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	a.ID = id

	if err := h.service.UpdateAttraction(c.Request.Context(), &a); err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "attraction not found"})
		default:
			h.log.Error("Failed to update attraction", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update attraction"})
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /api/admin/attractions/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	if err := h.service.DeleteAttraction(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attraction not found"})
			return
		}
		h.log.Error("Failed to delete attraction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete attraction"})
		return
	}
	c.Status(http.StatusNoContent)
}
