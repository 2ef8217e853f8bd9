package lists

import (
	"errors"
	"net/http"

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

// List handles GET /api/lists.
func (h *Handler) List(c *gin.Context) {
	lists, err := h.service.GetCuratedLists(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to load curated lists", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lists"})
		return
	}
	if lists == nil {
		lists = []*models.CuratedList{}
	}
	c.JSON(http.StatusOK, lists)
}

// Get handles GET /api/lists/:id and includes the resolved attractions.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return
	}

	list, err := h.service.GetCuratedList(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
			return
		}
		h.log.Error("Failed to load curated list", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load list"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type createListRequest struct {
	Title         string  `json:"title" binding:"required"`
	TitleES       *string `json:"title_es"`
	Description   *string `json:"description"`
	DescriptionES *string `json:"description_es"`
	Icon          string  `json:"icon"`
}

// Create handles POST /api/admin/lists.
func (h *Handler) Create(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	list, err := h.service.CreateCuratedList(c.Request.Context(),
		req.Title, req.TitleES, req.Description, req.DescriptionES, req.Icon)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		h.log.Error("Failed to create curated list", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}
	c.JSON(http.StatusCreated, list)
}

type listItemRequest struct {
	AttractionID uuid.UUID `json:"attraction_id" binding:"required"`
	SortOrder    int       `json:"sort_order"`
}

// AddItem handles POST /api/admin/lists/:id/items.
func (h *Handler) AddItem(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return
	}
	var req listItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.AddListItem(c.Request.Context(), listID, req.AttractionID, req.SortOrder); err != nil {
		h.log.Error("Failed to add list item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add list item"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/admin/lists/:id/items/:attractionID.
func (h *Handler) RemoveItem(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return
	}
	attractionID, err := uuid.Parse(c.Param("attractionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attraction id"})
		return
	}

	if err := h.service.RemoveListItem(c.Request.Context(), listID, attractionID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "list item not found"})
			return
		}
		h.log.Error("Failed to remove list item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove list item"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/admin/lists/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return
	}

	if err := h.service.DeleteCuratedList(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
			return
		}
		h.log.Error("Failed to delete curated list", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete list"})
		return
	}
	c.Status(http.StatusNoContent)
}
