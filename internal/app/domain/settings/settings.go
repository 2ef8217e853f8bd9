package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/pune-companion/internal/app/domain/auth"
	"github.com/FACorreiaa/pune-companion/internal/app/middleware"
	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

// The app ships English and Spanish content (the _es columns). Anything
// else falls back to English through the matcher.
var supported = []language.Tag{
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

// NormalizeLanguage maps an arbitrary BCP 47 tag onto a supported content
// language. "es-MX" becomes "es", "fr" falls back to "en".
func NormalizeLanguage(raw string) (string, bool) {
	tag, err := language.Parse(raw)
	if err != nil {
		return "en", false
	}
	_, index, conf := matcher.Match(tag)
	if conf == language.No {
		return "en", false
	}
	base, _ := supported[index].Base()
	return base.String(), true
}

// MatchAcceptLanguage picks a content language from an Accept-Language
// header, honoring q-weights. An empty or unparsable header yields "en".
func MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, conf := matcher.Match(tags...)
	if conf == language.No {
		return "en"
	}
	base, _ := supported[index].Base()
	return base.String()
}

type Handler struct {
	service auth.Service
	log     *zap.Logger
}

func NewHandler(service auth.Service, log *zap.Logger) *Handler {
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

// Language handles GET /api/settings/language. Signed-in users get their
// stored preference; everyone else gets the best Accept-Language match.
func (h *Handler) Language(c *gin.Context) {
	if userID, err := uuid.Parse(middleware.GetUserIDFromContext(c)); err == nil {
		user, err := h.service.GetUser(c.Request.Context(), userID)
		if err == nil && user.Language != "" {
			c.JSON(http.StatusOK, gin.H{"language": user.Language})
			return
		}
		if err != nil {
			h.log.Warn("Failed to load stored language, matching header instead", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"language": MatchAcceptLanguage(c.GetHeader("Accept-Language")),
	})
}

type updateSettingsRequest struct {
	Name     *string `json:"name"`
	Language *string `json:"language"`
}

// Update handles PATCH /api/settings. Name and language can be changed
// independently.
func (h *Handler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == nil && req.Language == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	ctx := c.Request.Context()
	if req.Language != nil {
		lang, matched := NormalizeLanguage(*req.Language)
		if !matched {
			h.log.Debug("Unsupported language requested, using fallback",
				zap.String("requested", *req.Language))
		}
		if err := h.service.UpdateLanguage(ctx, userID, lang); err != nil {
			h.log.Error("Failed to update language", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
	}
	if req.Name != nil {
		if err := h.service.UpdateName(ctx, userID, *req.Name); err != nil {
			if errors.Is(err, models.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			h.log.Error("Failed to update name", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
	}

	user, err := h.service.GetUser(ctx, userID)
	if err != nil {
		h.log.Error("Failed to reload user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, user)
}
