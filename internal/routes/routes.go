package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/domain/alerts"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/assistant"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/attractions"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/auth"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/events"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/favorites"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/itineraries"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/lists"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/settings"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/tickets"
	"github.com/FACorreiaa/pune-companion/internal/app/domain/weather"
	"github.com/FACorreiaa/pune-companion/internal/app/middleware"
	"github.com/FACorreiaa/pune-companion/internal/pkg/config"
)

// Setup wires every domain into the router.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) {
	// Repositories
	attractionRepo := attractions.NewRepository(dbPool, logger)
	alertRepo := alerts.NewRepository(dbPool, logger)
	eventRepo := events.NewRepository(dbPool, logger)
	listRepo := lists.NewRepository(dbPool, logger)
	itineraryRepo := itineraries.NewRepository(dbPool, logger)
	ticketRepo := tickets.NewRepository(dbPool, logger)
	favoriteRepo := favorites.NewRepository(dbPool, logger)
	authRepo := auth.NewRepository(dbPool, logger)

	// Services
	attractionService := attractions.NewService(attractionRepo, logger)
	listService := lists.NewService(listRepo, logger)
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	authService := auth.NewService(authRepo, jwtService, logger)
	weatherService := weather.NewService(weather.NewClient(cfg.Weather, logger), logger)

	scanner := assistant.NewMentionScanner(loadAttractionNames(attractionService, logger))
	assistantService := assistant.NewService(assistant.NewClient(cfg.Gateway, logger), scanner, logger)
	itineraryService := itineraries.NewService(itineraryRepo, assistantService, logger)

	// Handlers
	attractionHandler := attractions.NewHandler(attractionService, logger)
	alertHandler := alerts.NewHandler(alertRepo, logger)
	eventHandler := events.NewHandler(eventRepo, logger)
	listHandler := lists.NewHandler(listService, logger)
	itineraryHandler := itineraries.NewHandler(itineraryService, logger)
	ticketHandler := tickets.NewHandler(ticketRepo, logger)
	favoriteHandler := favorites.NewHandler(favoriteRepo, logger)
	authHandler := auth.NewHandler(authService, logger)
	settingsHandler := settings.NewHandler(authService, logger)
	weatherHandler := weather.NewHandler(weatherService, logger)
	assistantHandler := assistant.NewHandler(assistantService)

	api := r.Group("/api")

	// Public surface
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/attractions", attractionHandler.List)
	api.GET("/attractions/:id", attractionHandler.Get)
	api.GET("/alerts", alertHandler.List)
	api.GET("/events", eventHandler.List)
	api.GET("/lists", listHandler.List)
	api.GET("/lists/:id", listHandler.Get)
	api.GET("/weather", weatherHandler.Current)

	// Chat works for anonymous visitors; the session cookie scopes the
	// conversation, not the account.
	chat := api.Group("", middleware.OptionalAuth(cfg.Auth.JWTSecret))
	chat.POST("/chat", assistantHandler.Completions)
	chat.POST("/chat/turn", assistantHandler.SubmitTurn)
	chat.GET("/chat/history", assistantHandler.History)
	chat.GET("/settings/language", settingsHandler.Language)

	// Account surface
	authed := api.Group("", middleware.AuthRequired(cfg.Auth.JWTSecret))
	authed.GET("/auth/me", authHandler.Me)
	authed.PATCH("/settings", settingsHandler.Update)

	authed.GET("/favorites", favoriteHandler.List)
	authed.GET("/favorites/:attractionID", favoriteHandler.Check)
	authed.PUT("/favorites/:attractionID", favoriteHandler.Add)
	authed.DELETE("/favorites/:attractionID", favoriteHandler.Remove)

	authed.GET("/tickets", ticketHandler.List)
	authed.POST("/tickets", ticketHandler.Purchase)
	authed.DELETE("/tickets/:id", ticketHandler.Cancel)

	authed.GET("/itineraries", itineraryHandler.List)
	authed.POST("/itineraries/generate", itineraryHandler.Generate)
	authed.GET("/itineraries/:id", itineraryHandler.Get)
	authed.DELETE("/itineraries/:id", itineraryHandler.Delete)

	// Admin surface
	admin := api.Group("/admin", middleware.AuthRequired(cfg.Auth.JWTSecret), middleware.AdminRequired())
	admin.POST("/attractions", attractionHandler.Create)
	admin.PUT("/attractions/:id", attractionHandler.Update)
	admin.DELETE("/attractions/:id", attractionHandler.Delete)

	admin.POST("/alerts", alertHandler.Create)
	admin.DELETE("/alerts/:id", alertHandler.Deactivate)

	admin.POST("/events", eventHandler.Create)
	admin.DELETE("/events/:id", eventHandler.Delete)

	admin.POST("/lists", listHandler.Create)
	admin.DELETE("/lists/:id", listHandler.Delete)
	admin.POST("/lists/:id/items", listHandler.AddItem)
	admin.DELETE("/lists/:id/items/:attractionID", listHandler.RemoveItem)
}

// loadAttractionNames seeds the mention scanner at startup. An empty catalog
// just means no mention tagging until the next reload.
func loadAttractionNames(svc attractions.Service, logger *zap.Logger) []string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	names, err := svc.GetAttractionNames(ctx)
	if err != nil {
		logger.Warn("Failed to load attraction names for mention scanning", zap.Error(err))
		return nil
	}
	return names
}
