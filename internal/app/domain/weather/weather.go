package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
	"github.com/FACorreiaa/pune-companion/internal/app/observability/metrics"
	"github.com/FACorreiaa/pune-companion/internal/pkg/config"
)

// Client fetches current conditions from the Open-Meteo forecast API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	latitude   float64
	longitude  float64
	timezone   string
	logger     *zap.Logger
}

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		latitude:   cfg.Latitude,
		longitude:  cfg.Longitude,
		timezone:   cfg.Timezone,
		logger:     logger,
	}
}

type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Fetch performs one live lookup. Callers go through Service, which caches.
func (c *Client) Fetch(ctx context.Context) (*models.WeatherData, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", c.latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", c.longitude))
	params.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code")
	params.Set("timezone", c.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return &models.WeatherData{
		Temperature: int(body.Current.Temperature + 0.5),
		Humidity:    body.Current.Humidity,
		WindSpeed:   int(body.Current.WindSpeed + 0.5),
		WeatherCode: body.Current.WeatherCode,
		Description: describeWeatherCode(body.Current.WeatherCode),
		FetchedAt:   time.Now(),
	}, nil
}

// describeWeatherCode maps WMO weather interpretation codes to short labels.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

// Fetcher lets tests stand in for the HTTP client.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.WeatherData, error)
}

// Service caches conditions for ten minutes and collapses concurrent
// refreshes into one upstream call.
type Service struct {
	logger  *zap.Logger
	fetcher Fetcher
	cache   *cache.Cache
	group   singleflight.Group
}

const weatherCacheKey = "pune-current"

func NewService(fetcher Fetcher, logger *zap.Logger) *Service {
	return &Service{
		logger:  logger,
		fetcher: fetcher,
		cache:   cache.New(10*time.Minute, 20*time.Minute),
	}
}

func (s *Service) CurrentWeather(ctx context.Context) (*models.WeatherData, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "CurrentWeather")
	defer span.End()

	if cached, ok := s.cache.Get(weatherCacheKey); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		metrics.Get().WeatherFetchesTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("source", "cache")))
		return cached.(*models.WeatherData), nil
	}

	data, err, _ := s.group.Do(weatherCacheKey, func() (any, error) {
		fetched, err := s.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(weatherCacheKey, fetched, cache.DefaultExpiration)
		return fetched, nil
	})
	if err != nil {
		metrics.Get().WeatherFetchesTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("source", "error")))
		s.logger.Warn("Weather fetch failed", zap.Error(err))
		return nil, err
	}
	metrics.Get().WeatherFetchesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", "upstream")))
	return data.(*models.WeatherData), nil
}

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// Current handles GET /api/weather.
func (h *Handler) Current(c *gin.Context) {
	data, err := h.service.CurrentWeather(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get weather", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "weather service unavailable"})
		return
	}
	c.JSON(http.StatusOK, data)
}
