package models

import (
	"time"

	"github.com/google/uuid"
)

// AttractionCategory classifies an attraction for filtering and map pins.
type AttractionCategory string

const (
	CategoryHeritage      AttractionCategory = "heritage"
	CategoryNature        AttractionCategory = "nature"
	CategoryFood          AttractionCategory = "food"
	CategoryShopping      AttractionCategory = "shopping"
	CategoryEntertainment AttractionCategory = "entertainment"
	CategoryReligious     AttractionCategory = "religious"
	CategoryMuseum        AttractionCategory = "museum"
)

// ValidCategory reports whether c is one of the known attraction categories.
func ValidCategory(c string) bool {
	switch AttractionCategory(c) {
	case CategoryHeritage, CategoryNature, CategoryFood, CategoryShopping,
		CategoryEntertainment, CategoryReligious, CategoryMuseum:
		return true
	}
	return false
}

type Attraction struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	NameES        *string            `json:"name_es"`
	Description   string             `json:"description"`
	DescriptionES *string            `json:"description_es"`
	Category      AttractionCategory `json:"category"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Address       *string            `json:"address"`
	ImageURL      *string            `json:"image_url"`
	TicketPrice   float64            `json:"ticket_price"`
	OpeningHours  *string            `json:"opening_hours"`
	Rating        float64            `json:"rating"`
	IsFeatured    bool               `json:"is_featured"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertDanger  AlertType = "danger"
)

type Alert struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	TitleES   *string    `json:"title_es"`
	Message   string     `json:"message"`
	MessageES *string    `json:"message_es"`
	AlertType AlertType  `json:"alert_type"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type Event struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NameES        *string   `json:"name_es"`
	Description   string    `json:"description"`
	DescriptionES *string   `json:"description_es"`
	Location      *string   `json:"location"`
	EventDate     time.Time `json:"event_date"`
	ImageURL      *string   `json:"image_url"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
}

type CuratedList struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	TitleES       *string   `json:"title_es"`
	Description   *string   `json:"description"`
	DescriptionES *string   `json:"description_es"`
	Icon          string    `json:"icon"`
	CreatedAt     time.Time `json:"created_at"`
}

// Itinerary is a saved AI-generated day-trip plan owned by a user.
type Itinerary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Duration  int       `json:"duration"`
	Budget    string    `json:"budget"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"created_at"`
}

// ItineraryPreferences is the input for AI itinerary generation.
type ItineraryPreferences struct {
	Interests []string `json:"interests"`
	Duration  int      `json:"duration"`
	Budget    string   `json:"budget"`
}

// Validate enforces the request shape the completion proxy accepts.
func (p ItineraryPreferences) Validate() error {
	if p.Duration < 1 || p.Duration > 14 {
		return ErrValidation
	}
	switch p.Budget {
	case "low", "medium", "high":
	default:
		return ErrValidation
	}
	if len(p.Interests) == 0 {
		return ErrValidation
	}
	return nil
}

// Ticket is a simulated purchase. No payment is attached to it.
type Ticket struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	AttractionID     uuid.UUID `json:"attraction_id"`
	AttractionName   string    `json:"attraction_name"`
	Quantity         int       `json:"quantity"`
	PurchaseDate     time.Time `json:"purchase_date"`
	VisitDate        time.Time `json:"visit_date"`
	ConfirmationCode string    `json:"confirmation_code"`
}

type WeatherData struct {
	Temperature int       `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   int       `json:"wind_speed"`
	WeatherCode int       `json:"weather_code"`
	Description string    `json:"description"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Language  string    `json:"language"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
