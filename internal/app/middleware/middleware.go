package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey  = "user_id"
	userKey    = "user_email"
	isAdminKey = "is_admin"
)

// tokenClaims mirrors the claims the auth service signs into auth_token.
type tokenClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

func parseToken(secret, tokenString string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// AuthRequired validates the auth_token cookie and aborts with 401 when it
// is missing or invalid.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("auth_token")
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := parseToken(jwtSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userKey, claims.Email)
		c.Set(isAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present but
// never blocks the request.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("auth_token")
		if err == nil && token != "" {
			if claims, err := parseToken(jwtSecret, token); err == nil {
				c.Set(userIDKey, claims.UserID)
				c.Set(userKey, claims.Email)
				c.Set(isAdminKey, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdminFromContext(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetUserIDFromContext extracts the authenticated user id; empty when the
// request is anonymous.
func GetUserIDFromContext(c *gin.Context) string {
	if userID, exists := c.Get(userIDKey); exists {
		if s, ok := userID.(string); ok {
			return s
		}
	}
	return ""
}

func GetUserEmailFromContext(c *gin.Context) string {
	if email, exists := c.Get(userKey); exists {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}

func IsAdminFromContext(c *gin.Context) bool {
	if isAdmin, exists := c.Get(isAdminKey); exists {
		if b, ok := isAdmin.(bool); ok {
			return b
		}
	}
	return false
}
