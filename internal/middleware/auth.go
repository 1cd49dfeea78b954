package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/pkg/jwt"
	"github.com/lumen-studio/site-core/internal/pkg/response"
	sessionpkg "github.com/lumen-studio/site-core/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"

	// TokenCookie is where the admin UI keeps its auth token.
	TokenCookie = "site-token"

	// Replacement-token headers. Any authenticated call made within the
	// refresh window of token expiry carries these; clients swap tokens
	// without an explicit refresh round-trip.
	HeaderAuthToken       = "X-Auth-Token"
	HeaderAuthTokenExpiry = "X-Auth-Token-Expiry"
)

// Auth returns a middleware that enforces token authentication and
// rotates tokens that are close to expiry.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(db, ExtractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySID, claims.SessionID)
		maybeRotateToken(c, db, claims)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateTokenClaims(db, ExtractToken(c)); err == nil && claims.UserID != "" {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeySID, claims.SessionID)
			maybeRotateToken(c, db, claims)
		}
		c.Next()
	}
}

// RequireAdminPage gates server-rendered admin pages: a missing or invalid
// token cookie redirects to the login page instead of returning JSON.
func RequireAdminPage(db *gorm.DB, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(TokenCookie)
		if err != nil || strings.TrimSpace(raw) == "" {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		claims, err := ValidateTokenClaims(db, raw)
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySID, claims.SessionID)
		c.Next()
	}
}

// ValidateTokenClaims validates a token and checks the backing session.
func ValidateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.New("session expired or revoked")
	}
	return claims, nil
}

func maybeRotateToken(c *gin.Context, db *gorm.DB, claims *jwt.Claims) {
	if !claims.NeedsRefresh(time.Now()) {
		return
	}
	if err := sessionpkg.Extend(db, claims.UserID, claims.SessionID, sessionpkg.DefaultTTL); err != nil {
		return
	}
	token, err := jwt.Sign(claims.UserID, claims.SessionID, sessionpkg.DefaultTTL)
	if err != nil {
		return
	}
	expiry := time.Now().Add(sessionpkg.DefaultTTL)
	c.Header(HeaderAuthToken, token)
	c.Header(HeaderAuthTokenExpiry, expiry.Format(time.RFC3339))
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

// ExtractToken pulls the token from header, query or cookie.
func ExtractToken(c *gin.Context) string {
	if token := NormalizeToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if token := NormalizeToken(c.Query("token")); token != "" {
		return token
	}
	if raw, err := c.Cookie(TokenCookie); err == nil {
		return NormalizeToken(raw)
	}
	return ""
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
