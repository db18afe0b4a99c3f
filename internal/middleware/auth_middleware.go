package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/pkg/util"
)

// Context keys for the authenticated caller
const (
	UserIDKey      = "user_id"
	UserEmailKey   = "user_email"
	TokenClaimsKey = "token_claims"
	TokenKey       = "token"
)

// TokenRevoker reports whether an issued token was revoked before expiry.
type TokenRevoker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoker   TokenRevoker
	policy    Policy
}

// NewAuthMiddleware builds the middleware; revoker may be nil when no
// revocation store is configured.
func NewAuthMiddleware(jwtSecret string, revoker TokenRevoker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoker:   revoker,
		policy:    DefaultPolicy,
	}
}

// WithPolicy replaces the access table consulted by Gate
func (m *AuthMiddleware) WithPolicy(p Policy) *AuthMiddleware {
	m.policy = p
	return m
}

var errMissingCredentials = apperrors.NewUnauthorized(apperrors.AuthUnauthorized,
	"Authentication credentials were not provided.")

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", errMissingCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", apperrors.NewUnauthorized(apperrors.AuthTokenInvalid, "Invalid authorization header format.")
	}
	return token, nil
}

// authenticate resolves the caller from the request and stores it in the context
func (m *AuthMiddleware) authenticate(c *gin.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return apperrors.NewUnauthorized(apperrors.AuthTokenExpired, "Token has expired.")
		}
		return apperrors.NewUnauthorized(apperrors.AuthTokenInvalid, "Invalid token.")
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return apperrors.NewUnauthorized(apperrors.AuthTokenRevoked, "Token has been revoked.")
		}
	}

	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(TokenClaimsKey, claims)
	c.Set(TokenKey, token)
	return nil
}

// Authenticate requires a valid, unrevoked bearer token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		if err := m.authenticate(c); err != nil {
			log.Warn("Authentication failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			apperrors.Respond(c, err, "authenticate")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		log.Debug("User authenticated successfully", map[string]interface{}{"user_id": userID})
		c.Next()
	}
}

// OptionalAuthenticate sets the caller when a valid token is present and
// otherwise continues anonymously.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if err := m.authenticate(c); err != nil {
				GetLoggerFromContext(c).Debug("Token ignored on anonymous route", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
			}
		}
		c.Next()
	}
}

// GetUserID extracts the caller id from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts the caller email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetTokenClaims returns the claims of the token that authenticated the request
func GetTokenClaims(c *gin.Context) (*util.Claims, bool) {
	v, exists := c.Get(TokenClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*util.Claims)
	return claims, ok
}
