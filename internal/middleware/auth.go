package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
	// ContextKeyActor is the Gin context key for the resolved actor.
	ContextKeyActor = "actor"
)

// RequireAuth validates the JWT from the Authorization header and resolves
// the acting user into the request context. A token carrying a role
// outside the defined set is treated as a corrupted record and rejected
// hard, never mapped to a default privilege level.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractBearer(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		role, err := model.ParseRole(claims.Role)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrUnknownRole)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyActor, &model.Actor{ID: claims.UserID, Role: role})
		c.Next()
	}
}

// CheckSession validates the JWT's JTI against the active session in
// Redis. A mismatch means the session was revoked (e.g. after a role
// change) and the token must not be honored for its remaining lifetime.
func CheckSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetActor retrieves the resolved actor from the Gin context. Returns nil
// when the request is unauthenticated.
func GetActor(c *gin.Context) *model.Actor {
	val, exists := c.Get(ContextKeyActor)
	if !exists {
		return nil
	}
	actor, ok := val.(*model.Actor)
	if !ok {
		return nil
	}
	return actor
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	// Fallback for WebSocket clients that cannot send headers.
	return c.Query("token")
}
