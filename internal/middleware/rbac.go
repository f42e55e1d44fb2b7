package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/response"
)

// RequireAction gates a route group on the permission table. Item-level
// ownership checks still run in the service layer; this only rejects
// requests whose role can never perform the action.
func RequireAction(gate *authz.Gate, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)

		decision, err := gate.Authorize(actor, action, nil)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrUnknownRole)
			return
		}
		if !decision.Allowed {
			if decision.Reason == authz.ReasonUnauthenticated {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
				return
			}
			response.AbortFail(c, http.StatusForbidden, response.ErrInsufficientRole)
			return
		}

		c.Next()
	}
}
