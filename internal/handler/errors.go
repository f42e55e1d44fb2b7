package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/lifecycle"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
)

// failFromErr maps core errors to transport responses in one place so
// every endpoint surfaces the same status for the same failure:
//
//	unauthenticated        -> 401
//	forbidden (any reason) -> 403
//	invalid transition     -> 409 (caller should reload and re-decide)
//	lost CAS race          -> 409
//	missing feedback       -> 400
//	unknown role           -> 500 (data integrity problem, not a 4xx)
func failFromErr(c *gin.Context, err error) {
	var forbidden *service.ForbiddenError
	var invalidTransition *lifecycle.InvalidTransitionError
	var unknownRole *model.UnknownRoleError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)

	case errors.As(err, &forbidden):
		code := response.ErrInsufficientRole
		if forbidden.Reason == authz.ReasonNotOwner {
			code = response.ErrNotOwner
		}
		response.Fail(c, http.StatusForbidden, code)

	case errors.As(err, &invalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)

	case errors.Is(err, repository.ErrStateConflict):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)

	case errors.Is(err, lifecycle.ErrFeedbackRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrFeedbackRequired)

	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)

	case errors.Is(err, repository.ErrDuplicate):
		response.Fail(c, http.StatusConflict, response.ErrConflict)

	case errors.Is(err, repository.ErrDependencyExists):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)

	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)

	case errors.As(err, &unknownRole):
		response.Fail(c, http.StatusInternalServerError, response.ErrUnknownRole)

	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
