package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/lifecycle"
	"github.com/anoexpected/stemhub-backend/internal/model"
	"github.com/anoexpected/stemhub-backend/internal/repository"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
)

func TestFailFromErrMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrCode
	}{
		{
			"unauthenticated",
			service.ErrUnauthenticated,
			http.StatusUnauthorized, response.ErrTokenRequired,
		},
		{
			"insufficient role",
			&service.ForbiddenError{Reason: authz.ReasonInsufficientRole},
			http.StatusForbidden, response.ErrInsufficientRole,
		},
		{
			"not owner",
			&service.ForbiddenError{Reason: authz.ReasonNotOwner},
			http.StatusForbidden, response.ErrNotOwner,
		},
		{
			"invalid transition",
			&lifecycle.InvalidTransitionError{From: model.StatePublished, To: model.StateRejected, Role: model.RoleAdmin},
			http.StatusConflict, response.ErrInvalidTransition,
		},
		{
			"lost CAS race",
			repository.ErrStateConflict,
			http.StatusConflict, response.ErrInvalidTransition,
		},
		{
			"missing feedback",
			lifecycle.ErrFeedbackRequired,
			http.StatusBadRequest, response.ErrFeedbackRequired,
		},
		{
			"not found",
			repository.ErrNotFound,
			http.StatusNotFound, response.ErrNotFound,
		},
		{
			"duplicate",
			repository.ErrDuplicate,
			http.StatusConflict, response.ErrConflict,
		},
		{
			"dependency exists",
			repository.ErrDependencyExists,
			http.StatusConflict, response.ErrDependencyExists,
		},
		{
			"bad credentials",
			service.ErrInvalidCredentials,
			http.StatusUnauthorized, response.ErrInvalidCredentials,
		},
		{
			"unknown role is a server fault",
			&model.UnknownRoleError{Role: "moderator"},
			http.StatusInternalServerError, response.ErrUnknownRole,
		},
		{
			"anything else",
			errors.New("boom"),
			http.StatusInternalServerError, response.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest("GET", "/", nil)

			failFromErr(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.NotEmpty(t, body.Metadata.RequestID)
		})
	}
}

// Wrapped errors must still map: services add context with fmt.Errorf("%w").
func TestFailFromErrUnwraps(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("POST", "/", nil)

	wrapped := errors.Join(errors.New("save review decision"), repository.ErrStateConflict)
	failFromErr(c, wrapped)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
