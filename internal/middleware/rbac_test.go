package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/model"
)

func requireActionRouter(actor *model.Actor, action authz.Action) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe",
		func(c *gin.Context) {
			if actor != nil {
				c.Set(ContextKeyActor, actor)
			}
		},
		RequireAction(authz.NewGate(authz.DefaultTable()), action),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)
	return r
}

func TestRequireAction(t *testing.T) {
	tests := []struct {
		name       string
		actor      *model.Actor
		action     authz.Action
		wantStatus int
	}{
		{"no actor", nil, authz.ActionAccessContent, http.StatusUnauthorized},
		{"student reads content", &model.Actor{ID: uuid.New(), Role: model.RoleStudent}, authz.ActionAccessContent, http.StatusNoContent},
		{"student creates content", &model.Actor{ID: uuid.New(), Role: model.RoleStudent}, authz.ActionCreateContent, http.StatusForbidden},
		{"contributor creates content", &model.Actor{ID: uuid.New(), Role: model.RoleContributor}, authz.ActionCreateContent, http.StatusNoContent},
		{"contributor views queue", &model.Actor{ID: uuid.New(), Role: model.RoleContributor}, authz.ActionViewReviewQueue, http.StatusForbidden},
		{"admin manages users", &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, authz.ActionManageUsers, http.StatusNoContent},
		{"corrupted role", &model.Actor{ID: uuid.New(), Role: model.Role("root")}, authz.ActionAccessContent, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requireActionRouter(tt.actor, tt.action)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest("GET", "/probe", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
