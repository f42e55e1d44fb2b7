package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/handler"
	"github.com/anoexpected/stemhub-backend/internal/middleware"
	"github.com/anoexpected/stemhub-backend/internal/response"
	"github.com/anoexpected/stemhub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Content    *handler.ContentHandler
	Review     *handler.ReviewHandler
	Curriculum *handler.CurriculumHandler
	User       *handler.UserHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	gate *authz.Gate,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me",
			middleware.RequireAuth(authService),
			middleware.CheckSession(authService),
			handlers.Auth.Me,
		)
		auth.POST("/logout",
			middleware.RequireAuth(authService),
			middleware.CheckSession(authService),
			handlers.Auth.Logout,
		)
	}

	// ─── 2. Authenticated API (JWT + Session) ──────────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSession(authService),
	)
	{
		// Curriculum reads (any authenticated role)
		api.GET("/exam-boards", handlers.Curriculum.ListExamBoards)
		api.GET("/subjects", handlers.Curriculum.ListSubjects)
		api.GET("/subjects/:subject_id/topics", handlers.Curriculum.ListTopics)

		// Curriculum writes (admin)
		api.POST("/exam-boards",
			middleware.RequireAction(gate, authz.ActionManageCurriculum),
			handlers.Curriculum.CreateExamBoard,
		)
		api.POST("/subjects",
			middleware.RequireAction(gate, authz.ActionManageCurriculum),
			handlers.Curriculum.CreateSubject,
		)
		api.POST("/topics",
			middleware.RequireAction(gate, authz.ActionManageCurriculum),
			handlers.Curriculum.CreateTopic,
		)
		api.DELETE("/topics/:topic_id",
			middleware.RequireAction(gate, authz.ActionManageCurriculum),
			handlers.Curriculum.DeleteTopic,
		)

		// Published content (any authenticated role)
		api.GET("/topics/:topic_id/content", handlers.Content.ListTopicContent)
		api.GET("/content/:content_id", handlers.Content.GetContent)

		// Contributor content flows. The route gate rejects roles that can
		// never perform the action; per-item ownership is enforced in the
		// service.
		api.POST("/content",
			middleware.RequireAction(gate, authz.ActionCreateContent),
			handlers.Content.CreateContent,
		)
		api.GET("/content/mine",
			middleware.RequireAction(gate, authz.ActionEditOwnContent),
			handlers.Content.ListMyContent,
		)
		api.PUT("/content/:content_id",
			middleware.RequireAction(gate, authz.ActionEditOwnContent),
			handlers.Content.UpdateContent,
		)
		api.POST("/content/:content_id/submit",
			middleware.RequireAction(gate, authz.ActionEditOwnContent),
			handlers.Content.SubmitContent,
		)

		// Review queue (admin)
		api.GET("/review/pending",
			middleware.RequireAction(gate, authz.ActionViewReviewQueue),
			handlers.Review.ListPending,
		)
		api.POST("/review/:content_id/approve",
			middleware.RequireAction(gate, authz.ActionReviewContent),
			handlers.Review.ApproveContent,
		)
		api.POST("/review/:content_id/reject",
			middleware.RequireAction(gate, authz.ActionReviewContent),
			handlers.Review.RejectContent,
		)

		// User management (admin)
		api.GET("/admin/users",
			middleware.RequireAction(gate, authz.ActionManageUsers),
			handlers.User.ListUsers,
		)
		api.PUT("/admin/users/:user_id/role",
			middleware.RequireAction(gate, authz.ActionManageUsers),
			handlers.User.UpdateUserRole,
		)
	}

	// ─── 3. WebSocket Group (Admin Review Stream) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSession(authService),
		middleware.RequireAction(gate, authz.ActionViewReviewQueue),
	)
	{
		ws.GET("/review/stream", handlers.WS.ReviewStream)
	}

	return router
}
