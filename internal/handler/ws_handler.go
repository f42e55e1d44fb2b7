package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/middleware"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams review events to admin dashboards.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ReviewStream godoc
// WS /ws/v1/review/stream
// Upgrades to WebSocket and forwards review events (submitted, published,
// rejected, reminder) from the Redis pub/sub channel to the client. Role
// gating happens in middleware before the upgrade.
func (h *WSHandler) ReviewStream(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("admin_id", actor.ID.String()).Logger()
	wsLog.Info().Msg("Review stream connected")

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.ReviewEventsChannel())
	defer sub.Close()

	// Drain client frames so we notice the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events := sub.Channel()
	for {
		select {
		case <-done:
			wsLog.Info().Msg("Review stream closed by client")
			return
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				wsLog.Warn().Msg("Review event subscription closed")
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, dropping connection")
				return
			}
		}
	}
}
