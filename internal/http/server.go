package http

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"giveaway-bot-backend/internal/common/logger"
	channelservice "giveaway-bot-backend/internal/features/channel/service"
	giveawayservice "giveaway-bot-backend/internal/features/giveaway/service"
	"giveaway-bot-backend/internal/features/session"
	userservice "giveaway-bot-backend/internal/features/user/service"
)

// Server is the operational HTTP surface: probes and a read-only view of
// active giveaways. The bot itself does not serve traffic here.
type Server struct {
	srv       *http.Server
	db        *sql.DB
	redis     *redis.Client
	giveaways *giveawayservice.GiveawayService
	users     *userservice.UserService
	channels  *channelservice.ChannelService
	sessions  session.Store
}

// Deps collects the collaborators the ops server reads from.
type Deps struct {
	DB        *sql.DB
	Redis     *redis.Client
	Giveaways *giveawayservice.GiveawayService
	Users     *userservice.UserService
	Channels  *channelservice.ChannelService
	Sessions  session.Store
}

func NewServer(port int, deps Deps, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		db:        deps.DB,
		redis:     deps.Redis,
		giveaways: deps.Giveaways,
		users:     deps.Users,
		channels:  deps.Channels,
		sessions:  deps.Sessions,
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID())

	router.GET("/health", s.handleHealth)
	router.GET("/live", s.handleHealth)
	router.GET("/ready", s.handleReady)

	api := router.Group("/api/v1")
	{
		api.GET("/giveaways", s.handleActiveGiveaways)
		api.GET("/users", s.handleUsers)
		api.GET("/channels", s.handleChannels)
		api.GET("/sessions/:user_id", s.handleSession)
	}

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
		return
	}
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "redis"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) handleActiveGiveaways(c *gin.Context) {
	giveaways, err := s.giveaways.ListActive(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list active giveaways")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": giveaways})
}

func (s *Server) handleUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleChannels(c *gin.Context) {
	channels, err := s.channels.List(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list channels")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// handleSession exposes a user's dialog state for support debugging.
func (s *Server) handleSession(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	state, err := s.sessions.Get(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	logger.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
