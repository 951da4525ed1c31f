package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"giveaway-bot-backend/internal/common/config"
	"giveaway-bot-backend/internal/common/logger"
	channelrepo "giveaway-bot-backend/internal/features/channel/repository/sqlite"
	channelservice "giveaway-bot-backend/internal/features/channel/service"
	giveawayrepo "giveaway-bot-backend/internal/features/giveaway/repository/sqlite"
	giveawayservice "giveaway-bot-backend/internal/features/giveaway/service"
	"giveaway-bot-backend/internal/features/session"
	userrepo "giveaway-bot-backend/internal/features/user/repository/sqlite"
	userservice "giveaway-bot-backend/internal/features/user/service"
	opshttp "giveaway-bot-backend/internal/http"
	"giveaway-bot-backend/internal/platform/db"
	"giveaway-bot-backend/internal/platform/reporting"
	"giveaway-bot-backend/internal/platform/telegram"
	"giveaway-bot-backend/internal/scheduler"
)

func main() {
	cfg := config.Load()
	logger.Init("giveaway-bot", cfg.Debug)

	ctx := context.Background()

	sqlDB, err := db.Open(ctx, cfg.DB.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	var redisClient *redis.Client
	var sessions session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis session store")
	}

	tgClient := telegram.NewClient(cfg.Telegram.BotToken)
	announcer := telegram.NewAnnouncer(tgClient)
	notifier := reporting.NewLogNotifier()

	giveawayRepo := giveawayrepo.NewGiveawayRepository(sqlDB)
	userRepo := userrepo.NewUserRepository(sqlDB)
	channelRepo := channelrepo.NewChannelRepository(sqlDB)

	sched := scheduler.New(giveawayRepo, cfg.Scheduler.CatchUpMissed)
	giveaways := giveawayservice.NewGiveawayService(giveawayRepo, sched, announcer, notifier)
	sched.SetFinalizer(giveaways)

	users := userservice.NewUserService(userRepo, announcer, notifier, cfg.Telegram.BotUsername)
	channels := channelservice.NewChannelService(channelRepo, announcer, notifier)

	// Timers must be back before anything can enroll or fire.
	if err := sched.Restore(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to restore announcement timers")
	}

	server := opshttp.NewServer(cfg.Server.Port, opshttp.Deps{
		DB:        sqlDB,
		Redis:     redisClient,
		Giveaways: giveaways,
		Users:     users,
		Channels:  channels,
		Sessions:  sessions,
	}, cfg.Debug)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("Shutdown complete")
}
