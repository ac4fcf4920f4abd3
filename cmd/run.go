package cmd

import (
	"context"
	"fmt"
	"time"

	"lotterypool/application"
	"lotterypool/bot"
	"lotterypool/config"
	"lotterypool/database"
	"lotterypool/domain/interfaces"
	"lotterypool/infrastructure"
	"lotterypool/infrastructure/observability"
	"lotterypool/server"

	log "github.com/sirupsen/logrus"
)

// Runtime holds the connections shared by the service and the admin commands
type Runtime struct {
	Pools application.LotteryPoolHandler

	db         *database.DB
	natsClient *infrastructure.NATSClient
}

// NewRuntime connects to the database and, when configured, to NATS
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	rt := &Runtime{db: db}

	var publisher interfaces.EventPublisher
	if cfg.NATSServers == "" {
		log.Info("NATS_SERVERS not set, events will not be published")
		publisher = infrastructure.NewNoopEventPublisher()
	} else {
		log.Infof("Connecting to NATS at %s...", cfg.NATSServers)
		rt.natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := rt.natsClient.Connect(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}

		natsPublisher := infrastructure.NewNATSEventPublisher(rt.natsClient, infrastructure.NewEventSubjectMapper())
		if err := natsPublisher.EnsureEventStream(rt.natsClient); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to ensure event stream: %w", err)
		}
		publisher = natsPublisher
		log.Info("NATS event publisher initialized successfully")
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	rt.Pools = application.NewLotteryPoolHandler(uowFactory)
	return rt, nil
}

// Close releases NATS and database connections
func (rt *Runtime) Close() {
	if rt.natsClient != nil {
		if err := rt.natsClient.Close(); err != nil {
			log.Warnf("Error closing NATS connection: %v", err)
		}
	}
	log.Info("Closing database connection...")
	rt.db.Close()
}

// Run initializes and starts the service until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting lotterypool...")

	cfg := config.Get()

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.Warnf("Failed to initialize metrics, continuing without them: %v", err)
	}

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rt, err := NewRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		log.Info("Initializing Discord bot...")
		discordBot, err = bot.New(bot.Config{
			Token:           cfg.DiscordToken,
			StartingBalance: cfg.StartingBalance,
		}, rt.Pools)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Info("Discord bot initialized successfully")
	} else {
		log.Info("DISCORD_TOKEN not set, Discord bot disabled")
	}

	httpServer := server.New(cfg.HTTPAddr, rt.Pools, server.Options{
		AllowFunding:    !cfg.IsProduction(),
		CallerKeySecret: cfg.CallerKeySecret,
	})

	log.Infof("Service is running in %s mode...", cfg.Environment)
	serverErr := httpServer.Run(ctx)

	log.Info("Shutting down...")
	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.Errorf("Error closing Discord bot: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Warnf("Error shutting down metrics: %v", err)
	}

	if serverErr != nil {
		return serverErr
	}
	log.Info("Shutdown completed")
	return nil
}
