package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookingbot/config"
	"bookingbot/cron"
	"bookingbot/database"
	"bookingbot/database/repository"
	"bookingbot/handlers"
	"bookingbot/routes"
	"bookingbot/services/admin"
	"bookingbot/services/availability"
	"bookingbot/services/conversation"
	"bookingbot/services/messaging"
	"bookingbot/services/reminder"
	"bookingbot/services/session"
	"bookingbot/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	calendar, err := availability.LoadCalendar(cfg.SlotGrid, cfg.Holidays, cfg.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid schedule configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	utils.InitDedupeCache()

	repos := repository.NewMongoRepositories(database.DB())
	if err := repos.EnsureIndexes(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to create indexes: %v", err)
	}
	utils.StartHealthMonitor(ctx, utils.GetDedupeClient(), database.MongoClient)

	// outbound messages.
	var sender messaging.Sender
	if cfg.GatewayURL == "" {
		logger.Warn("GATEWAY_URL not set, replies will only be logged")
		sender = messaging.NewLogSender(logger)
	} else {
		sender = messaging.NewGatewaySender(cfg.GatewayURL, cfg.GatewayToken, cfg.GatewayRatePerSec, nil)
	}

	// reminders.
	reminderClient := asynq.NewClient(cron.ReminderQueueOpt())
	defer reminderClient.Close()
	scheduler := reminder.NewScheduler(reminderClient, cfg.ReminderLead, logger)
	reminderWorker := cron.InitReminderWorker(sender, repos.Appointments, logger)

	// sessions and the booking dialogue.
	sessions := session.NewStore(cfg.SessionIdleTimeout, session.SystemClock{})
	sweeper := session.NewSweeper(sessions, cfg.SessionSweepInterval, logger)
	sweeper.Start(ctx)

	engine := conversation.NewEngine(conversation.EngineConfig{
		Store:       repository.NewBookingStore(repos, calendar.Location()),
		Sessions:    sessions,
		Calendar:    calendar,
		Reminders:   scheduler,
		Clock:       session.SystemClock{},
		CallTimeout: cfg.ExternalCallTimeout,
		Logger:      logger,
	})
	dispatcher := messaging.NewDispatcher(messaging.DispatcherConfig{
		Processor:      engine,
		Sender:         sender,
		Deduper:        messaging.NewRedisDeduper(utils.GetDedupeClient(), cfg.MessageDedupeTTL),
		DefaultChannel: cfg.BotChannelID,
		SendTimeout:    cfg.ExternalCallTimeout,
		Logger:         logger,
	})

	adminService := &admin.DefaultAdminService{
		Repos:      repos,
		Location:   calendar.Location(),
		APIKeyHash: cfg.AdminAPIKeyHash,
		JWTSecret:  []byte(cfg.JWTSecret),
	}
	if cfg.AdminAPIKeyHash == "" || cfg.JWTSecret == "" {
		logger.Warn("ADMIN_API_KEY_HASH or JWT_SECRET not set, admin API is locked")
	}

	webhookHandler := handlers.NewWebhookHandler(dispatcher)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler(sessions)

	handlerBundle := &handlers.HandlerBundle{
		JWTSecret:         []byte(cfg.JWTSecret),
		WebhookSecret:     cfg.WebhookSecret,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,

		ReceiveMessagesHandler: webhookHandler.ReceiveMessagesHandler,

		AdminLoginHandler:        adminHandler.LoginHandler,
		RegisterTenantHandler:    adminHandler.RegisterTenantHandler,
		GetTenantHandler:         adminHandler.GetTenantHandler,
		AddServiceHandler:        adminHandler.AddServiceHandler,
		ListServicesHandler:      adminHandler.ListServicesHandler,
		ListAppointmentsHandler:  adminHandler.ListAppointmentsHandler,
		CancelAppointmentHandler: adminHandler.CancelAppointmentHandler,

		HealthCheckHandler: healthHandler.HealthCheckHandler,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		logger.Warn("main: gave up waiting for in-flight messages", zap.Int("busyConversations", dispatcher.Busy()))
	}

	sweeper.Stop()
	reminderWorker.Shutdown()
	if err := database.CloseDB(5 * time.Second); err != nil {
		logger.Error("main: closing MongoDB", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
