package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"relancer/internal/caching"
	"relancer/internal/config"
	"relancer/internal/handlers"
	"relancer/internal/jobs"
	"relancer/internal/jobs/background"
	"relancer/internal/mailer"
	"relancer/internal/middleware"
	"relancer/internal/repositories"
	"relancer/internal/services"
	"relancer/pkg/database"
)

func main() {
	cfg, err := config.New(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}

	pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	mail, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	if !mail.Configured() {
		log.Println("WARN: mailer is not configured, reminder sends will fail until credentials are set")
	}

	clock := clockwork.NewRealClock()

	// Create repositories
	clientRepo := repositories.NewClientRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	reminderRepo := repositories.NewReminderRepo(pool)
	sequenceRepo := repositories.NewSequenceRepo(pool)

	// Create services
	sequenceSvc := services.NewSequenceService(sequenceRepo, cacheSvc)
	planner := services.NewReminderPlanner(sequenceSvc, reminderRepo)
	dispatcher := services.NewReminderDispatcher(sequenceRepo, reminderRepo, mail, cfg.SenderName, cfg.SendTimeout, clock)
	clientSvc := services.NewClientService(clientRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, clientRepo, planner)
	reminderSvc := services.NewReminderService(reminderRepo, invoiceRepo, clientRepo, dispatcher)

	if err := sequenceSvc.EnsureDefault(context.Background()); err != nil {
		log.Fatalf("Failed to ensure default sequence: %v", err)
	}

	// Background sweeps
	dueSweep := jobs.NewDueReminderSweep(reminderRepo, invoiceRepo, clientRepo, dispatcher, clock)
	overdueSweep := jobs.NewOverdueSweep(invoiceRepo, clock)

	scheduler, err := background.NewJobScheduler(dueSweep, overdueSweep, location, cfg.ReminderHour, cfg.ReminderMinute)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}

	// Create handlers
	clientHandlers := handlers.NewClientHandlers(clientSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc)
	reminderHandlers := handlers.NewReminderHandlers(reminderSvc)
	sequenceHandlers := handlers.NewSequenceHandlers(sequenceSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, mail)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")
	v1.Use(middleware.APIKeyAuth(cfg.APIKey))

	v1.GET("/clients", clientHandlers.ListClients)
	v1.POST("/clients", clientHandlers.CreateClient)
	v1.GET("/clients/:id", clientHandlers.GetClient)
	v1.PUT("/clients/:id", clientHandlers.UpdateClient)
	v1.DELETE("/clients/:id", clientHandlers.DeactivateClient)
	v1.DELETE("/clients/:id/purge", clientHandlers.PurgeClient)

	v1.GET("/invoices", invoiceHandlers.ListInvoices)
	v1.POST("/invoices", invoiceHandlers.CreateInvoice)
	v1.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	v1.PUT("/invoices/:id", invoiceHandlers.UpdateInvoice)
	v1.POST("/invoices/:id/mark-paid", invoiceHandlers.MarkInvoicePaid)

	v1.GET("/reminders", reminderHandlers.ListReminders)
	v1.GET("/reminders/:id", reminderHandlers.GetReminder)
	v1.POST("/reminders/:id/send", reminderHandlers.SendReminder)
	v1.POST("/reminders/:id/retry", reminderHandlers.RetryReminder)

	v1.GET("/sequences", sequenceHandlers.ListSequences)
	v1.POST("/sequences", sequenceHandlers.CreateSequence)
	v1.GET("/sequences/default", sequenceHandlers.GetDefaultSequence)
	v1.GET("/sequences/:id", sequenceHandlers.GetSequence)

	scheduler.Start()

	go func() {
		log.Printf("Server starting on port %d (reminder sweep at %02d:%02d %s)", cfg.Port, cfg.ReminderHour, cfg.ReminderMinute, cfg.Timezone)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

func newMailer(cfg config.Config) (mailer.Mailer, error) {
	switch cfg.MailerDriver {
	case "brevo":
		return mailer.NewBrevoMailer(cfg.BrevoAPIKey, cfg.SenderEmail, cfg.SenderName), nil
	case "smtp":
		return mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPLogin, cfg.SMTPPassword, cfg.SenderEmail, cfg.SenderName), nil
	default:
		return nil, fmt.Errorf("unknown mailer driver %q", cfg.MailerDriver)
	}
}
