package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/applicant-tracking/api"
	"github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/application"
	applicationPostgres "github.com/frahmantamala/applicant-tracking/internal/application/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	authPostgres "github.com/frahmantamala/applicant-tracking/internal/auth/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/applicant-tracking/internal/dashboard/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/interview"
	interviewPostgres "github.com/frahmantamala/applicant-tracking/internal/interview/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	jobPostgres "github.com/frahmantamala/applicant-tracking/internal/job/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/mailer"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	notificationPostgres "github.com/frahmantamala/applicant-tracking/internal/notification/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/scheduling"
	schedulingPostgres "github.com/frahmantamala/applicant-tracking/internal/scheduling/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/scoring"
	"github.com/frahmantamala/applicant-tracking/internal/transport/middleware"
	"github.com/frahmantamala/applicant-tracking/internal/transport/rest"
	"github.com/frahmantamala/applicant-tracking/internal/user"
	userPostgres "github.com/frahmantamala/applicant-tracking/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// App holds every long lived component the commands share.
type App struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Mailer   *mailer.Dispatcher
	Logger   *slog.Logger

	handlers rest.Handlers
}

func newApp(cfg *internal.Config, lg *slog.Logger) (*App, error) {
	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, cfg.Env == "development")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       db,
		Gorm:     gdb,
		EventBus: events.NewEventBus(lg),
		Logger:   lg,
	}
	app.wire()
	events.NewAuditLog(lg.With("component", "audit")).Register(app.EventBus)
	return app, nil
}

func (a *App) wire() {
	cfg := a.Config
	lg := a.Logger

	userRepo := userPostgres.NewUserRepository(a.Gorm)
	jobRepo := jobPostgres.NewJobRepository(a.Gorm)
	applicationRepo := applicationPostgres.NewApplicationRepository(a.Gorm)
	interviewRepo := interviewPostgres.NewInterviewRepository(a.Gorm)
	notificationRepo := notificationPostgres.NewNotificationRepository(a.Gorm)

	emitter := notification.NewEmitter(notificationRepo, a.EventBus, lg)

	userService := user.NewService(userRepo, cfg.Security.BCryptCost, lg)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(a.Gorm), tokens, lg)

	jobService := job.NewService(jobRepo, lg)
	applicationService := application.NewService(applicationRepo, jobRepo, emitter, a.EventBus, lg)

	deps := interview.Dependencies{
		Repo:         interviewRepo,
		Applications: applicationRepo,
		Jobs:         jobRepo,
		Notifier:     emitter,
		Publisher:    a.EventBus,
		Logger:       lg,
	}
	if cfg.Scheduling.BaseURL != "" {
		calendar := scheduling.NewHTTPCalendar(scheduling.CalendarConfig{
			BaseURL: cfg.Scheduling.BaseURL,
			Timeout: cfg.Scheduling.Timeout,
		}, lg)
		deps.Booker = scheduling.NewService(calendar, schedulingPostgres.NewCredentialRepository(a.Gorm), lg)
	}
	interviewService := interview.NewService(deps)

	var oracle scoring.Oracle
	if cfg.Scoring.BaseURL != "" {
		oracle = scoring.NewHTTPOracle(scoring.ClientConfig{
			BaseURL: cfg.Scoring.BaseURL,
			APIKey:  cfg.Scoring.APIKey,
			Timeout: cfg.Scoring.Timeout,
		}, lg)
	}
	scoringService := scoring.NewService(oracle, applicationRepo, jobRepo, cfg.Scoring.TopNJobs, lg)

	dashboardService := dashboard.NewService(dashboardPostgres.NewStatsRepository(a.DB), lg)

	if cfg.Mailer.Enabled {
		a.Mailer = mailer.NewDispatcher(mailer.Config{
			From:          cfg.Mailer.From,
			SendTimeout:   cfg.Mailer.SendTimeout,
			MaxWorkers:    cfg.Mailer.MaxWorkers,
			JobQueueSize:  cfg.Mailer.JobQueueSize,
			RatePerSecond: cfg.Mailer.RatePerSecond,
		}, mailer.NewHTTPSender(cfg.Mailer.APIURL, cfg.Mailer.APIKey, cfg.Mailer.SendTimeout), notificationRepo, userRepo, lg)
	}

	a.handlers = rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Job:          job.NewHandler(jobService),
		Application:  application.NewHandler(applicationService),
		Interview:    interview.NewHandler(interviewService),
		Notification: notification.NewHandler(notification.NewService(notificationRepo, lg)),
		Scoring:      scoring.NewHandler(scoringService),
		Dashboard:    dashboard.NewHandler(dashboardService),
	}
}

// StartMailer starts the worker pool and subscribes it to new notifications.
func (a *App) StartMailer() {
	if a.Mailer == nil {
		a.Logger.Info("mailer disabled")
		return
	}
	a.Mailer.Start()
	a.EventBus.Subscribe(events.EventTypeNotificationCreated, a.Mailer.HandleNotificationCreated)
}

func (a *App) routeOptions(ctx context.Context) (rest.Options, error) {
	oracleTimeout := a.Config.Scoring.Timeout
	if a.Config.Scheduling.Timeout > oracleTimeout {
		oracleTimeout = a.Config.Scheduling.Timeout
	}
	opts := rest.Options{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		OpenAPISpec:    api.Spec,
		RequestTimeout: a.Config.Server.RequestTimeout,
		OracleTimeout:  oracleTimeout,
	}
	if !a.Config.Server.ValidateRequests {
		return opts, nil
	}

	doc, err := api.Load(ctx)
	if err != nil {
		return opts, err
	}
	validator, err := middleware.OpenAPIValidator(doc)
	if err != nil {
		return opts, err
	}
	opts.RequestValidator = validator
	return opts, nil
}

// Close drains the event bus and mailer before releasing the pool.
func (a *App) Close() {
	a.EventBus.Wait()
	if a.Mailer != nil {
		a.Mailer.Shutdown()
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}
