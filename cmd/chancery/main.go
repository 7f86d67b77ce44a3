package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/chancery-dms/chancery/internal/app"
	"github.com/chancery-dms/chancery/internal/auth"
	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/companies"
	"github.com/chancery-dms/chancery/internal/correspondence"
	"github.com/chancery-dms/chancery/internal/documents"
	"github.com/chancery-dms/chancery/internal/identity"
	"github.com/chancery-dms/chancery/internal/observability"
	"github.com/chancery-dms/chancery/internal/platform/cache"
	"github.com/chancery-dms/chancery/internal/platform/db"
	"github.com/chancery-dms/chancery/internal/proceedings"
	"github.com/chancery-dms/chancery/internal/retention"
	"github.com/chancery-dms/chancery/internal/roles"
	"github.com/chancery-dms/chancery/internal/shared"
	"github.com/chancery-dms/chancery/internal/users"
	"github.com/chancery-dms/chancery/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "chancery_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	authzStore := authz.NewPGStore(dbpool)
	if err := authzStore.EnsureCorePermissions(ctx); err != nil {
		logger.Error("seed permission catalogue", slog.Any("error", err))
		os.Exit(1)
	}
	authzService := authz.NewService(authzStore)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	assembler := auth.NewPrincipalAssembler(authRepo, authzService, redisClient, cfg.PrincipalCacheTTL)

	guard := authz.Middleware{Principals: assembler, Logger: logger}

	identityManager := identity.NewManager(sessionManager, assembler, auditLogger, metrics, logger)
	identityHandler := identity.NewHandler(logger, identityManager, guard, csrfManager)
	authHandler := auth.NewHandler(logger, authService, assembler, identityManager, sessionManager, csrfManager)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, authzService, assembler, jobClient, logger)
	usersHandler := users.NewHandler(logger, usersService, guard)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, assembler, jobClient, logger)
	rolesHandler := roles.NewHandler(logger, rolesService, guard)

	permissionsHandler := authz.NewPermissionsHandler(logger, authzService, guard)

	companiesHandler := companies.NewHandler(logger, companies.NewService(companies.NewRepository(dbpool)), guard)
	correspondenceHandler := correspondence.NewHandler(logger, correspondence.NewService(correspondence.NewRepository(dbpool)), guard)
	proceedingsHandler := proceedings.NewHandler(logger, proceedings.NewService(proceedings.NewRepository(dbpool)), guard)

	documentsRepo := documents.NewRepository(dbpool)
	documentsHandler := documents.NewHandler(logger, documents.NewService(documentsRepo), guard)

	retentionService := retention.NewService(retention.NewRepository(dbpool), documentsRepo, logger)
	retentionHandler := retention.NewHandler(logger, retentionService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		SessionManager:        sessionManager,
		CSRFManager:           csrfManager,
		AuthHandler:           authHandler,
		IdentityHandler:       identityHandler,
		UsersHandler:          usersHandler,
		RolesHandler:          rolesHandler,
		PermissionsHandler:    permissionsHandler,
		CompaniesHandler:      companiesHandler,
		CorrespondenceHandler: correspondenceHandler,
		ProceedingsHandler:    proceedingsHandler,
		DocumentsHandler:      documentsHandler,
		RetentionHandler:      retentionHandler,
		JobHandler:            jobHandler,
		Metrics:               metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
