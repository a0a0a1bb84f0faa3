package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"onversed_backend/database"
	"onversed_backend/internal/cache"
	"onversed_backend/internal/config"
	"onversed_backend/internal/email"
	"onversed_backend/internal/handlers"
	"onversed_backend/internal/imageprocessor"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/middleware"
	"onversed_backend/internal/routes"
	"onversed_backend/internal/services"
	"onversed_backend/internal/sms"
	"onversed_backend/internal/storage"
	"onversed_backend/internal/validator"
	"onversed_backend/internal/workers"
	"onversed_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Providers - внешние системы. Пустые поля создаются из конфига.
type Providers struct {
	Mailer  email.Provider
	SMS     sms.Provider
	Storage storage.Storage
	Cache   cache.Cache
}

// App - собранное приложение: HTTP роутер и outbox воркер
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Router    *gin.Engine
	Services  *services.ServiceContainer
	Worker    *workers.OutboxWorker
	Templates *email.TemplateManager
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	defer sqlDB.Close()
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if err := database.SeedLookups(gormDB); err != nil {
		logger.Fatal("Failed to seed lookup values", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := New(ctx, cfg, gormDB, Providers{})
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}

	if err := application.Serve(ctx); err != nil {
		logger.Fatal("Server stopped with error", "error", err)
	}
	logger.Info("Server stopped")
}

// New собирает сервисы, воркер и роутер
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, p Providers) (*App, error) {
	if err := fillProviders(ctx, cfg, &p); err != nil {
		return nil, err
	}

	repos := services.NewRepositories()
	svc := services.NewServiceContainer(repos, services.Deps{
		Token: services.TokenConfig{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			AccessTTL:  cfg.AccessTTL(),
			RefreshTTL: cfg.RefreshTTL(),
			ExpiresIn:  cfg.JWT.TTL,
		},
		Auth: services.AuthConfig{
			StrictMobileCode: cfg.Auth.StrictMobileCode,
			FrontendURL:      cfg.Frontend.URL,
		},
		Upload: services.UploadConfig{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
		Store:     storage.NewAssetStore(p.Storage, cfg.Storage.BaseURL),
		Cache:     p.Cache,
		Processor: imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
	})

	if err := svc.TableValueService.Warm(ctx, db.WithContext(ctx)); err != nil {
		logger.Warn("Table values cache was not warmed", "error", err.Error())
	}

	templates := email.NewTemplateManager()
	if dir := cfg.Email.TemplatesDir; dir != "" {
		if err := templates.LoadTemplates(dir); err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
	}

	worker := workers.NewOutboxWorker(db, repos.Outbox, templates, p.Mailer, p.SMS, workers.OutboxConfig{
		PollInterval: cfg.PollInterval(),
		BatchSize:    cfg.Notifications.BatchSize,
		MaxAttempts:  cfg.Notifications.MaxAttempts,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
	}, svc.NotificationService.Wakeups())

	return &App{
		Config:    cfg,
		DB:        db,
		Router:    SetupRouter(cfg, db, svc),
		Services:  svc,
		Worker:    worker,
		Templates: templates,
	}, nil
}

// SetupRouter собирает gin с middleware и маршрутами
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *services.ServiceContainer) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Frontend.URL))
	router.Use(middleware.DBMiddleware(db))

	// локальное хранилище раздается самим сервером
	if cfg.Storage.Type == "local" {
		if u, err := url.Parse(cfg.Storage.BaseURL); err == nil && strings.HasPrefix(u.Path, "/") {
			router.Static(u.Path, cfg.Storage.BasePath)
		}
	}

	var authLimiter gin.HandlerFunc
	if cfg.Auth.RateLimit > 0 {
		authLimiter = middleware.RateLimit(cfg.Auth.RateLimit, time.Minute)
	}

	appHandlers := handlers.NewAppHandlers(svc, validator.New(), authLimiter)
	routes.RegisterRoutes(router, appHandlers, middleware.AuthGuard(svc.AuthService))
	return router
}

// Serve запускает HTTP сервер и outbox воркер до отмены ctx
func (a *App) Serve(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.Worker.Run(gctx)
	})

	if a.Config.IsDevelopment() && a.Config.Email.TemplatesDir != "" {
		g.Go(func() error {
			if err := a.Templates.Watch(gctx, a.Config.Email.TemplatesDir); err != nil {
				logger.Warn("Template watcher stopped", "error", err.Error())
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func fillProviders(ctx context.Context, cfg *config.Config, p *Providers) error {
	if p.Storage == nil {
		s, err := storage.NewStorage(ctx, storage.Config{
			Type:      cfg.Storage.Type,
			BasePath:  cfg.Storage.BasePath,
			BaseURL:   cfg.Storage.BaseURL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Endpoint:  cfg.Storage.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		p.Storage = s
		logger.Info("Storage initialized", "type", cfg.Storage.Type)
	}

	if p.Cache == nil {
		p.Cache = cache.NewMemoryCache()
		if cfg.Redis.Addr != "" {
			rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				logger.Warn("Redis unavailable, using in-memory cache", "addr", cfg.Redis.Addr, "error", err.Error())
			} else {
				p.Cache = rc
			}
		}
	}

	if p.Mailer == nil {
		if cfg.Email.SMTPHost == "" {
			logger.Warn("SMTP is not configured, emails are only logged")
			p.Mailer = &RecordingEmailProvider{}
		} else {
			p.Mailer = email.NewSMTPProvider(&email.SMTPConfig{
				Host:      cfg.Email.SMTPHost,
				Port:      cfg.Email.SMTPPort,
				Username:  cfg.Email.SMTPUsername,
				Password:  cfg.Email.SMTPPassword,
				FromEmail: cfg.Email.FromEmail,
				FromName:  cfg.Email.FromName,
				UseSSL:    cfg.Email.UseTLS,
			})
		}
	}

	if p.SMS == nil {
		if cfg.SMS.AccountSID == "" {
			logger.Warn("SMS gateway is not configured, messages are only logged")
			p.SMS = &RecordingSMSProvider{}
		} else {
			p.SMS = sms.NewTwilioProvider(sms.Config{
				AccountSID: cfg.SMS.AccountSID,
				AuthToken:  cfg.SMS.AuthToken,
				From:       cfg.SMS.From,
				BaseURL:    cfg.SMS.BaseURL,
			})
		}
	}
	return nil
}
