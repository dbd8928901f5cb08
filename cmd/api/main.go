package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"straypaws/rescue-portal/rescue-portal-backend/internal/accounts"
	"straypaws/rescue-portal/rescue-portal-backend/internal/adoptions"
	"straypaws/rescue-portal/rescue-portal-backend/internal/config"
	"straypaws/rescue-portal/rescue-portal-backend/internal/dogs"
	"straypaws/rescue-portal/rescue-portal-backend/internal/maintenance"
	"straypaws/rescue-portal/rescue-portal-backend/internal/middleware"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications/websocket"
	"straypaws/rescue-portal/rescue-portal-backend/internal/rescue"
	"straypaws/rescue-portal/rescue-portal-backend/internal/settings"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/pdf"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/security"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	if cfg.Security.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&accounts.Account{},
		&accounts.PasswordResetChallenge{},
		&dogs.Dog{},
		&rescue.RescueReport{},
		&adoptions.AdoptionApplication{},
		&notifications.Notification{},
		&settings.NotificationPreferences{},
	); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()

	var store storage.ObjectStore
	if cfg.Storage.Enabled {
		store, err = storage.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.Region)
		if err != nil {
			logger.Fatal("failed to init object store", zap.Error(err))
		}
	} else {
		store = storage.NewMockObjectStore()
		logger.Info("object storage disabled, using mock store")
	}

	var email notifications.EmailSender
	if cfg.Email.Enabled {
		email, err = notifications.NewSESSender(ctx, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			logger.Fatal("failed to init email sender", zap.Error(err))
		}
	} else {
		email = notifications.NewNoopSender()
		logger.Info("email delivery disabled")
	}

	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL)

	wsManager := websocket.NewManager()
	defer wsManager.Close()

	settingsRepo := settings.NewRepository(db)
	settingsService := settings.NewService(settingsRepo, logger)

	notifRepo := notifications.NewRepository(db)
	dispatcher := notifications.NewDispatcher(notifRepo, wsManager, email, settingsService, logger)

	accountRepo := accounts.NewRepository(db)
	accountService := accounts.NewService(accountRepo, hasher, tokens, store,
		dispatcher, cfg.Security.ResetCodeTTL, logger)

	dogRepo := dogs.NewRepository(db)
	dogService := dogs.NewService(dogRepo, dispatcher, logger)

	rescueRepo := rescue.NewRepository(db)
	rescueService := rescue.NewService(rescueRepo, dogRepo, dispatcher, logger)

	adoptionRepo := adoptions.NewRepository(db)
	adoptionService := adoptions.NewService(adoptionRepo, dogRepo, accountRepo,
		pdf.NewGenerator(), store, dispatcher, logger)

	cleaner := maintenance.NewCleaner(accountRepo, logger)
	if err := cleaner.Start(cfg.Security.ResetCleanup); err != nil {
		logger.Fatal("failed to schedule maintenance", zap.Error(err))
	}
	defer cleaner.Stop()

	r := gin.Default()
	r.Use(middleware.Auth(tokens))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	accounts.RegisterRoutes(v1, accounts.NewHandler(accountService))
	dogs.RegisterRoutes(v1, dogs.NewHandler(dogService))
	rescue.RegisterRoutes(v1, rescue.NewHandler(rescueService))
	adoptions.RegisterRoutes(v1, adoptions.NewHandler(adoptionService))
	notifications.RegisterRoutes(v1, notifications.NewHandler(dispatcher, wsManager))
	settings.NewHandler(settingsService).RegisterRoutes(v1)

	addr := cfg.Server.GetServerAddr()
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil && level != "" {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
