package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/config"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/handler"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/repository"
	"github.com/talkboard/talkboard-backend/internal/routes"
	"github.com/talkboard/talkboard-backend/internal/service"
	pkgcache "github.com/talkboard/talkboard-backend/pkg/cache"
	"github.com/talkboard/talkboard-backend/pkg/jwt"
	pkglogger "github.com/talkboard/talkboard-backend/pkg/logger"
	"github.com/talkboard/talkboard-backend/pkg/mailer"
	pkgredis "github.com/talkboard/talkboard-backend/pkg/redis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns the config file path based on APP_ENV
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to MySQL")

	// Redis is optional: listings fall back to the database.
	var cacheService pkgcache.Service
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("redis unavailable, continuing without cache")
	} else {
		cacheService = pkgcache.NewService(redisClient)
		pkglogger.GetLogger().Info().Msg("connected to Redis")
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	smtpMailer := mailer.NewSMTPMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	if !smtpMailer.Enabled() {
		pkglogger.GetLogger().Warn().Msg("SMTP not configured, mail disabled")
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to build mail templates: %v", err)
	}

	// Repositories
	memberRepo := repository.NewMemberRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	watchRepo := repository.NewWatchRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	banRepo := repository.NewBanRepository(db)
	reportRepo := repository.NewReportRepository(db)
	moderatorRepo := repository.NewModeratorRepository(db)

	// Denylist snapshot must be in place before serving.
	registry := service.NewBanRegistry(banRepo)
	if err := registry.Refresh(); err != nil {
		log.Fatalf("Failed to load ban registry: %v", err)
	}

	// Services
	aggregateSvc := service.NewAggregateService(postRepo, threadRepo, categoryRepo, cacheService)
	notifySvc := service.NewNotifyService(
		settingsRepo, watchRepo, memberRepo,
		smtpMailer, renderer,
		cfg.Board.Notify, cfg.Board.FailSilently, cfg.Board.AdminEmails,
	)
	categorySvc := service.NewCategoryService(categoryRepo, moderatorRepo, memberRepo, cacheService)
	threadSvc := service.NewThreadService(
		threadRepo, postRepo, categoryRepo, memberRepo, watchRepo,
		aggregateSvc, notifySvc, cacheService,
	)
	postSvc := service.NewPostService(
		postRepo, threadRepo, categoryRepo, memberRepo, reportRepo,
		settingsRepo, watchRepo, moderatorRepo, aggregateSvc, notifySvc,
	)
	groupSvc := service.NewGroupService(groupRepo, invitationRepo, memberRepo, notifySvc)
	banSvc := service.NewBanService(banRepo, registry)
	settingsSvc := service.NewSettingsService(settingsRepo)

	// Handlers
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	threadHandler := handler.NewThreadHandler(threadSvc)
	postHandler := handler.NewPostHandler(postSvc)
	moderationHandler := handler.NewModerationHandler(postSvc, banSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)

	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	routes.Setup(
		router,
		categoryHandler,
		threadHandler,
		postHandler,
		moderationHandler,
		groupHandler,
		settingsHandler,
		jwtManager,
		registry,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("shutdown")
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if strings.HasPrefix(cfg.Server.Env, "dev") || cfg.Server.Env == "local" {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&domain.Member{},
		&domain.Group{},
		&domain.Category{},
		&domain.Thread{},
		&domain.Post{},
		&domain.WatchList{},
		&domain.UserSettings{},
		&domain.Invitation{},
		&domain.AbuseReport{},
		&domain.UserBan{},
		&domain.IPBan{},
		&domain.Moderator{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
