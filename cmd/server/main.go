package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tap-goose-backend/internal/config"
	"tap-goose-backend/internal/database"
	"tap-goose-backend/internal/events"
	"tap-goose-backend/internal/handlers"
	"tap-goose-backend/internal/logger"
	"tap-goose-backend/internal/middleware"
	"tap-goose-backend/internal/models"
	"tap-goose-backend/internal/services"
	"tap-goose-backend/internal/ws"

	_ "tap-goose-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

// @title           Tap the Goose API
// @version         1.0
// @description     Timed tap rounds with per-round scoring and a live tap feed
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db := database.Connect(cfg, log)
	database.AutoMigrate(db, log)
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get sql.DB")
	}
	defer sqlDB.Close()

	var bus events.Bus = events.NewLocalBus()
	rdb, err := database.ConnectRedis(cfg, log)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, tap feed stays in-process")
	} else if rdb != nil {
		defer rdb.Close()
		bus = events.NewRedisBus(rdb, log)
	}

	hub := ws.NewHub(log)

	scoringService := services.NewScoringService()
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL(), cfg.AuthAutoRegister, log)
	roundService := services.NewRoundService(db, scoringService, cfg.Cooldown(), cfg.RoundLength(), log)
	tapService := services.NewTapService(db, scoringService, bus, cfg.TapTxTimeout, log)

	authHandler := handlers.NewAuthHandler(authService)
	roundHandler := handlers.NewRoundHandler(roundService)
	tapHandler := handlers.NewTapHandler(tapService)
	healthHandler := handlers.NewHealthHandler(sqlDB)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", healthHandler.Health)
	r.GET("/ws/rounds/:id", wsHandler.HandleWebSocket)

	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)

	authed := r.Group("/")
	authed.Use(middleware.JWTAuth(authService))
	{
		authed.GET("/me", authHandler.Me)

		rounds := authed.Group("/rounds")
		{
			rounds.GET("", roundHandler.ListRounds)
			rounds.POST("", middleware.RequireRole(models.RoleAdmin), roundHandler.CreateRound)
			rounds.GET("/:id", roundHandler.GetRound)
			rounds.GET("/:id/active", roundHandler.IsRoundActive)
		}

		authed.POST("/taps/:roundId", tapHandler.Tap)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		err := bus.Subscribe(gctx, hub.HandleTapEvent)
		if err != nil && gctx.Err() == nil {
			// The feed is optional; keep serving taps without it.
			log.WithError(err).Error("tap feed subscription ended")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
}
