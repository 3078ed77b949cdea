package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hermanar_app/internal/config"
	"hermanar_app/internal/handlers"
	appmw "hermanar_app/internal/middleware"
	"hermanar_app/internal/repository"
	"hermanar_app/internal/services"
	"hermanar_app/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := services.InitDB(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := services.EnsureSchema(db); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}
	if err := services.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := services.AutoMigrateScheduler(db); err != nil {
		log.Fatal("failed to migrate scheduler tables", zap.Error(err))
	}

	store := repository.NewStore(db)
	members := repository.NewMemberRepository(store)
	families := repository.NewFamilyRepository(store)
	dues := repository.NewDueRepository(store)

	var cache *services.RedisCache
	if cfg.RedisURL != "" {
		cache, err = services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	memberService := services.NewMemberService(members, families, log)
	statsService := services.NewStatsService(dues, cache)

	memberHandler := handlers.NewMemberHandler(members, memberService)
	familyHandler := handlers.NewFamilyHandler(families, members)
	dueHandler := handlers.NewDueHandler(dues, statsService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appmw.ErrorHandler
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	api.GET("/hermanos", memberHandler.List)
	api.POST("/hermanos", memberHandler.Create)
	api.POST("/hermanos/con-familia", memberHandler.CreateWithFamily)
	api.GET("/hermanos/:id", memberHandler.Get)
	api.PUT("/hermanos/:id", memberHandler.Update)
	api.DELETE("/hermanos/:id", memberHandler.Delete)
	api.POST("/hermanos/:id/baja", memberHandler.Deactivate)
	api.PUT("/hermanos/:id/familia", memberHandler.UpdateFamily)

	api.GET("/familias", familyHandler.List)
	api.POST("/familias", familyHandler.Create)
	api.GET("/familias/:id", familyHandler.Get)
	api.PUT("/familias/:id", familyHandler.Update)
	api.DELETE("/familias/:id", familyHandler.Delete)
	api.GET("/familias/:id/stats", familyHandler.Stats)
	api.GET("/familias/:id/direccion", familyHandler.WithAddress)
	api.GET("/familias/:id/hermanos", familyHandler.Members)

	api.GET("/cuotas", dueHandler.List)
	api.POST("/cuotas", dueHandler.Create)
	api.PUT("/cuotas/:id", dueHandler.Update)
	api.DELETE("/cuotas/:id", dueHandler.Delete)
	api.POST("/cuotas/:id/pagar", dueHandler.MarkPaid)
	api.POST("/cuotas/generar", dueHandler.Generate)
	api.GET("/estadisticas", dueHandler.Statistics)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
