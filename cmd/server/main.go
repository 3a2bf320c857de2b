package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"blogly/internal/cache"
	"blogly/internal/config"
	"blogly/internal/db"
	"blogly/internal/handler"
	"blogly/internal/repository"
	"blogly/internal/router"
	"blogly/internal/service"
)

// @title Blogly API
// @version 1.0
// @description Users, posts and tags with integrity-preserving tag associations.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	setupLogging(cfg)

	slog.Info("starting blogly",
		slog.String("db_driver", cfg.DBDriver),
		slog.String("port", cfg.ServerPort),
		slog.String("user_delete_mode", cfg.UserDeleteMode),
	)

	gormDB, err := db.Open(cfg)
	if err != nil {
		slog.Error("database init", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		slog.Error("migrate", slog.Any("error", err))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	store := repository.NewStore(gormDB)
	coord := service.NewCoordinator(store, slog.Default())
	assoc := service.NewAssociationManager()

	policy := service.CascadePosts
	if !cfg.CascadeUserDelete() {
		policy = service.RestrictWithPosts
	}

	userService := service.NewUserService(store, coord, assoc, cacheClient, policy)
	postService := service.NewPostService(store, coord, assoc)
	tagService := service.NewTagService(store, coord, assoc)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		handler.NewUserHandler(userService, postService),
		handler.NewPostHandler(postService),
		handler.NewTagHandler(tagService),
	)

	slog.Info("swagger documentation available", slog.String("url", swaggerURL(cfg)))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server start", slog.Any("error", err))
		os.Exit(1)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	slog.Info("server stopped")
}

// setupLogging installs the default slog logger. LOG_FORMAT=text selects the
// human readable handler; anything else logs JSON.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
