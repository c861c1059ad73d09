package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallpaper-planner/internal/catalog/repository"
	"wallpaper-planner/internal/common/config"
	"wallpaper-planner/internal/common/logging"
	"wallpaper-planner/internal/common/middleware"
	"wallpaper-planner/internal/compositor"
	"wallpaper-planner/internal/planner/handlers"
	"wallpaper-planner/internal/session"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Wallpaper Planner
// ============================================================

func main() {
	cfg, cfgErr := config.Load()

	if err := logging.Init(cfg.Server.Environment); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.Named("main")

	if cfgErr != nil {
		log.Fatal("config", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ============================================================
	// Catalog
	// ============================================================

	db, err := repository.OpenSQLite(cfg.Catalog.DBPath)
	if err != nil {
		log.Fatal("open db", zap.String("path", cfg.Catalog.DBPath), zap.Error(err))
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(ctx, cfg.Catalog.Migrations, cfg.Catalog.Seed); err != nil {
		log.Fatal("init db", zap.Error(err))
	}

	// ============================================================
	// Compositor
	// ============================================================

	deps := map[string]handlers.Pinger{"catalog": repo}

	var cache compositor.Cache = compositor.NopCache{}
	if cfg.Redis.Addr != "" {
		rc := compositor.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("render cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
			deps["cache"] = rc
		}
	}

	client := compositor.NewClient(cfg.Compositor.URL, cfg.Compositor.Model, cfg.Compositor.Timeout)
	renderer := compositor.NewService(client, cache)

	// ============================================================
	// Sessions
	// ============================================================

	sessions := session.NewManager(cfg.Session.ReferenceCm, cfg.Compositor.APIKey)
	go sessions.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.TTL)

	sessionHandler := handlers.NewSessionHandler(
		sessions,
		repo,
		renderer,
		compositor.Constraints{AspectRatio: cfg.Compositor.AspectRatio, ImageSize: cfg.Compositor.ImageSize},
		handlers.ImageLimits{MaxBytes: cfg.Image.MaxSize, MaxEdge: cfg.Image.MaxEdge},
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "Wallpaper Planner",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	handlers.Mount(app, handlers.NewHealthHandler(deps), handlers.NewCatalogHandler(repo), sessionHandler)

	// ============================================================
	// Start Server
	// ============================================================

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Server.Port
	log.Info("wallpaper planner starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Environment),
		zap.String("model", cfg.Compositor.Model),
	)
	if err := app.Listen(addr); err != nil {
		log.Fatal("listen", zap.Error(err))
	}
}
