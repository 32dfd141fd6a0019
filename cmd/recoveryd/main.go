package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/catalog"
	"github.com/claude/recovery/internal/config"
	"github.com/claude/recovery/internal/ingest/alpha"
	"github.com/claude/recovery/internal/ingest/fitfile"
	"github.com/claude/recovery/internal/ingest/hae"
	"github.com/claude/recovery/internal/server"
	"github.com/claude/recovery/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("recoveryd starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	catalogStore, err := catalog.Open(cfg.Engine.CatalogPath)
	if err != nil {
		log.Error("failed to open exercise catalog", "path", cfg.Engine.CatalogPath, "error", err)
		os.Exit(1)
	}
	defer catalogStore.Close()

	exercises, err := catalogStore.Prepare(ctx)
	if err != nil {
		log.Error("failed to load exercise catalog", "path", cfg.Engine.CatalogPath, "error", err)
		os.Exit(1)
	}
	log.Info("exercise catalog loaded", "exercises", exercises.Len())

	svc := analysis.NewService(db, exercises, cfg.Engine.UserID, cfg.Engine.Location(), log)

	ingesters := server.Ingesters{
		HAE:   hae.NewProvider(db, log),
		Alpha: alpha.NewProvider(db, svc.Location, log),
		FIT:   fitfile.NewProvider(db, log),
	}
	srv := server.New(svc, ingesters, cfg.Engine.UserID, cfg.Auth.APIKey, log)
	srv.SetCatalogEditor(catalog.NewEditor(catalogStore, func(c *catalog.Static) {
		log.Info("exercise catalog updated", "exercises", c.Len())
		svc.SetCatalog(c)
	}))

	// Only the engine timezone is applied live; everything else needs a restart.
	go func() {
		err := config.Watch(ctx, *configPath, log, func(next *config.Config) {
			loc := next.Engine.Location()
			if loc.String() != svc.Location().String() {
				log.Info("timezone changed", "from", svc.Location().String(), "to", loc.String())
			}
			svc.SetLocation(loc)
		})
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		}
	}()

	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
