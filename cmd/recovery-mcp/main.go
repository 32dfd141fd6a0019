// Command recovery-mcp serves the recovery tools to an MCP client over stdio.
//
// Local mode reads the database named in the config file. Remote mode
// (-url) forwards every call to a running recoveryd, typically over Tailscale.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/recovery/internal/analysis"
	"github.com/claude/recovery/internal/catalog"
	"github.com/claude/recovery/internal/config"
	"github.com/claude/recovery/internal/mcp"
	"github.com/claude/recovery/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("url", "", "recoveryd base URL (remote mode)")
	apiKey := flag.String("key", os.Getenv("RECOVERY_AUTH_API_KEY"), "API key for remote mode")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("recovery-mcp", Version)
		return
	}

	// stdout carries the protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "url", *serverURL)
	} else {
		ctx := context.Background()
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		exercises, err := catalog.Bootstrap(ctx, cfg.Engine.CatalogPath)
		if err != nil {
			log.Error("failed to load exercise catalog", "path", cfg.Engine.CatalogPath, "error", err)
			os.Exit(1)
		}

		ds = analysis.NewService(db, exercises, cfg.Engine.UserID, cfg.Engine.Location(), log)
		log.Info("local mode", "timezone", cfg.Engine.Timezone)
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
