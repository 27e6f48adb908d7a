// Package main is the entry point for the Bulk Change Engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/anthropics/bulkchange-engine/internal/builder"
	"github.com/anthropics/bulkchange-engine/internal/catalog"
	"github.com/anthropics/bulkchange-engine/internal/config"
	"github.com/anthropics/bulkchange-engine/internal/directory"
	"github.com/anthropics/bulkchange-engine/internal/impact"
	"github.com/anthropics/bulkchange-engine/internal/ipc"
	"github.com/anthropics/bulkchange-engine/internal/logger"
	"github.com/anthropics/bulkchange-engine/internal/store"
	"github.com/anthropics/bulkchange-engine/internal/workflow"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to configuration JSON file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bulkchange %s (commit=%s, built=%s)\n", version, commit, date)
		os.Exit(0)
	}

	// Optional .env for local development; missing files are fine.
	_ = godotenv.Load()

	// Resolve config path: --config flag > BC_CONFIG env > auto-discover.
	path := *configPath
	if path == "" {
		path = os.Getenv("BC_CONFIG")
	}
	if path == "" {
		path = discoverConfig()
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			fatal(fmt.Sprintf("load config: %v", err))
		}
		cfg = loaded
	}

	logger.Init(cfg.LogLevel, cfg.LogFile)

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		fatal(fmt.Sprintf("open database: %v", err))
	}
	defer db.Close()

	// Wire the domain services.
	dir := directory.Generate(cfg.DirectorySeed, cfg.DirectorySize)
	cat := catalog.New()
	engine := workflow.NewEngine(db)
	engine.ApprovalDueDays = cfg.ApprovalDueDays

	handler := &ipc.Handler{
		Engine:   engine,
		Builder:  builder.New(dir, cat),
		Catalog:  cat,
		Dir:      dir,
		Reporter: impact.NewReporter(cfg.DirectorySeed),
	}

	srv := ipc.NewServer(handler, cfg.ListenAddr)

	// Graceful shutdown on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Int("employees", dir.Len()).
		Msg("bulk change engine listening")

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		fatal(fmt.Sprintf("server error: %v", err))
	}
}

// discoverConfig looks for config.json next to the executable, then in the cwd.
func discoverConfig() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if _, err := os.Stat("config.json"); err == nil {
		return "config.json"
	}
	return ""
}

func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
	os.Exit(1)
}
