// Command console is a terminal front-end for playing a mystery case. It
// is the presentation layer: it issues engine commands, renders engine
// events, and gates input on the engine's conversation and phase queries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/halloway/gumshoe/internal/config"
	"github.com/halloway/gumshoe/internal/logger"
	"github.com/halloway/gumshoe/internal/storage"
	"github.com/halloway/gumshoe/pkg/casefile"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/engine"
	"github.com/halloway/gumshoe/pkg/events"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg)

	c, err := casefile.Load(filepath.Join(cfg.DataDir, cfg.CaseName))
	if err != nil {
		return fmt.Errorf("failed to load case: %w", err)
	}

	// The engine is cooperative and single-threaded; all timers fire from
	// the UI loop by advancing this scheduler on tick messages.
	sched := clock.NewManual(time.Now())
	bus := events.NewBus(log)

	var store storage.Store = storage.NewRedisStore(cfg.RedisAddr, 0, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Warn("snapshot store unavailable, session is memory-only", "error", err)
		store = storage.NewMockStore()
	}

	eng, err := buildEngine(c, store, bus, sched, log, cfg)
	if err != nil {
		return err
	}

	gateway := storage.NewGateway(store, bus, sched, eng.Snapshot,
		time.Duration(cfg.SaveDebounceUnits)*cfg.TimeUnit, log)
	gateway.Attach()

	ui := newUI(eng, bus, sched)
	p := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}

	gateway.Flush()
	return store.Close()
}

// buildEngine resumes the session named by SESSION_ID when a usable
// snapshot exists, and starts fresh otherwise.
func buildEngine(c *casefile.Case, store storage.Store, bus *events.Bus, sched clock.Scheduler, log *slog.Logger, cfg *config.Config) (*engine.Engine, error) {
	opts := engine.Options{TimeUnit: cfg.TimeUnit}

	if v := os.Getenv("SESSION_ID"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_ID: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := store.LoadSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			log.Info("resuming session", "id", id)
			return engine.Resume(c, snap, bus, sched, log, opts)
		}
		log.Warn("no saved state for session, starting fresh", "id", id)
	}
	return engine.NewSession(c, bus, sched, log, opts)
}
