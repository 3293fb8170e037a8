// Package server parses server command flags and runs the game MCP
// server over stdio.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/louisbranch/groundbreak/internal/game/storage/memory"
	"github.com/louisbranch/groundbreak/internal/game/storage/sqlite"
	"github.com/louisbranch/groundbreak/internal/game/tuning"
	platformcmd "github.com/louisbranch/groundbreak/internal/platform/cmd"
	"github.com/louisbranch/groundbreak/internal/services/mcp/service"
)

// Config holds server command configuration.
type Config struct {
	DataDir     string `env:"GROUNDBREAK_DATA_DIR"     envDefault:"data"`
	JournalPath string `env:"GROUNDBREAK_JOURNAL_PATH"`
	TuningPath  string `env:"GROUNDBREAK_TUNING_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the board CSV files")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "sqlite journal path (empty keeps the journal in memory)")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "YAML tuning overrides (empty uses defaults)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the board content and serves the game over MCP stdio.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceServer, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	t := tuning.Default()
	if cfg.TuningPath != "" {
		var err error
		t, err = tuning.Load(cfg.TuningPath)
		if err != nil {
			return fmt.Errorf("load tuning: %w", err)
		}
	}

	provider, err := data.LoadDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load board data: %w", err)
	}

	var opts []engine.Option
	if cfg.JournalPath != "" {
		journal, err := sqlite.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				log.Printf("close journal: %v", err)
			}
		}()
		opts = append(opts, engine.WithJournal(journal))
	} else {
		opts = append(opts, engine.WithJournal(memory.NewJournal()))
	}

	game := engine.New(provider, t, opts...)

	server, err := service.New(game)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
