package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/config"
	"github.com/nvandessel/corpsim/internal/imagegen"
	"github.com/nvandessel/corpsim/internal/llm"
	"github.com/nvandessel/corpsim/internal/logging"
	"github.com/nvandessel/corpsim/internal/pathutil"
	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/store"
)

// app bundles the collaborators a command needs. Build it with buildApp
// and release it with Close.
type app struct {
	cfg     *config.CorpsimConfig
	logger  *slog.Logger
	gen     llm.Client
	images  imagegen.Generator
	journal store.Journal
	trace   *logging.DayTrace
	session *session.Session
}

// loadConfig reads the file named by --config (or the default location),
// applies --log-level and validates the result.
func loadConfig(cmd *cobra.Command) (*config.CorpsimConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	applyValuationFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// buildApp wires the idea generator, image generator, journal and day trace
// into a fresh session.
func buildApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()),
	}

	a.gen, err = llm.NewClient(ctx, cfg.LLM.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("creating idea generator: %w", err)
	}

	if cfg.Image.Provider == "replicate" {
		if rc := imagegen.NewReplicateClient(cfg.Image.ReplicateConfig()); rc.Available() {
			a.images = rc
		}
	}

	if cfg.Journal.Enabled {
		journal, err := openJournal(cfg.Journal.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.journal = journal
	}

	if dir, err := store.GlobalCorpsimPath(); err == nil {
		a.trace = logging.NewDayTrace(dir, cfg.Logging.Level)
	}

	sessCfg, err := sessionConfig(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithDayTrace(a.trace),
	}
	if a.journal != nil {
		opts = append(opts, session.WithJournal(a.journal))
	}
	if a.images != nil {
		opts = append(opts, session.WithImageGenerator(a.images))
	}
	a.session = session.New(sessCfg, a.gen, opts...)

	a.logger.Debug("corpsim ready",
		"provider", cfg.LLM.Provider, "journal", cfg.Journal.Enabled, "images", a.images != nil)
	return a, nil
}

func openJournal(path string) (store.Journal, error) {
	if path == "" {
		if err := store.EnsureGlobalCorpsimDir(); err != nil {
			return nil, err
		}
		p, err := store.DefaultJournalPath()
		if err != nil {
			return nil, err
		}
		path = p
	} else {
		p, err := pathutil.ExpandHome(path)
		if err != nil {
			return nil, fmt.Errorf("journal path: %w", err)
		}
		path = p
	}
	journal, err := store.NewSQLiteJournal(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", pathutil.RedactPath(path), err)
	}
	return journal, nil
}

func sessionConfig(cfg *config.CorpsimConfig) (session.Config, error) {
	start, err := cfg.Simulation.Start()
	if err != nil {
		return session.Config{}, err
	}
	market, err := cfg.Simulation.MarketCondition()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Company:             cfg.Defaults.Company,
		Service:             cfg.Defaults.Service,
		ConventionalFeature: cfg.Defaults.ConventionalFeature,
		AIFeature:           cfg.Defaults.AIFeature,
		Start:               start,
		Market:              market,
		PERatio:             cfg.Simulation.PERatio,
	}, nil
}

// Close releases the journal, day trace and any provider connection.
func (a *app) Close() {
	if c, ok := a.gen.(llm.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("closing idea generator", "error", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("closing journal", "error", err)
		}
	}
	a.trace.Close()
}
