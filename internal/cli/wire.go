package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/calenhq/calen/internal/assistant"
	"github.com/calenhq/calen/internal/auditlog"
	"github.com/calenhq/calen/internal/config"
	"github.com/calenhq/calen/internal/flow"
	"github.com/calenhq/calen/internal/llm"
	"github.com/calenhq/calen/internal/session"
	"github.com/calenhq/calen/internal/store"
	"github.com/calenhq/calen/internal/store/memory"
	"github.com/calenhq/calen/internal/store/postgres"
	"github.com/calenhq/calen/internal/transcribe"
)

const configFileName = "calen.yaml"

// app bundles everything a command needs after wiring.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   store.EventStore
	service *assistant.Service
	owner   string

	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp loads config, opens the store and assembles the assistant
// service for a command invocation.
func buildApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	owner, err := cmd.Flags().GetString("owner")
	if err != nil {
		return nil, err
	}

	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	a := &app{cfg: cfg, logger: logger, owner: owner}

	a.store, err = openStore(ctx, cfg, logger, a)
	if err != nil {
		return nil, err
	}

	completer := llm.NewExecCompleter(llm.ExecConfig{
		Command:        cfg.LLM.Command,
		Timeout:        time.Duration(cfg.LLM.TimeoutS) * time.Second,
		MaxOutputBytes: cfg.LLM.MaxOutputBytes,
	}, logger)

	orch := flow.New(a.store, completer, logger)

	opts := []assistant.Option{
		assistant.WithSessions(session.NewMemory()),
		assistant.WithTranscriber(transcribe.NewExec(
			cfg.Transcribe.Command,
			time.Duration(cfg.Transcribe.TimeoutS)*time.Second,
			logger,
		)),
	}
	if cfg.AuditLog != "" {
		audit, err := auditlog.Open(cfg.AuditLog, logger)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		a.closers = append(a.closers, func() { _ = audit.Close() })
		opts = append(opts, assistant.WithAuditLog(audit))
	}

	a.service = assistant.New(a.store, orch, logger, opts...)
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, a *app) (store.EventStore, error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.New(), nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Ready(ctx); err != nil {
			return nil, fmt.Errorf("postgres not ready: %w", err)
		}
		return postgres.NewEvents(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// loadConfig resolves the config file: explicit path, then a walk up the
// directory tree, then defaults.
func loadConfig(configPath string) (*config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, configPath, nil
	}

	foundPath, err := findConfigInTree()
	if err != nil {
		return nil, "", err
	}
	if foundPath != "" {
		cfg, err := config.Load(foundPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, foundPath, nil
	}

	cfg := config.Default()
	cfg.Normalize()
	return cfg, "", nil
}

// findConfigInTree searches up the directory tree for calen.yaml.
func findConfigInTree() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current directory: %w", err)
	}

	for {
		configPath := filepath.Join(dir, configFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// temporalNow derives the caller-supplied temporal context from the
// configured timezone.
func temporalNow(cfg *config.Config) (flow.TemporalContext, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return flow.TemporalContext{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	now := time.Now().In(loc)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return flow.TemporalContext{
		CurrentDatetime: now.Format(time.RFC3339),
		Weekday:         now.Weekday().String(),
		DaysInMonth:     firstOfMonth.AddDate(0, 1, -1).Day(),
	}, nil
}
