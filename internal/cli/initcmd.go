package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calenhq/calen/internal/config"
	"github.com/calenhq/calen/internal/store/postgres"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and run database migrations",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("skip-migrate", false, "Only write the config file, do not touch the database")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get current directory: %w", err)
		}
		configPath = filepath.Join(cwd, configFileName)
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Config already exists: %s\n", configPath)
	} else {
		cfg = config.Default()
		cfg.Normalize()
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default config to %s\n", configPath)
	}

	if skip, _ := cmd.Flags().GetBool("skip-migrate"); skip || cfg.Store.Driver != "postgres" {
		return nil
	}

	logger := newLogger(cfg)
	db, err := postgres.Connect(ctx, cfg.Store.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database schema is up to date")
	fmt.Fprintln(out, "Database migrated.")
	return nil
}
