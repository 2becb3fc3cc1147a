package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"spendlog/internal/config"
	"spendlog/internal/database"
	"spendlog/internal/logger"
)

type cli struct {
	Path string `help:"Directory holding the SQL migrations." default:"migrations" type:"path"`

	Up      upCmd      `cmd:"" help:"Apply all pending migrations."`
	Down    downCmd    `cmd:"" help:"Roll back migrations."`
	Version versionCmd `cmd:"" help:"Print the current schema version."`
	Force   forceCmd   `cmd:"" help:"Set the schema version without running migrations, clearing the dirty flag."`
}

type upCmd struct{}

func (upCmd) Run(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	logger.Get().Info("Migrations applied successfully")
	return nil
}

type downCmd struct {
	Steps int `arg:"" optional:"" default:"1" help:"Number of migrations to roll back."`
}

func (c downCmd) Run(m *migrate.Migrate) error {
	if c.Steps < 1 {
		return fmt.Errorf("step count must be positive, got %d", c.Steps)
	}
	if err := m.Steps(-c.Steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	logger.Get().Infow("Rolled back migrations", "steps", c.Steps)
	return nil
}

type versionCmd struct{}

func (versionCmd) Run(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Get().Info("No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	logger.Get().Infow("Schema version", "version", version, "dirty", dirty)
	return nil
}

type forceCmd struct {
	Version int `arg:"" help:"Version to record."`
}

func (c forceCmd) Run(m *migrate.Migrate) error {
	if err := m.Force(c.Version); err != nil {
		return fmt.Errorf("force version failed: %w", err)
	}
	logger.Get().Infow("Forced schema version", "version", c.Version)
	return nil
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	var commands cli
	kctx := kong.Parse(&commands,
		kong.Name("migrate"),
		kong.Description("Manage the spendlog PostgreSQL schema."),
		kong.UsageOnError(),
	)

	if err := run(kctx, commands.Path); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(kctx *kong.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StoreDriver != config.StorePostgres {
		return fmt.Errorf("SQL migrations target postgres; STORE_DRIVER is %q", cfg.StoreDriver)
	}

	dbConfig := database.NewConfig(cfg)
	dbConfig.MigrationsPath = path
	m, err := migrate.New(dbConfig.SourceURL(), dbConfig.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnw("migrate source close error", "error", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnw("migrate database close error", "error", dbErr)
		}
	}()

	return kctx.Run(m)
}
