package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"linkbox/internal/config"
	"linkbox/internal/dbauth"
	"linkbox/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "Apply or revert the files table schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Migration source URL",
				Value:   "file://db/migrations",
				EnvVars: []string{"LINKBOX_MIGRATIONS_SOURCE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withMigrate(func(_ *cli.Context, m *migrate.Migrate, log zerolog.Logger) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("migration up failed: %w", err)
					}
					log.Info().Msg("migrations applied successfully")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "Revert all migrations",
				Action: withMigrate(func(_ *cli.Context, m *migrate.Migrate, log zerolog.Logger) error {
					if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("migration down failed: %w", err)
					}
					log.Info().Msg("migrations reverted successfully")
					return nil
				}),
			},
			{
				Name:      "steps",
				Usage:     "Apply (positive) or revert (negative) N migrations",
				ArgsUsage: "N",
				Action: withMigrate(func(c *cli.Context, m *migrate.Migrate, log zerolog.Logger) error {
					if c.NArg() < 1 {
						return errors.New("steps requires a number argument")
					}
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid steps argument: %w", err)
					}
					if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("migration steps failed: %w", err)
					}
					log.Info().Int("steps", n).Msg("migration steps applied")
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: withMigrate(func(_ *cli.Context, m *migrate.Migrate, _ zerolog.Logger) error {
					version, dirty, err := m.Version()
					if err != nil {
						return fmt.Errorf("failed to get version: %w", err)
					}
					fmt.Printf("version: %d, dirty: %v\n", version, dirty)
					return nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type migrateAction func(c *cli.Context, m *migrate.Migrate, log zerolog.Logger) error

// withMigrate opens a migrate instance against the configured database. With
// IAM auth the password is a freshly minted token.
func withMigrate(action migrateAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logger.New(cfg.Log)

		creds, err := dbauth.New(c.Context, &cfg.DB)
		if err != nil {
			return err
		}
		password, err := creds.Password(c.Context)
		if err != nil {
			return fmt.Errorf("failed to get database credentials: %w", err)
		}

		m, err := migrate.New(c.String("source"), cfg.DB.DSNWithPassword(password))
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer m.Close()

		return action(c, m, log)
	}
}
