package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"linkbox/internal/config"
	"linkbox/internal/port"
)

// NewDB creates a new PostgreSQL connection pool. The password for every new
// physical connection is fetched from creds, so short-lived tokens are
// refreshed without the repositories knowing about it.
func NewDB(ctx context.Context, cfg *config.DBConfig, creds port.ConnCredentialProvider) (*sqlx.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSNWithPassword(""))
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connCfg, stdlib.OptionBeforeConnect(func(ctx context.Context, cc *pgx.ConnConfig) error {
		password, err := creds.Password(ctx)
		if err != nil {
			return fmt.Errorf("fetching connection credentials: %w", err)
		}
		cc.Password = password
		return nil
	}))

	db := sqlx.NewDb(sqlDB, "pgx")
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}
