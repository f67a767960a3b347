package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/account-service/internal/logger"
)

const (
	appName       = "account-service"
	dbPingTimeout = 3 * time.Second
)

// parseDSN validates dsn and tags the connection with the service name so it
// shows up in pg_stat_activity.
func parseDSN(dsn string) (*pgx.ConnConfig, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}
	cc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB DSN: %w", err)
	}
	if cc.RuntimeParams == nil {
		cc.RuntimeParams = map[string]string{}
	}
	if _, ok := cc.RuntimeParams["application_name"]; !ok {
		cc.RuntimeParams["application_name"] = appName
	}
	return cc, nil
}

// NewDB opens a pgx-backed *sql.DB and pings it.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	cc, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cc)
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if debug {
		var ver string
		_ = db.QueryRowContext(ctx, "SHOW server_version").Scan(&ver)
		logger.Logger.Info().
			Str("host", cc.Host).
			Uint16("port", cc.Port).
			Str("db", cc.Database).
			Str("user", cc.User).
			Str("version", ver).
			Msg("db connected")
	}

	return db, nil
}
