package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// OpenPostgres connects through pgx's database/sql driver and runs the
// same migrations as SQLite. Repositories must be handed a
// Rebind-wrapped handle since queries are written with ? placeholders.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if err := Migrate(Rebind(db)); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Open opens the store named by dsn and returns the connection together
// with a DBTX suitable for repositories and a matching UnitOfWork.
func Open(ctx context.Context, dsn string) (*sql.DB, DBTX, UnitOfWork, error) {
	if DialectFor(dsn) == DialectPostgres {
		conn, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		return conn, Rebind(conn), NewPostgresUnitOfWork(conn), nil
	}

	conn, err := OpenDB(dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	return conn, conn, NewSQLiteUnitOfWork(conn), nil
}
