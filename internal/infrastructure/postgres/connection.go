// Package postgres provides the PostgreSQL data-access layer: the connection
// pool, the generic DAO and the per-entity DAOs built on it.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver with SCRAM-SHA-256 support
	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
)

// requiredTables must exist before the service accepts traffic.
var requiredTables = []string{
	"athletes", "coaches", "athlete_groups", "group_members",
	"enrollments", "anthropometric_tests", "physical_tests", "audit_logs",
}

// ErrSchemaMissing is returned when migrations have not been applied.
var ErrSchemaMissing = errors.New("database schema is missing tables")

// DB is the shared connection pool every DAO runs on.
type DB struct {
	*sql.DB
}

// NewConnection opens the pool, retrying the first ping while the database
// comes up, then checks that the schema has been migrated.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	pool, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := &DB{pool}
	if err := db.waitReady(ctx, cfg.ConnectAttempts, cfg.ConnectBackoff); err != nil {
		_ = pool.Close()
		return nil, err
	}
	if err := db.checkSchema(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return db, nil
}

func (db *DB) waitReady(ctx context.Context, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", backoff).Msg("Database not reachable yet")
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}

func (db *DB) checkSchema(ctx context.Context) error {
	var missing []string
	for _, table := range requiredTables {
		var found sql.NullString
		if err := db.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, table).Scan(&found); err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if !found.Valid {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v (run migrations first)", ErrSchemaMissing, missing)
	}
	return nil
}

// Close closes the pool.
func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	log.Info().Msg("Database connection closed")
	return nil
}

// Health pings the database and logs pool saturation when every
// connection is busy.
func (db *DB) Health(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	stats := db.Stats()
	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		log.Warn().
			Int("in_use", stats.InUse).
			Int64("wait_count", stats.WaitCount).
			Dur("wait_duration", stats.WaitDuration).
			Msg("Database pool exhausted")
	}
	return nil
}

// Transaction runs fn inside a transaction. The transaction is rolled back
// when fn returns an error or panics; the panic is re-raised afterwards.
func (db *DB) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
