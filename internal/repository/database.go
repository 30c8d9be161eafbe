package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Database struct {
	db     *sql.DB
	logger *zap.Logger
}

type DatabaseConfig struct {
	Path   string
	Logger *zap.Logger
}

func NewDatabase(cfg DatabaseConfig) (*Database, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_txlock=immediate", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db, logger: logger}
	if err := database.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Database ready", zap.String("path", cfg.Path))
	return database, nil
}

// Migrate applies the embedded migrations. It only creates what is missing,
// existing rows are never dropped.
func (d *Database) Migrate() error {
	driver, err := migratesqlite.WithInstance(d.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			d.logger.Debug("Schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	d.logger.Info("Schema migrated", zap.Uint("version", version))
	return nil
}

func (d *Database) DB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return d.db.BeginTx(ctx, nil)
}

// WithTx runs fn inside one transaction. Any error or panic from fn rolls
// the transaction back.
func (d *Database) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.BeginTx(ctx)
	if err != nil {
		return &StoreError{Op: "begin transaction", Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Panic inside transaction, rolling back", zap.Any("panic", r))
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "commit transaction", Err: err}
	}
	return nil
}
