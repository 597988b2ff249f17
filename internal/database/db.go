package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/article-engagement-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// DB is the PostgreSQL handle shared by the comment and like stores
type DB struct {
	*sql.DB
	log zerolog.Logger
}

// New creates a new database connection with connection pooling
func New(cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := &DB{
		DB:  db,
		log: log.With().Str("component", "database").Logger(),
	}

	wrapper.log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return wrapper, nil
}

// migrator builds a migrate instance on one connection checked out of the
// pool. Closing it returns the connection and leaves the pool open.
func (db *DB) migrator(ctx context.Context, migrationsPath string) (*migrate.Migrate, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations brings the comments and article_likes schema up to date
func (db *DB) RunMigrations(migrationsPath string) error {
	m, err := db.migrator(context.Background(), migrationsPath)
	if err != nil {
		return err
	}
	defer db.closeMigrator(m)

	from, err := schemaVersion(m)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate schema from version %d: %w", from, err)
	}

	to, err := schemaVersion(m)
	if err != nil {
		return err
	}

	db.log.Info().
		Str("path", migrationsPath).
		Uint("from_version", from).
		Uint("to_version", to).
		Msg("Engagement schema ready")

	return nil
}

// MigrateDown rolls back the most recent schema migration
func (db *DB) MigrateDown(migrationsPath string) error {
	m, err := db.migrator(context.Background(), migrationsPath)
	if err != nil {
		return err
	}
	defer db.closeMigrator(m)

	from, err := schemaVersion(m)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back schema version %d: %w", from, err)
	}

	to, err := schemaVersion(m)
	if err != nil {
		return err
	}

	db.log.Warn().
		Uint("from_version", from).
		Uint("to_version", to).
		Msg("Engagement schema rolled back")

	return nil
}

func (db *DB) closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		db.log.Warn().AnErr("source_error", srcErr).AnErr("database_error", dbErr).
			Msg("Failed to release migrator")
	}
}

// schemaVersion returns the applied migration version, 0 for an empty
// database. A dirty version means a migration failed halfway and needs
// manual repair.
func schemaVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
