package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/macrolens/intake/internal/domain"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenSQLite opens an existing SQLite database at the given path and runs
// migrations. A missing file is domain.ErrStoreNotFound; use CreateSQLite
// to start a new catalog.
func OpenSQLite(dbPath string, logger *slog.Logger) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if _, err := os.Stat(dbPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, dbPath)
			}
			return nil, fmt.Errorf("stat %s: %w", dbPath, err)
		}
	}
	return openSQLite(dbPath, logger)
}

// CreateSQLite opens the database at the given path, creating it when it
// does not exist yet, and runs migrations.
func CreateSQLite(dbPath string, logger *slog.Logger) (*sql.DB, error) {
	return openSQLite(dbPath, logger)
}

func openSQLite(dbPath string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping db: %v", domain.ErrStoreCorrupt, err)
	}

	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: run migrations: %v", domain.ErrStoreCorrupt, err)
	}

	return db, nil
}

func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(&migrationLogger{logger: logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// migrationLogger sends goose output to slog at debug level.
type migrationLogger struct {
	logger *slog.Logger
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (l *migrationLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}

// SQLiteStore keeps the catalog in the foods table, one row per food.
// Only the standard nutrients are persisted.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an opened, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns every row of the foods table.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]domain.NutrientRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, calories, total_fat, protein, carbohydrate, sugars FROM foods`)
	if err != nil {
		return nil, fmt.Errorf("%w: query foods: %v", domain.ErrStoreCorrupt, err)
	}
	defer rows.Close()

	foods := make(map[string]domain.NutrientRecord)
	for rows.Next() {
		var (
			name                                         string
			calories, fat, protein, carbohydrate, sugars float64
		)
		if err := rows.Scan(&name, &calories, &fat, &protein, &carbohydrate, &sugars); err != nil {
			return nil, fmt.Errorf("%w: scan food: %v", domain.ErrStoreCorrupt, err)
		}
		foods[name] = domain.NewNutrientRecord(calories, fat, protein, carbohydrate, sugars)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate foods: %v", domain.ErrStoreCorrupt, err)
	}

	return foods, nil
}

// Merge inserts or replaces the row for name, leaving all other rows alone.
func (s *SQLiteStore) Merge(ctx context.Context, name string, record domain.NutrientRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO foods (name, calories, total_fat, protein, carbohydrate, sugars)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     calories = excluded.calories,
		     total_fat = excluded.total_fat,
		     protein = excluded.protein,
		     carbohydrate = excluded.carbohydrate,
		     sugars = excluded.sugars,
		     updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		name,
		record[domain.NutrientCalories],
		record[domain.NutrientTotalFat],
		record[domain.NutrientProtein],
		record[domain.NutrientCarbohydrate],
		record[domain.NutrientSugars],
	)
	if err != nil {
		return fmt.Errorf("upsert food %q: %w", name, err)
	}
	return nil
}
