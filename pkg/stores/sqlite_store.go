package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when an attempt does not exist.
var ErrNotFound = errors.New("attempt not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	cfg  Config
}

var _ Store = (*SQLiteStore)(nil)

// Config holds SQLite store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance. Call Init and Migrate
// before use.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 2
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	// Every connection to :memory: is a separate database.
	if cfg.Path == ":memory:" {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	return &SQLiteStore{
		path: cfg.Path,
		cfg:  cfg,
	}, nil
}

// Open creates, initializes and migrates a store in one call.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	store, err := NewSQLiteStore(Config{Path: path})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Init opens the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// HealthCheck verifies the database is reachable.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// RecordAttempt inserts a new attempt.
func (s *SQLiteStore) RecordAttempt(ctx context.Context, attempt *Attempt) error {
	if attempt.ID == "" || attempt.LessonID == "" {
		return fmt.Errorf("attempt id and lesson id are required")
	}

	query := `
		INSERT INTO attempts (id, lesson_id, track, mode, passed, message, script_path, script_digest, duration_ns, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.LessonID,
		attempt.Track,
		attempt.Mode,
		attempt.Passed,
		attempt.Message,
		attempt.ScriptPath,
		attempt.ScriptDigest,
		int64(attempt.Duration),
		attempt.StartedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	return nil
}

const attemptColumns = `id, lesson_id, track, mode, passed, message, script_path, script_digest, duration_ns, started_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*Attempt, error) {
	var (
		a         Attempt
		duration  int64
		startedAt int64
	)
	if err := row.Scan(
		&a.ID,
		&a.LessonID,
		&a.Track,
		&a.Mode,
		&a.Passed,
		&a.Message,
		&a.ScriptPath,
		&a.ScriptDigest,
		&duration,
		&startedAt,
	); err != nil {
		return nil, err
	}
	a.Duration = time.Duration(duration)
	a.StartedAt = time.Unix(0, startedAt)
	return &a, nil
}

// GetAttempt retrieves an attempt by ID.
func (s *SQLiteStore) GetAttempt(ctx context.Context, id string) (*Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE id = ?`

	attempt, err := scanAttempt(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return attempt, nil
}

// ListAttempts returns attempts newest first.
func (s *SQLiteStore) ListAttempts(ctx context.Context, filter AttemptFilter) ([]*Attempt, error) {
	var (
		where []string
		args  []any
	)
	if filter.LessonID != "" {
		where = append(where, "lesson_id = ?")
		args = append(args, filter.LessonID)
	}
	if filter.Mode != "" {
		where = append(where, "mode = ?")
		args = append(args, filter.Mode)
	}

	query := `SELECT ` + attemptColumns + ` FROM attempts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, id"

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := []*Attempt{}
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// Progress aggregates attempts per lesson, ordered by lesson ID.
func (s *SQLiteStore) Progress(ctx context.Context) ([]*LessonProgress, error) {
	query := `
		SELECT a.lesson_id, a.track, COUNT(*), SUM(a.passed), MAX(a.started_at),
		       (SELECT b.passed FROM attempts b
		         WHERE b.lesson_id = a.lesson_id
		         ORDER BY b.started_at DESC, b.id DESC LIMIT 1)
		FROM attempts a
		GROUP BY a.lesson_id, a.track
		ORDER BY a.lesson_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	progress := []*LessonProgress{}
	for rows.Next() {
		var (
			p    LessonProgress
			last int64
		)
		if err := rows.Scan(&p.LessonID, &p.Track, &p.Attempts, &p.Passes, &last, &p.LastPassed); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		p.LastAttempt = time.Unix(0, last)
		progress = append(progress, &p)
	}

	return progress, rows.Err()
}

// DeleteAttempts removes the history of one lesson, or all history when
// lessonID is empty. It returns the number of rows removed.
func (s *SQLiteStore) DeleteAttempts(ctx context.Context, lessonID string) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if lessonID == "" {
		result, err = s.db.ExecContext(ctx, `DELETE FROM attempts`)
	} else {
		result, err = s.db.ExecContext(ctx, `DELETE FROM attempts WHERE lesson_id = ?`, lessonID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to delete attempts: %w", err)
	}
	return result.RowsAffected()
}
