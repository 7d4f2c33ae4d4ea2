package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tasknest/models"
	"tasknest/utils"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT ''
);`

// SQLiteStore keeps tasks in a local database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}

	// Files created by older tooling have no created_at column.
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info('tasks')")
	if err != nil {
		return fmt.Errorf("inspect tasks table: %w", err)
	}
	defer rows.Close()
	hasCreatedAt := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspect tasks table: %w", err)
		}
		if name == "created_at" {
			hasCreatedAt = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect tasks table: %w", err)
	}
	rows.Close()

	if !hasCreatedAt {
		if _, err := s.db.ExecContext(ctx, "ALTER TABLE tasks ADD COLUMN created_at TEXT NOT NULL DEFAULT ''"); err != nil {
			return fmt.Errorf("add created_at column: %w", err)
		}
	}

	// Rows written before the column existed get the time they were first
	// opened here; the real creation time is lost.
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, "UPDATE tasks SET created_at = ? WHERE created_at = ''", now); err != nil {
		return fmt.Errorf("backfill created_at: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t         models.Task
		done      int64
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Title, &done, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrNotFound
		}
		return models.Task{}, err
	}
	t.Done = done != 0
	if createdAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return models.Task{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		t.CreatedAt = ts.UTC()
	}
	return t, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	return scanTask(row)
}

func (s *SQLiteStore) Add(ctx context.Context, title string) (models.Task, error) {
	title, err := utils.ValidateTaskInput(title)
	if err != nil {
		return models.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	stmt := "INSERT INTO tasks (title, done, created_at) VALUES (?, 0, ?) RETURNING " + taskColumns
	t, err := scanTask(s.db.QueryRowContext(ctx, stmt, title, now))
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if err := utils.ValidatePatch(&patch); err != nil {
		return models.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var title, done any
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Done != nil {
		done = 0
		if *patch.Done {
			done = 1
		}
	}

	// NULL parameters keep the current column value.
	stmt := `UPDATE tasks
SET title = COALESCE(?, title), done = COALESCE(?, done)
WHERE id = ?
RETURNING ` + taskColumns
	return scanTask(s.db.QueryRowContext(ctx, stmt, title, done, id))
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Reset removes every task and restarts id assignment at 1.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'tasks'"); err != nil {
		return fmt.Errorf("reset id sequence: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
