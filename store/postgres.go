package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasknest/models"
	"tasknest/utils"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	done BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE tasks ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ NOT NULL DEFAULT now();
`

const taskColumns = "id, title, done, created_at"

type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore takes ownership of pool and creates the tasks table if it
// does not exist yet.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create tasks table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func collectTask(rows pgx.Rows) (models.Task, error) {
	t, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, models.ErrNotFound
		}
		return models.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	for i := range tasks {
		tasks[i].CreatedAt = tasks[i].CreatedAt.UTC()
	}
	return tasks, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	if err != nil {
		return models.Task{}, fmt.Errorf("query task: %w", err)
	}
	return collectTask(rows)
}

func (s *PostgresStore) Add(ctx context.Context, title string) (models.Task, error) {
	title, err := utils.ValidateTaskInput(title)
	if err != nil {
		return models.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := "INSERT INTO tasks (title, done) VALUES ($1, FALSE) RETURNING " + taskColumns
	rows, err := s.pool.Query(ctx, stmt, title)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return collectTask(rows)
}

func (s *PostgresStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if err := utils.ValidatePatch(&patch); err != nil {
		return models.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// NULL parameters keep the current column value.
	stmt := `UPDATE tasks
SET title = COALESCE($2::text, title), done = COALESCE($3::boolean, done)
WHERE id = $1
RETURNING ` + taskColumns
	rows, err := s.pool.Query(ctx, stmt, id, patch.Title, patch.Done)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return collectTask(rows)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
