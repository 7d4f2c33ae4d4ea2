// Package store persists tasks. Every backend implements TaskStore and must
// give the same results for the same calls.
package store

import (
	"context"
	"time"

	"tasknest/models"
)

// queryTimeout bounds every single storage call.
const queryTimeout = 10 * time.Second

type TaskStore interface {
	// List returns all tasks ordered by id. It never returns a nil slice.
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Add(ctx context.Context, title string) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}
