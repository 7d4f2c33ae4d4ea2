package models

import "time"

type Task struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Done      bool      `json:"done" db:"done"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Done == nil
}
