package store_test

import (
	"context"
	"errors"
	"testing"

	"tasknest/models"
	"tasknest/store"
)

func ptr[T any](v T) *T { return &v }

// runConformance checks the behavior every backend must share. newStore must
// return an empty store.
func runConformance(t *testing.T, newStore func(t *testing.T) store.TaskStore) {
	ctx := context.Background()

	t.Run("add then list", func(t *testing.T) {
		st := newStore(t)
		created, err := st.Add(ctx, "  Buy milk  ")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if created.ID == 0 || created.Title != "Buy milk" || created.Done {
			t.Fatalf("Add() = %+v", created)
		}
		if created.CreatedAt.IsZero() {
			t.Errorf("Add() did not set created_at")
		}

		tasks, err := st.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		count := 0
		for _, task := range tasks {
			if task.ID == created.ID {
				count++
				if task.Title != "Buy milk" || task.Done {
					t.Errorf("listed task = %+v", task)
				}
			}
		}
		if count != 1 {
			t.Errorf("task listed %d times, want 1", count)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		st := newStore(t)
		tasks, err := st.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("List() = %#v, want empty slice", tasks)
		}
	})

	t.Run("add rejects blank titles", func(t *testing.T) {
		st := newStore(t)
		for _, title := range []string{"", "   ", "\t\n"} {
			_, err := st.Add(ctx, title)
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Add(%q) error = %v, want ValidationError", title, err)
			}
		}
		tasks, _ := st.List(ctx)
		if len(tasks) != 0 {
			t.Errorf("blank adds created %d tasks", len(tasks))
		}
	})

	t.Run("ids are unique and ascending", func(t *testing.T) {
		st := newStore(t)
		var ids []int64
		for _, title := range []string{"a", "b", "c"} {
			task, err := st.Add(ctx, title)
			if err != nil {
				t.Fatalf("Add(%q) error = %v", title, err)
			}
			ids = append(ids, task.ID)
		}
		tasks, err := st.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Fatalf("List() returned %d tasks, want 3", len(tasks))
		}
		for i, task := range tasks {
			if task.ID != ids[i] {
				t.Errorf("tasks[%d].ID = %d, want %d", i, task.ID, ids[i])
			}
			if i > 0 && tasks[i-1].ID >= task.ID {
				t.Errorf("ids not ascending: %d then %d", tasks[i-1].ID, task.ID)
			}
		}
	})

	t.Run("toggle leaves title", func(t *testing.T) {
		st := newStore(t)
		created, _ := st.Add(ctx, "Walk dog")
		updated, err := st.Update(ctx, created.ID, models.TaskPatch{Done: ptr(true)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !updated.Done || updated.Title != "Walk dog" || updated.ID != created.ID {
			t.Errorf("Update() = %+v", updated)
		}
		updated, err = st.Update(ctx, created.ID, models.TaskPatch{Done: ptr(false)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Done {
			t.Errorf("Update(done=false) left done=true")
		}
	})

	t.Run("update unknown id", func(t *testing.T) {
		st := newStore(t)
		created, _ := st.Add(ctx, "keep me")
		_, err := st.Update(ctx, created.ID+100, models.TaskPatch{Title: ptr("x"), Done: ptr(true)})
		if !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("Update() error = %v, want ErrNotFound", err)
		}
		got, err := st.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "keep me" || got.Done {
			t.Errorf("existing task mutated: %+v", got)
		}
	})

	t.Run("update rejects blank title", func(t *testing.T) {
		st := newStore(t)
		created, _ := st.Add(ctx, "original")
		_, err := st.Update(ctx, created.ID, models.TaskPatch{Title: ptr("   ")})
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Update() error = %v, want ValidationError", err)
		}
		got, _ := st.Get(ctx, created.ID)
		if got.Title != "original" {
			t.Errorf("title changed to %q", got.Title)
		}
	})

	t.Run("empty patch returns current task", func(t *testing.T) {
		st := newStore(t)
		created, _ := st.Add(ctx, "same")
		got, err := st.Update(ctx, created.ID, models.TaskPatch{})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.ID != created.ID || got.Title != "same" || got.Done {
			t.Errorf("Update() = %+v", got)
		}
		if _, err := st.Update(ctx, created.ID+100, models.TaskPatch{}); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Update(unknown, empty) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("round trip title edit", func(t *testing.T) {
		st := newStore(t)
		created, _ := st.Add(ctx, "draft")
		if _, err := st.List(ctx); err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if _, err := st.Update(ctx, created.ID, models.TaskPatch{Title: ptr(" final ")}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		tasks, err := st.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("List() returned %d tasks, want 1", len(tasks))
		}
		got := tasks[0]
		if got.ID != created.ID || got.Title != "final" || got.Done != created.Done {
			t.Errorf("after edit = %+v, created = %+v", got, created)
		}
	})

	t.Run("delete twice", func(t *testing.T) {
		st := newStore(t)
		first, _ := st.Add(ctx, "first")
		second, _ := st.Add(ctx, "second")

		if err := st.Delete(ctx, first.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := st.Delete(ctx, first.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
		if _, err := st.Get(ctx, first.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
		}

		tasks, _ := st.List(ctx)
		if len(tasks) != 1 || tasks[0].ID != second.ID {
			t.Errorf("List() after delete = %+v", tasks)
		}
	})

	t.Run("ids are not reused", func(t *testing.T) {
		st := newStore(t)
		first, _ := st.Add(ctx, "first")
		if err := st.Delete(ctx, first.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		next, _ := st.Add(ctx, "next")
		if next.ID == first.ID {
			t.Errorf("id %d reused after delete", next.ID)
		}
	})

	t.Run("ping", func(t *testing.T) {
		st := newStore(t)
		if err := st.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
