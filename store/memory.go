package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"tasknest/models"
	"tasknest/utils"
)

// MemoryStore keeps tasks in a map for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b models.Task) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, models.ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) Add(ctx context.Context, title string) (models.Task, error) {
	title, err := utils.ValidateTaskInput(title)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Task{
		ID:        s.nextID,
		Title:     title,
		Done:      false,
		CreatedAt: time.Now().UTC(),
	}
	s.tasks[t.ID] = t
	s.nextID++
	return t, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if err := utils.ValidatePatch(&patch); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, models.ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Done != nil {
		t.Done = *patch.Done
	}
	s.tasks[id] = t
	return t, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
