// Command seed creates the local SQLite database and fills it with a few
// sample tasks. Existing tasks are removed.
package main

import (
	"context"
	"flag"
	"log"

	"tasknest/models"
	"tasknest/store"
	"tasknest/utils"
)

type seedTask struct {
	Title string
	Done  bool
}

var defaultTasks = []seedTask{
	{Title: "Learn Go", Done: false},
	{Title: "Build a mini project", Done: false},
	{Title: "Deploy the server", Done: true},
}

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	path := flag.String("path", cfg.SQLitePath, "SQLite database file")
	flag.Parse()

	ctx := context.Background()
	st, err := store.OpenSQLite(ctx, *path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	if err := seed(ctx, st, defaultTasks); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	log.Printf("SQLite DB created at %s with %d tasks.", *path, len(defaultTasks))

	// a server caching this file must not keep serving the old rows
	if cfg.RedisURL != "" {
		client, err := utils.OpenRedisPool(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		sel := store.Selection{Backend: store.BackendSQLite, SQLitePath: *path}
		if err := store.ClearListCache(ctx, client, sel); err != nil {
			log.Fatalf("Failed to clear task cache: %v", err)
		}
	}
}

func seed(ctx context.Context, st *store.SQLiteStore, tasks []seedTask) error {
	if err := st.Reset(ctx); err != nil {
		return err
	}
	for _, t := range tasks {
		created, err := st.Add(ctx, t.Title)
		if err != nil {
			return err
		}
		if t.Done {
			done := true
			if _, err := st.Update(ctx, created.ID, models.TaskPatch{Done: &done}); err != nil {
				return err
			}
		}
	}
	return nil
}
