package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"tasknest/models"
)

var errListChanged = errors.New("task list changed while loading")

// ListCacheKey names the cached list of one durable store. The key carries a
// hash of the DSN or the absolute SQLite path, so two databases never share
// an entry.
func ListCacheKey(sel Selection) string {
	id := sel.DatabaseURL
	if sel.Backend == BackendSQLite {
		id = sel.SQLitePath
		if abs, err := filepath.Abs(sel.SQLitePath); err == nil {
			id = abs
		}
	}
	sum := sha256.Sum256([]byte(id))
	return fmt.Sprintf("tasks:%s:%s:list", sel.Backend, hex.EncodeToString(sum[:8]))
}

func generationKey(listKey string) string {
	return listKey + ":gen"
}

// ClearListCache drops the cached list for sel and bumps its generation so a
// List already in flight does not write its result back. Anything that
// changes the database without going through a CachedStore calls this.
func ClearListCache(ctx context.Context, client *redis.Client, sel Selection) error {
	key := ListCacheKey(sel)
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear task list cache: %w", err)
	}
	return nil
}

// CachedStore serves List from Redis and drops the cached copy after every
// successful write. Redis failures during requests are logged and the call
// goes straight to the wrapped store.
//
// Every write bumps a generation counter. List remembers the generation it
// started with and only stores its result while the counter is unchanged.
type CachedStore struct {
	next   TaskStore
	client *redis.Client
	sel    Selection
	key    string
	genKey string
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedStore wraps a durable store. Whatever an earlier process left
// under the same key is discarded. The memory backend is refused: it lives
// in this process only, so a shared cache can only serve someone else's tasks.
func NewCachedStore(ctx context.Context, next TaskStore, client *redis.Client, sel Selection, ttl time.Duration, logger *log.Logger) (*CachedStore, error) {
	if sel.Ephemeral() {
		return nil, errors.New("the memory backend cannot be cached")
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := ClearListCache(ctx, client, sel); err != nil {
		return nil, err
	}
	key := ListCacheKey(sel)
	return &CachedStore{
		next:   next,
		client: client,
		sel:    sel,
		key:    key,
		genKey: generationKey(key),
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *CachedStore) List(ctx context.Context) ([]models.Task, error) {
	cached, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var tasks []models.Task
		if err := json.Unmarshal(cached, &tasks); err == nil && tasks != nil {
			return tasks, nil
		}
		c.logger.Println("discarding unreadable task cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Println("task cache read failed:", err)
	}

	// read the generation before the rows so a write racing with this List
	// is always noticed
	gen, genErr := c.generation(ctx, c.client)
	if genErr != nil {
		c.logger.Println("task cache read failed:", genErr)
	}

	tasks, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return tasks, nil
	}

	payload, err := json.Marshal(tasks)
	if err != nil {
		return tasks, nil
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errListChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, payload, c.ttl)
			return nil
		})
		return err
	}, c.genKey)
	switch {
	case err == nil, errors.Is(err, errListChanged), errors.Is(err, redis.TxFailedErr):
	default:
		c.logger.Println("task cache write failed:", err)
	}
	return tasks, nil
}

func (c *CachedStore) generation(ctx context.Context, cmd redis.Cmdable) (int64, error) {
	gen, err := cmd.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CachedStore) Get(ctx context.Context, id int64) (models.Task, error) {
	return c.next.Get(ctx, id)
}

func (c *CachedStore) Add(ctx context.Context, title string) (models.Task, error) {
	t, err := c.next.Add(ctx, title)
	if err != nil {
		return t, err
	}
	c.invalidate(ctx)
	return t, nil
}

func (c *CachedStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	t, err := c.next.Update(ctx, id, patch)
	if err != nil {
		return t, err
	}
	c.invalidate(ctx)
	return t, nil
}

func (c *CachedStore) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context) {
	if err := ClearListCache(ctx, c.client, c.sel); err != nil {
		c.logger.Println("task cache invalidation failed:", err)
	}
}

// Ping only checks the wrapped store; the cache is optional.
func (c *CachedStore) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Close closes the wrapped store. The Redis client is owned by the caller.
func (c *CachedStore) Close() error {
	return c.next.Close()
}
