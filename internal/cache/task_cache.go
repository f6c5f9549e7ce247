package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kavin1122/task-management/internal/model"
)

const keyProjectTasks = "tasks:project:%d"

// TaskCache caches per-project task listings in Redis. Writes to a
// project's tasks invalidate that project's entry.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetProjectTasks returns the cached listing or nil on miss.
func (c *TaskCache) GetProjectTasks(ctx context.Context, projectID int64) ([]model.Task, error) {
	b, err := c.rdb.Get(ctx, fmt.Sprintf(keyProjectTasks, projectID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetProjectTasks stores the listing.
func (c *TaskCache) SetProjectTasks(ctx context.Context, projectID int64, tasks []model.Task) error {
	b, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf(keyProjectTasks, projectID), b, c.ttl).Err()
}

// InvalidateProject drops the cached listing for one project.
func (c *TaskCache) InvalidateProject(ctx context.Context, projectID int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf(keyProjectTasks, projectID)).Err()
}
