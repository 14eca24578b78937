package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jfellows/userdir/internal/model"
	"github.com/jfellows/userdir/internal/storage"
)

// Storage is a Redis-backed implementation of the store interface. Records
// are JSON values, insertion order lives in a list, and usernames are
// indexed for uniqueness checks.
type Storage struct {
	client *redis.Client
	cfg    Config

	// mu serializes mutations so two concurrent inserts never read the
	// same tail id from the order list.
	mu sync.Mutex
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) GetUser(ctx context.Context, id int) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	ids, err := s.client.LRange(ctx, orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, err
		}
		keys[i] = userKey(n)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]model.User, 0, len(values))
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			// Record expired or was removed between the list read and the
			// fetch; skip it.
			continue
		}
		var u model.User
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Storage) FilterUsers(ctx context.Context, field, substring string) ([]model.User, error) {
	all, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0)
	for _, u := range all {
		value, ok := u.FieldValue(field)
		if ok && strings.Contains(value, substring) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Storage) InsertUser(ctx context.Context, fields model.UserFields) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastID, err := s.client.LIndex(ctx, orderKey(), -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEmptyStore
		}
		return nil, err
	}

	last, err := strconv.Atoi(lastID)
	if err != nil {
		return nil, err
	}

	u := model.User{
		ID:          last + 1,
		Username:    fields.Username,
		DisplayName: fields.DisplayName,
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(u.ID), data, 0)
	pipe.RPush(ctx, orderKey(), strconv.Itoa(u.ID))
	pipe.Set(ctx, usernameIndexKey(u.Username), strconv.Itoa(u.ID), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) ReplaceUser(ctx context.Context, id int, fields model.UserFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	u := model.User{
		ID:          id,
		Username:    fields.Username,
		DisplayName: fields.DisplayName,
	}
	return s.saveUser(ctx, existing.Username, u)
}

func (s *Storage) MergeUser(ctx context.Context, id int, patch model.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	u := *existing
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	return s.saveUser(ctx, existing.Username, u)
}

// saveUser writes an updated record and keeps the username index in sync.
func (s *Storage) saveUser(ctx context.Context, oldUsername string, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(u.ID), data, 0)
	if oldUsername != u.Username {
		pipe.Del(ctx, usernameIndexKey(oldUsername))
		pipe.Set(ctx, usernameIndexKey(u.Username), strconv.Itoa(u.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, userKey(id))
	pipe.LRem(ctx, orderKey(), 1, strconv.Itoa(id))
	pipe.Del(ctx, usernameIndexKey(existing.Username))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return false, err
	}
	return id != excludeID, nil
}

func (s *Storage) SeedUsers(ctx context.Context, users []model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, u := range existing {
		pipe.Del(ctx, userKey(u.ID))
		pipe.Del(ctx, usernameIndexKey(u.Username))
	}
	pipe.Del(ctx, orderKey())
	for _, u := range users {
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(u.ID), data, 0)
		pipe.RPush(ctx, orderKey(), strconv.Itoa(u.ID))
		pipe.Set(ctx, usernameIndexKey(u.Username), strconv.Itoa(u.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}
