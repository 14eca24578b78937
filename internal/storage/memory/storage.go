package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jfellows/userdir/internal/model"
	"github.com/jfellows/userdir/internal/storage"
)

// Storage is an in-memory implementation of the store interface: a map
// keyed by id plus an insertion-order index, guarded by a single lock so
// mutations are serialized.
type Storage struct {
	mu    sync.RWMutex
	users map[int]model.User
	order []int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users: make(map[int]model.User),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) GetUser(ctx context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *Storage) FilterUsers(ctx context.Context, field, substring string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0)
	for _, id := range s.order {
		u := s.users[id]
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
	if len(s.order) == 0 {
		return nil, model.ErrEmptyStore
	}
	last := s.users[s.order[len(s.order)-1]]
	u := model.User{
		ID:          last.ID + 1,
		Username:    fields.Username,
		DisplayName: fields.DisplayName,
	}
	s.users[u.ID] = u
	s.order = append(s.order, u.ID)
	return &u, nil
}

func (s *Storage) ReplaceUser(ctx context.Context, id int, fields model.UserFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	s.users[id] = model.User{
		ID:          id,
		Username:    fields.Username,
		DisplayName: fields.DisplayName,
	}
	return nil
}

func (s *Storage) MergeUser(ctx context.Context, id int, patch model.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	s.users[id] = u
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Storage) UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) SeedUsers(ctx context.Context, users []model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[int]model.User, len(users))
	s.order = s.order[:0]
	for _, u := range users {
		s.users[u.ID] = u
		s.order = append(s.order, u.ID)
	}
	return nil
}
