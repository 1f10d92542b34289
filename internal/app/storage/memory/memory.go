// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/app/storage"
	"github.com/kahit-saan/menu-service/internal/errors"
)

// Store is the in-memory store.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]menu.Item
	users  map[string]user.Account
}

var _ storage.MenuStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID: 1,
		items:  make(map[string]menu.Item),
		users:  make(map[string]user.Account),
	}
}

// Ids increment monotonically and are never handed out twice, so a deleted
// item's id stays dead.
func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// MenuStore implementation ----------------------------------------------------

func (s *Store) CreateItem(_ context.Context, item menu.Item) (menu.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = s.nextIDLocked()
	} else if _, exists := s.items[item.ID]; exists {
		return menu.Item{}, errors.Conflict("menu item %s already exists", item.ID)
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Photo = clonePhoto(item.Photo)

	s.items[item.ID] = item
	return cloneItem(item), nil
}

func (s *Store) UpdateItem(_ context.Context, item menu.Item) (menu.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.items[item.ID]
	if !ok {
		return menu.Item{}, errors.NotFound("menu item %s not found", item.ID)
	}

	item.CreatedAt = original.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	item.Photo = clonePhoto(item.Photo)

	s.items[item.ID] = item
	return cloneItem(item), nil
}

func (s *Store) GetItem(_ context.Context, id string) (menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return menu.Item{}, errors.NotFound("menu item %s not found", id)
	}
	return cloneItem(item), nil
}

func (s *Store) ListItems(_ context.Context) ([]menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(menu.Item) bool { return true }), nil
}

func (s *Store) ListItemsByCategory(_ context.Context, category menu.Category) ([]menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(item menu.Item) bool { return item.Category == category }), nil
}

func (s *Store) ListFeaturedItems(_ context.Context) ([]menu.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(item menu.Item) bool { return item.Featured }), nil
}

func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errors.NotFound("menu item %s not found", id)
	}
	delete(s.items, id)
	return nil
}

// collect returns matching items ordered by category then name ascending.
// Callers must hold at least a read lock.
func (s *Store) collect(match func(menu.Item) bool) []menu.Item {
	result := make([]menu.Item, 0, len(s.items))
	for _, item := range s.items {
		if match(item) {
			result = append(result, cloneItem(item))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, acct user.Account) (user.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == acct.Username {
			return user.Account{}, errors.Conflict("username %s already taken", acct.Username)
		}
	}

	if acct.ID == "" {
		acct.ID = s.nextIDLocked()
	} else if _, exists := s.users[acct.ID]; exists {
		return user.Account{}, errors.Conflict("user %s already exists", acct.ID)
	}

	acct.CreatedAt = time.Now().UTC()
	s.users[acct.ID] = acct
	return acct, nil
}

func (s *Store) UpdateUser(_ context.Context, acct user.Account) (user.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[acct.ID]
	if !ok {
		return user.Account{}, errors.NotFound("user %s not found", acct.ID)
	}
	for id, existing := range s.users {
		if id != acct.ID && existing.Username == acct.Username {
			return user.Account{}, errors.Conflict("username %s already taken", acct.Username)
		}
	}

	acct.CreatedAt = original.CreatedAt
	s.users[acct.ID] = acct
	return acct, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.users[id]
	if !ok {
		return user.Account{}, errors.NotFound("user %s not found", id)
	}
	return acct, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acct := range s.users {
		if acct.Username == username {
			return acct, nil
		}
	}
	return user.Account{}, errors.NotFound("user %s not found", username)
}

func (s *Store) ListUsers(_ context.Context) ([]user.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.Account, 0, len(s.users))
	for _, acct := range s.users {
		result = append(result, acct)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errors.NotFound("user %s not found", id)
	}
	delete(s.users, id)
	return nil
}

func cloneItem(item menu.Item) menu.Item {
	item.Photo = clonePhoto(item.Photo)
	return item
}

func clonePhoto(p *menu.Photo) *menu.Photo {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}
