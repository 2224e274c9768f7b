package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// userDirectoryInMemory хранит профили пользователей в памяти.
type userDirectoryInMemory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserDirectory создаёт in-memory справочник пользователей.
func NewUserDirectory(users ...domain.User) domain.UserDirectory {
	dir := &userDirectoryInMemory{users: make(map[string]domain.User, len(users))}
	for _, user := range users {
		dir.users[user.ID] = user
	}
	return dir
}

func (d *userDirectoryInMemory) Get(_ context.Context, id string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (d *userDirectoryInMemory) Upsert(_ context.Context, user domain.User) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.users[user.ID] = user
	return user, nil
}

var _ domain.UserDirectory = (*userDirectoryInMemory)(nil)
