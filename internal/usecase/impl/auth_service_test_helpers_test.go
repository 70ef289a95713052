package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"authd/internal/domain/entity"
	domainerrors "authd/internal/domain/errors"
	"authd/internal/domain/repository"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryUserRepository is an in-memory UserRepository with the same atomicity
// contract as the real store: the existence check and the insert happen under
// one lock, so concurrent creates for a username admit exactly one winner.
type memoryUserRepository struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID uint
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*entity.User)}
}

func (repo *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[user.Username]; ok {
		return domainerrors.ErrUsernameTaken.WrapMessage("username already exists")
	}

	repo.nextID++
	user.ID = repo.nextID
	user.CreatedAt = time.Now()

	stored := *user
	repo.users[user.Username] = &stored

	return nil
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	found := *user

	return &found, nil
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id uint) (*entity.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.ID == id {
			found := *user

			return &found, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (repo *memoryUserRepository) List(_ context.Context) ([]*entity.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users := make([]*entity.User, 0, len(repo.users))
	for _, user := range repo.users {
		users = append(users, &entity.User{
			ID:        user.ID,
			Name:      user.Name,
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
		})
	}

	return users, nil
}

func (repo *memoryUserRepository) Exists(_ context.Context, username string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	_, ok := repo.users[username]

	return ok, nil
}
