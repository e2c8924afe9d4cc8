package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/franchise-service/internal/config"
	"github.com/spec-kit/franchise-service/internal/domain"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			BcryptCost: bcrypt.MinCost,
		},
	}
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.Roles = append([]domain.Role(nil), u.Roles...)
	return &cp
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneUser(user), nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeSessionRepo struct {
	mu     sync.Mutex
	active map[string]int64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{active: make(map[string]int64)}
}

func (f *fakeSessionRepo) Record(_ context.Context, token string, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[token] = userID
	return nil
}

func (f *fakeSessionRepo) IsActive(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.active[token]
	return ok, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, token)
	return nil
}

func (f *fakeSessionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.active)
}

type fakeFranchiseRepo struct {
	mu         sync.Mutex
	nextID     int64
	franchises map[int64]*domain.Franchise
}

func newFakeFranchiseRepo() *fakeFranchiseRepo {
	return &fakeFranchiseRepo{franchises: make(map[int64]*domain.Franchise)}
}

func cloneFranchise(f *domain.Franchise) *domain.Franchise {
	cp := *f
	cp.AdminIDs = append([]int64(nil), f.AdminIDs...)
	cp.Stores = nil
	return &cp
}

func (f *fakeFranchiseRepo) Create(_ context.Context, franchise *domain.Franchise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	franchise.ID = f.nextID
	franchise.CreatedAt = time.Now()
	franchise.UpdatedAt = franchise.CreatedAt
	f.franchises[franchise.ID] = cloneFranchise(franchise)
	return nil
}

func (f *fakeFranchiseRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.franchises[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.franchises, id)
	return nil
}

func (f *fakeFranchiseRepo) GetByID(_ context.Context, id int64) (*domain.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	franchise, ok := f.franchises[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneFranchise(franchise), nil
}

func (f *fakeFranchiseRepo) List(_ context.Context) ([]domain.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Franchise
	for _, franchise := range f.franchises {
		result = append(result, *cloneFranchise(franchise))
	}
	return result, nil
}

func (f *fakeFranchiseRepo) ListByAdmin(_ context.Context, userID int64) ([]domain.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Franchise
	for _, franchise := range f.franchises {
		for _, adminID := range franchise.AdminIDs {
			if adminID == userID {
				result = append(result, *cloneFranchise(franchise))
				break
			}
		}
	}
	return result, nil
}

func (f *fakeFranchiseRepo) AdminIDs(_ context.Context, franchiseID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	franchise, ok := f.franchises[franchiseID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return append([]int64(nil), franchise.AdminIDs...), nil
}

func (f *fakeFranchiseRepo) AddAdmin(_ context.Context, franchiseID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	franchise, ok := f.franchises[franchiseID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, adminID := range franchise.AdminIDs {
		if adminID == userID {
			return nil
		}
	}
	franchise.AdminIDs = append(franchise.AdminIDs, userID)
	return nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	nextID int64
	stores map[int64]*domain.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[int64]*domain.Store)}
}

func (f *fakeStoreRepo) Create(_ context.Context, store *domain.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	store.ID = f.nextID
	store.CreatedAt = time.Now()
	store.UpdatedAt = store.CreatedAt
	cp := *store
	f.stores[store.ID] = &cp
	return nil
}

func (f *fakeStoreRepo) Delete(_ context.Context, franchiseID, storeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	store, ok := f.stores[storeID]
	if !ok || store.FranchiseID != franchiseID {
		return pgx.ErrNoRows
	}
	delete(f.stores, storeID)
	return nil
}

func (f *fakeStoreRepo) ListByFranchise(_ context.Context, franchiseID int64) ([]domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Store
	for _, store := range f.stores {
		if store.FranchiseID == franchiseID {
			result = append(result, *store)
		}
	}
	return result, nil
}
