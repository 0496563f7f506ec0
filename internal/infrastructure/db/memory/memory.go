// Package memory provides mutex-guarded in-process stores. They honour the
// same contracts as the database adapters, including username and email
// uniqueness, and are meant for local runs and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// AccountRepository implements ports.AccountRepository in memory.
type AccountRepository struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Account
	nextID int64
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byID: make(map[int64]domain.Account)}
}

func (r *AccountRepository) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Username == username })
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Email == email })
}

func (r *AccountRepository) find(match func(domain.Account) bool) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if match(a) {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// Save inserts or replaces account. It fails with domain.ErrAccountAlreadyExists
// when another account holds the same username or email.
func (r *AccountRepository) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, other := range r.byID {
		if id == account.ID {
			continue
		}
		if other.Username == account.Username || other.Email == account.Email {
			return nil, domain.ErrAccountAlreadyExists
		}
	}

	saved := *account
	if saved.ID == 0 {
		r.nextID++
		saved.ID = r.nextID
	} else if _, ok := r.byID[saved.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	r.byID[saved.ID] = saved
	return &saved, nil
}

// ProductRepository implements ports.ProductRepository in memory.
type ProductRepository struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Product
	nextID int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: make(map[int64]domain.Product)}
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepository) ListOwnedIDs(_ context.Context, accountID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := []int64{}
	for id, p := range r.byID {
		if p.OwnerID == accountID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *ProductRepository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *product
	if saved.ID == 0 {
		r.nextID++
		saved.ID = r.nextID
	} else if _, ok := r.byID[saved.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	r.byID[saved.ID] = saved
	return &saved, nil
}

// List returns products ordered by id.
func (r *ProductRepository) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Product, 0)
	for _, p := range r.byID {
		if f.OwnerID != 0 && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		matched = append(matched, &p)
	}
	slices.SortFunc(matched, func(a, b *domain.Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	start := min(f.Page*f.Limit, len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}
