package service

import (
	"context"
	"slices"
	"sync"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID   map[int64]*domain.Account
	nextID int64
	saves  int   // number of successful Save calls
	err    error // if set, every call returns this error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Username == username })
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Email == email })
}

func (r *stubAccountRepo) findBy(match func(*domain.Account) bool) (*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.byID {
		if match(a) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	clone := cloneAccount(account)
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	r.byID[clone.ID] = clone
	r.saves++
	return cloneAccount(clone), nil
}

// put seeds an account directly, bypassing the service.
func (r *stubAccountRepo) put(a *domain.Account) {
	if a.ID > r.nextID {
		r.nextID = a.ID
	}
	r.byID[a.ID] = cloneAccount(a)
}

type stubProductRepo struct {
	byID       map[int64]*domain.Product
	nextID     int64
	saves      int
	lastFilter ports.ListProductsFilter
	err        error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[int64]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) ListOwnedIDs(_ context.Context, accountID int64) ([]int64, error) {
	if r.err != nil {
		return nil, r.err
	}
	var ids []int64
	for id, p := range r.byID {
		if p.OwnerID == accountID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *stubProductRepo) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	clone := cloneProduct(product)
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	r.byID[clone.ID] = clone
	r.saves++
	return cloneProduct(clone), nil
}

// List applies the same filters and ordering (id ascending) the real stores use.
func (r *stubProductRepo) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	r.lastFilter = f
	if r.err != nil {
		return nil, 0, r.err
	}

	var matched []*domain.Product
	for _, p := range r.byID {
		if f.OwnerID != 0 && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}
	slices.SortFunc(matched, func(a, b *domain.Product) int { return int(a.ID - b.ID) })

	total := int64(len(matched))
	start := min(f.Page*f.Limit, len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r *stubProductRepo) put(p *domain.Product) {
	if p.ID > r.nextID {
		r.nextID = p.ID
	}
	r.byID[p.ID] = cloneProduct(p)
}

// captureSink records every activity event it receives.
type captureSink struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	err    error
}

func (s *captureSink) Record(_ context.Context, e domain.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *captureSink) types() []domain.ActivityType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ActivityType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

// countingHasher records how often the wrapped hasher is used.
type countingHasher struct {
	ports.PasswordHasher
	hashes   int
	verifies int
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.hashes++
	return h.PasswordHasher.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(plaintext, digest)
}
