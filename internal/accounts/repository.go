package accounts

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// ListFilter narrows List results. A zero Limit means no limit.
type ListFilter struct {
	Name   string
	Limit  int
	Offset int
}

// Repository stores accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id ID) (*Account, error)
	// List returns one page of accounts and the total number matching the filter.
	List(ctx context.Context, f ListFilter) ([]Account, int, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id ID) error
}

// MemoryRepository keeps accounts in insertion order in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[ID]Account
	order    []ID
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[ID]Account)}
}

func (m *MemoryRepository) Create(_ context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[a.ID] = *a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, id ID) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) List(_ context.Context, f ListFilter) ([]Account, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]Account, 0, len(m.order))
	for _, id := range m.order {
		a := m.accounts[id]
		if f.Name != "" && !strings.EqualFold(a.Name, f.Name) {
			continue
		}
		matched = append(matched, a)
	}

	total := len(matched)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return slices.Clone(matched[start:end]), total, nil
}

func (m *MemoryRepository) Update(_ context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; !ok {
		return nil
	}
	delete(m.accounts, id)
	m.order = slices.DeleteFunc(m.order, func(other ID) bool { return other == id })
	return nil
}
