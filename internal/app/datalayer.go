package app

import (
	"context"
	"sync"

	"github.com/lewisedginton/account_service/internal/accounts"
)

// DataLayer is the storage backend the service starts on.
type DataLayer interface {
	Init(ctx context.Context) error
	Ping(ctx context.Context) error
	Accounts() accounts.Repository
	Close()
}

// MemoryDataLayer keeps accounts in process memory. Init never fails.
type MemoryDataLayer struct {
	once sync.Once
	repo *accounts.MemoryRepository
}

// NewMemoryDataLayer creates an empty in-memory data layer
func NewMemoryDataLayer() *MemoryDataLayer {
	return &MemoryDataLayer{}
}

func (m *MemoryDataLayer) Init(context.Context) error {
	m.once.Do(func() { m.repo = accounts.NewMemoryRepository() })
	return nil
}

func (m *MemoryDataLayer) Ping(context.Context) error { return nil }

func (m *MemoryDataLayer) Accounts() accounts.Repository {
	_ = m.Init(context.Background())
	return m.repo
}

func (m *MemoryDataLayer) Close() {}

// deferredRepository resolves the data layer's repository on every call so
// routes can be registered before the data layer is initialised.
type deferredRepository struct {
	layer DataLayer
}

func (d deferredRepository) Create(ctx context.Context, a *accounts.Account) error {
	return d.layer.Accounts().Create(ctx, a)
}

func (d deferredRepository) Get(ctx context.Context, id accounts.ID) (*accounts.Account, error) {
	return d.layer.Accounts().Get(ctx, id)
}

func (d deferredRepository) List(ctx context.Context, f accounts.ListFilter) ([]accounts.Account, int, error) {
	return d.layer.Accounts().List(ctx, f)
}

func (d deferredRepository) Update(ctx context.Context, a *accounts.Account) error {
	return d.layer.Accounts().Update(ctx, a)
}

func (d deferredRepository) Delete(ctx context.Context, id accounts.ID) error {
	return d.layer.Accounts().Delete(ctx, id)
}
