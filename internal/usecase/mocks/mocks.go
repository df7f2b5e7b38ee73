package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// MockPositionRepository is a mock implementation of PositionRepository.
type MockPositionRepository struct {
	mu        sync.RWMutex
	positions map[string]*domain.Position

	ListOpenFunc      func(ctx context.Context, kind domain.PositionKind) ([]*domain.Position, error)
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Position, error)
	ListByOwnerFunc   func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Position, error)
	UpdateAccrualFunc func(ctx context.Context, id string, amount, accruedInterest decimal.Decimal, prevUpdate, now time.Time) error
}

func NewMockPositionRepository() *MockPositionRepository {
	return &MockPositionRepository{
		positions: make(map[string]*domain.Position),
	}
}

// Add seeds a position into the in-memory store.
func (m *MockPositionRepository) Add(pos *domain.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[pos.ID] = pos
}

func (m *MockPositionRepository) ListOpen(ctx context.Context, kind domain.PositionKind) ([]*domain.Position, error) {
	if m.ListOpenFunc != nil {
		return m.ListOpenFunc(ctx, kind)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Position
	for _, pos := range m.positions {
		if pos.Kind == kind && pos.IsOpen() {
			out = append(out, pos)
		}
	}
	return out, nil
}

func (m *MockPositionRepository) GetByID(ctx context.Context, id string) (*domain.Position, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pos, ok := m.positions[id]; ok {
		return pos, nil
	}
	return nil, domain.ErrPositionNotFound
}

func (m *MockPositionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Position, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var owned []*domain.Position
	for _, pos := range m.positions {
		if pos.OwnerID == ownerID {
			owned = append(owned, pos)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (m *MockPositionRepository) UpdateAccrual(ctx context.Context, id string, amount, accruedInterest decimal.Decimal, prevUpdate, now time.Time) error {
	if m.UpdateAccrualFunc != nil {
		return m.UpdateAccrualFunc(ctx, id, amount, accruedInterest, prevUpdate, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[id]
	if !ok {
		return domain.ErrPositionNotFound
	}
	if !pos.LastUpdate.Equal(prevUpdate) {
		return domain.ErrStaleUpdate
	}
	pos.CurrentAmount = amount
	pos.AccruedInterest = accruedInterest
	pos.LastUpdate = now
	return nil
}

// MockLockRepository is a mock implementation of LockRepository.
type MockLockRepository struct {
	mu    sync.RWMutex
	locks map[string]*domain.Lock

	ListActiveFunc     func(ctx context.Context) ([]*domain.Lock, error)
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Lock, error)
	UpdateInterestFunc func(ctx context.Context, id string, accruedInterest decimal.Decimal, updatedAt time.Time) error
	MatureFunc         func(ctx context.Context, id string, finalInterest decimal.Decimal, maturedAt time.Time) error
}

func NewMockLockRepository() *MockLockRepository {
	return &MockLockRepository{
		locks: make(map[string]*domain.Lock),
	}
}

func (m *MockLockRepository) Add(lock *domain.Lock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[lock.ID] = lock
}

func (m *MockLockRepository) ListActive(ctx context.Context) ([]*domain.Lock, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Lock
	for _, lock := range m.locks {
		if lock.IsActive() {
			out = append(out, lock)
		}
	}
	return out, nil
}

func (m *MockLockRepository) GetByID(ctx context.Context, id string) (*domain.Lock, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lock, ok := m.locks[id]; ok {
		return lock, nil
	}
	return nil, domain.ErrLockNotFound
}

func (m *MockLockRepository) UpdateInterest(ctx context.Context, id string, accruedInterest decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateInterestFunc != nil {
		return m.UpdateInterestFunc(ctx, id, accruedInterest, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		return domain.ErrLockNotFound
	}
	if !lock.IsActive() {
		return domain.ErrLockNotActive
	}
	lock.AccruedInterest = accruedInterest
	lock.UpdatedAt = updatedAt
	return nil
}

func (m *MockLockRepository) Mature(ctx context.Context, id string, finalInterest decimal.Decimal, maturedAt time.Time) error {
	if m.MatureFunc != nil {
		return m.MatureFunc(ctx, id, finalInterest, maturedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		return domain.ErrLockNotFound
	}
	if !lock.IsActive() {
		return domain.ErrLockNotActive
	}
	lock.Status = domain.LockStatusMatured
	lock.AccruedInterest = finalInterest
	lock.UpdatedAt = maturedAt
	return nil
}

// MockPoolRepository is a mock implementation of PoolRepository.
type MockPoolRepository struct {
	mu    sync.RWMutex
	pools map[domain.PoolKey]*domain.PoolAggregate
	sums  map[domain.PoolKey][2]decimal.Decimal

	GetFunc          func(ctx context.Context, asset, chain string) (*domain.PoolAggregate, error)
	SumPositionsFunc func(ctx context.Context, asset, chain string) (decimal.Decimal, decimal.Decimal, error)
	UpsertFunc       func(ctx context.Context, agg *domain.PoolAggregate) error
}

func NewMockPoolRepository() *MockPoolRepository {
	return &MockPoolRepository{
		pools: make(map[domain.PoolKey]*domain.PoolAggregate),
		sums:  make(map[domain.PoolKey][2]decimal.Decimal),
	}
}

func (m *MockPoolRepository) Add(agg *domain.PoolAggregate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[domain.PoolKey{Asset: agg.Asset, Chain: agg.Chain}] = agg
}

// SetSums fixes what SumPositions reports for a pool.
func (m *MockPoolRepository) SetSums(asset, chain string, totalSupply, totalBorrowed decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sums[domain.PoolKey{Asset: asset, Chain: chain}] = [2]decimal.Decimal{totalSupply, totalBorrowed}
}

func (m *MockPoolRepository) Get(ctx context.Context, asset, chain string) (*domain.PoolAggregate, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, asset, chain)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if agg, ok := m.pools[domain.PoolKey{Asset: asset, Chain: chain}]; ok {
		return agg, nil
	}
	return nil, domain.ErrPoolNotFound
}

func (m *MockPoolRepository) SumPositions(ctx context.Context, asset, chain string) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumPositionsFunc != nil {
		return m.SumPositionsFunc(ctx, asset, chain)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sums, ok := m.sums[domain.PoolKey{Asset: asset, Chain: chain}]; ok {
		return sums[0], sums[1], nil
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *MockPoolRepository) Upsert(ctx context.Context, agg *domain.PoolAggregate) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, agg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[domain.PoolKey{Asset: agg.Asset, Chain: agg.Chain}] = agg
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "run-" + time.Now().UTC().Format("20060102") + "-" + string(rune('a'+m.next%26))
}

// MockRetrier is a pass-through Retrier.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
