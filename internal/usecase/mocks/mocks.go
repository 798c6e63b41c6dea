package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

// MockTransaction is a mock implementation of Transaction. When created
// through a MockTransactionManager with registered stores, Rollback
// discards every write made since Begin.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	restore func()

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed && !t.RolledBack {
		t.RolledBack = true
		if t.restore != nil {
			t.restore()
		}
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// Registered stores are snapshotted on Begin so a Rollback restores them,
// mirroring the all-or-nothing visibility of a real transaction.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	accountRepo *MockAccountRepository
	entryRepo   *MockEntryRepository
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

// WithStores registers the in-memory repositories whose state a Rollback
// must restore.
func (m *MockTransactionManager) WithStores(accounts *MockAccountRepository, entries *MockEntryRepository) *MockTransactionManager {
	m.accountRepo = accounts
	m.entryRepo = entries
	return m
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	var restores []func()
	if m.accountRepo != nil {
		snap := m.accountRepo.snapshot()
		repo := m.accountRepo
		restores = append(restores, func() { repo.restore(snap) })
	}
	if m.entryRepo != nil {
		snap := m.entryRepo.snapshot()
		repo := m.entryRepo
		restores = append(restores, func() { repo.restore(snap) })
	}
	if len(restores) > 0 {
		tx.restore = func() {
			for _, fn := range restores {
				fn()
			}
		}
	}
	return tx, nil
}

// MockAccountRepository is a mock implementation of AccountRepository
// backed by an in-memory map. Individual methods can be overridden via
// the corresponding Func fields.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByOwnerFunc       func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account directly, bypassing any Func override.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// snapshot copies account values, not pointers, because UpdateBalance
// mutates stored accounts in place.
func (m *MockAccountRepository) snapshot() map[string]domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Account, len(m.accounts))
	for id, acc := range m.accounts {
		snap[id] = *acc
	}
	return snap
}

func (m *MockAccountRepository) restore(snap map[string]domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = make(map[string]*domain.Account, len(snap))
	for id := range snap {
		acc := snap[id]
		m.accounts[id] = &acc
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var accounts []*domain.Account
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(accounts) >= limit {
			break
		}
		accounts = append(accounts, m.accounts[id])
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	all, err := m.List(ctx, 1000, 0)
	if err != nil {
		return nil, err
	}
	var accounts []*domain.Account
	for _, acc := range all {
		if acc.OwnerID == ownerID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// MockEntryRepository is a mock implementation of EntryRepository backed
// by in-memory maps, including the reference index.
type MockEntryRepository struct {
	mu          sync.RWMutex
	entries     map[string]*domain.Entry
	byAccount   map[string][]*domain.Entry
	byReference map[string][]*domain.Entry

	CreateFunc                  func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc                 func(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdateFunc        func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error)
	GetByAccountFunc            func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	GetByReferenceFunc          func(ctx context.Context, reference string) ([]*domain.Entry, error)
	GetByReferenceForUpdateFunc func(ctx context.Context, tx usecase.Transaction, reference string) ([]*domain.Entry, error)
	UpdateStatusFunc            func(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error
	SumCompletedByAccountFunc   func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries:     make(map[string]*domain.Entry),
		byAccount:   make(map[string][]*domain.Entry),
		byReference: make(map[string][]*domain.Entry),
	}
}

// entrySnapshot captures entry values plus the insertion order of both
// indexes, by id, so restore can rebuild consistent pointer lists.
type entrySnapshot struct {
	entries     map[string]domain.Entry
	byAccount   map[string][]string
	byReference map[string][]string
}

func (m *MockEntryRepository) snapshot() *entrySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := &entrySnapshot{
		entries:     make(map[string]domain.Entry, len(m.entries)),
		byAccount:   make(map[string][]string, len(m.byAccount)),
		byReference: make(map[string][]string, len(m.byReference)),
	}
	for id, entry := range m.entries {
		snap.entries[id] = *entry
	}
	for accountID, list := range m.byAccount {
		ids := make([]string, len(list))
		for i, entry := range list {
			ids[i] = entry.ID
		}
		snap.byAccount[accountID] = ids
	}
	for reference, list := range m.byReference {
		ids := make([]string, len(list))
		for i, entry := range list {
			ids[i] = entry.ID
		}
		snap.byReference[reference] = ids
	}
	return snap
}

func (m *MockEntryRepository) restore(snap *entrySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*domain.Entry, len(snap.entries))
	for id := range snap.entries {
		entry := snap.entries[id]
		m.entries[id] = &entry
	}
	m.byAccount = make(map[string][]*domain.Entry, len(snap.byAccount))
	for accountID, ids := range snap.byAccount {
		list := make([]*domain.Entry, len(ids))
		for i, id := range ids {
			list[i] = m.entries[id]
		}
		m.byAccount[accountID] = list
	}
	m.byReference = make(map[string][]*domain.Entry, len(snap.byReference))
	for reference, ids := range snap.byReference {
		list := make([]*domain.Entry, len(ids))
		for i, id := range ids {
			list[i] = m.entries[id]
		}
		m.byReference[reference] = list
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.byAccount[entry.AccountID] = append(m.byAccount[entry.AccountID], entry)
	if entry.Reference != "" {
		m.byReference[entry.Reference] = append(m.byReference[entry.Reference], entry)
	}
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.entries[id]; ok {
		return entry, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.GetByAccountFunc != nil {
		return m.GetByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.byAccount[accountID]
	// Newest first; insertion order breaks ties because appends preserve it.
	var entries []*domain.Entry
	for i := len(stored) - 1; i >= 0; i-- {
		entries = append(entries, stored[i])
	}
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockEntryRepository) GetByReference(ctx context.Context, reference string) ([]*domain.Entry, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, reference)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Entry(nil), m.byReference[reference]...), nil
}

func (m *MockEntryRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, reference string) ([]*domain.Entry, error) {
	if m.GetByReferenceForUpdateFunc != nil {
		return m.GetByReferenceForUpdateFunc(ctx, tx, reference)
	}
	return m.GetByReference(ctx, reference)
}

func (m *MockEntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	entry.Status = status
	return nil
}

func (m *MockEntryRepository) SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumCompletedByAccountFunc != nil {
		return m.SumCompletedByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, entry := range m.byAccount[accountID] {
		if entry.Status == domain.EntryStatusCompleted {
			sum = sum.Add(entry.Amount)
		}
	}
	return sum, nil
}

// MockIDGenerator is a deterministic mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
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
	m.counter++
	return fmt.Sprintf("id-%06d", m.counter)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	GetByIDFunc func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Seed(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUnauthorized
}

// MockOutboxRepository records outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) >= limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

// MockAuditRepository records audit logs in memory.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditLog(nil), m.Logs...), nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	AccountDriftsFunc  func(ctx context.Context) ([]usecase.AccountDrift, error)
	CurrencyTotalsFunc func(ctx context.Context) (map[string]decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) AccountDrifts(ctx context.Context) ([]usecase.AccountDrift, error) {
	if m.AccountDriftsFunc != nil {
		return m.AccountDriftsFunc(ctx)
	}
	return nil, nil
}

func (m *MockLedgerRepository) CurrencyTotals(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.CurrencyTotalsFunc != nil {
		return m.CurrencyTotalsFunc(ctx)
	}
	return map[string]decimal.Decimal{}, nil
}
