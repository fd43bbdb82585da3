// Package memstore is an in-memory implementation of the repository surface,
// used by tests and for running the API without a database file.
package memstore

import (
	"context"
	"sync"
	"time"

	"moco/internal/core"
	"moco/internal/storage"
)

type MemStore struct {
	mu            sync.Mutex
	wallets       []core.Wallet
	transactions  []core.Transaction
	categories    []core.Category
	subcategories []core.Subcategory
	goals         []core.Goal
	debts         []core.Debt
	payments      []core.Payment
	balances      map[string]int64
	exported      map[string]bool
}

func New() *MemStore {
	return &MemStore{
		balances: make(map[string]int64),
		exported: make(map[string]bool),
	}
}

// Seed helpers for tests.

func (m *MemStore) SeedWallet(w core.Wallet)           { m.wallets = append(m.wallets, w) }
func (m *MemStore) SeedTransaction(t core.Transaction) { m.transactions = append(m.transactions, t) }
func (m *MemStore) SeedCategory(c core.Category)       { m.categories = append(m.categories, c) }
func (m *MemStore) SeedSubcategory(s core.Subcategory) { m.subcategories = append(m.subcategories, s) }
func (m *MemStore) SeedGoal(g core.Goal)               { m.goals = append(m.goals, g) }
func (m *MemStore) SeedDebt(d core.Debt)               { m.debts = append(m.debts, d) }
func (m *MemStore) SeedPayment(p core.Payment)         { m.payments = append(m.payments, p) }

// --- Wallets ---

func (m *MemStore) CreateWallet(_ context.Context, w core.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets = append(m.wallets, w)
	return nil
}

func (m *MemStore) ListWallets(_ context.Context, userID string) ([]core.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Wallet
	for _, w := range m.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateWallet(_ context.Context, w core.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.wallets {
		if m.wallets[i].ID == w.ID && m.wallets[i].UserID == w.UserID {
			m.wallets[i].Name = w.Name
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) DeleteWallet(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.wallets {
		if m.wallets[i].ID == id && m.wallets[i].UserID == userID {
			m.wallets = append(m.wallets[:i], m.wallets[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) WalletReferenced(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.WalletID == id || t.TransferFrom == id || t.TransferTo == id {
			return true, nil
		}
	}
	for _, g := range m.goals {
		if g.WalletID == id {
			return true, nil
		}
	}
	for _, d := range m.debts {
		if d.WalletID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- Transactions ---

func (m *MemStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *MemStore) GetTransaction(_ context.Context, id, userID string) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return core.Transaction{}, storage.ErrNotFound
}

func (m *MemStore) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemStore) ListTransactionsInRange(_ context.Context, userID string, start, end time.Time) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID && !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == t.ID && m.transactions[i].UserID == t.UserID {
			m.transactions[i] = t
			m.exported[t.ID] = false
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) DeleteTransaction(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id && m.transactions[i].UserID == userID {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) ListUnexportedTransactions(_ context.Context, limit int) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Transaction
	for _, t := range m.transactions {
		if !m.exported[t.ID] {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MemStore) MarkTransactionExported(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exported[id] = true
	return nil
}

// --- Budget categories ---

func (m *MemStore) CreateCategory(_ context.Context, c core.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, c)
	return nil
}

func (m *MemStore) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateCategory(_ context.Context, c core.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == c.ID && m.categories[i].UserID == c.UserID {
			m.categories[i] = c
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) DeleteCategory(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []core.Subcategory
	for _, s := range m.subcategories {
		if !(s.CategoryID == id && s.UserID == userID) {
			kept = append(kept, s)
		}
	}
	m.subcategories = kept
	for i := range m.categories {
		if m.categories[i].ID == id && m.categories[i].UserID == userID {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Budget subcategories ---

func (m *MemStore) CreateSubcategory(_ context.Context, s core.Subcategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subcategories = append(m.subcategories, s)
	return nil
}

func (m *MemStore) ListSubcategories(_ context.Context, userID string) ([]core.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Subcategory
	for _, s := range m.subcategories {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateSubcategory(_ context.Context, s core.Subcategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.subcategories {
		if m.subcategories[i].ID == s.ID && m.subcategories[i].UserID == s.UserID {
			m.subcategories[i] = s
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) DeleteSubcategory(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.subcategories {
		if m.subcategories[i].ID == id && m.subcategories[i].UserID == userID {
			m.subcategories = append(m.subcategories[:i], m.subcategories[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Goals ---

func (m *MemStore) CreateGoal(_ context.Context, g core.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append(m.goals, g)
	return nil
}

func (m *MemStore) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateGoal(_ context.Context, g core.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.goals {
		if m.goals[i].ID == g.ID && m.goals[i].UserID == g.UserID {
			m.goals[i] = g
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) DeleteGoal(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.goals {
		if m.goals[i].ID == id && m.goals[i].UserID == userID {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Debts and payments ---

func (m *MemStore) CreateDebt(_ context.Context, d core.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts = append(m.debts, d)
	return nil
}

func (m *MemStore) GetDebt(_ context.Context, id, userID string) (core.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.debts {
		if d.ID == id && d.UserID == userID {
			return d, nil
		}
	}
	return core.Debt{}, storage.ErrNotFound
}

func (m *MemStore) ListDebts(_ context.Context, userID string) ([]core.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Debt
	for _, d := range m.debts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateDebt(_ context.Context, d core.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.debts {
		if m.debts[i].ID == d.ID && m.debts[i].UserID == d.UserID {
			m.debts[i] = d
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) DeleteDebt(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []core.Payment
	for _, p := range m.payments {
		if !(p.DebtID == id && p.UserID == userID) {
			kept = append(kept, p)
		}
	}
	m.payments = kept
	for i := range m.debts {
		if m.debts[i].ID == id && m.debts[i].UserID == userID {
			m.debts = append(m.debts[:i], m.debts[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *MemStore) CreatePayment(_ context.Context, p core.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, p)
	return nil
}

func (m *MemStore) ListPaymentsByDebt(_ context.Context, debtID, userID string) ([]core.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Payment
	for _, p := range m.payments {
		if p.DebtID == debtID && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemStore) ListPayments(_ context.Context, userID string) ([]core.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemStore) DeletePayment(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].ID == id && m.payments[i].UserID == userID {
			m.payments = append(m.payments[:i], m.payments[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// --- Worker support ---

func (m *MemStore) ListUserIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var ids []string
	for _, w := range m.wallets {
		if _, ok := seen[w.UserID]; !ok {
			seen[w.UserID] = struct{}{}
			ids = append(ids, w.UserID)
		}
	}
	return ids, nil
}

func (m *MemStore) UpsertWalletBalance(_ context.Context, walletID string, balance int64, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[walletID] = balance
	return nil
}

func (m *MemStore) CachedWalletBalance(_ context.Context, walletID string) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[walletID]
	if !ok {
		return 0, time.Time{}, storage.ErrNotFound
	}
	return balance, time.Now(), nil
}
