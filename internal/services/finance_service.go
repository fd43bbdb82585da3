// Package services orchestrates moco's use cases: it validates domain writes,
// persists them, publishes change events for the balance worker, and assembles
// the derived read models served over HTTP. All money math is delegated to the
// core package.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"moco/internal/amqp"
	"moco/internal/cache"
	"moco/internal/core"
	"moco/internal/log"
)

var (
	// ErrWalletInUse is returned when deleting a wallet that transactions,
	// goals or debts still reference.
	ErrWalletInUse = errors.New("wallet is referenced by existing records")
	// ErrOverAllocated is returned when expense category allocations would
	// exceed total budgeted income.
	ErrOverAllocated = errors.New("expense allocations exceed total income")
	// ErrSubOverAllocated is returned when a category's subcategory
	// allocations would exceed the category's own allocation.
	ErrSubOverAllocated = errors.New("subcategory allocations exceed parent allocation")
)

type FinanceService struct {
	repo       Repository
	publisher  Publisher
	dashboards *cache.LRUCache[DashboardView]
	logger     *log.Logger
}

func NewFinanceService(repo Repository, publisher Publisher, dashboards *cache.LRUCache[DashboardView], logger *log.Logger) *FinanceService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &FinanceService{
		repo:       repo,
		publisher:  publisher,
		dashboards: dashboards,
		logger:     logger.WithComponent(log.ComponentFinance),
	}
}

// publishChange notifies the bus about a row change. Publishing is best
// effort: the local write already succeeded, so a bus failure is logged and
// swallowed.
func (s *FinanceService) publishChange(ctx context.Context, table, op, entityID, userID string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewChangeMessage(table, op, entityID, userID)
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldError, err,
			log.FieldTable, table,
			log.FieldEntityID, entityID)
	}
}

// invalidate drops every cached view for the user.
func (s *FinanceService) invalidate(userID string) {
	if s.dashboards != nil {
		s.dashboards.DeletePrefix(userID + "|")
	}
}

// --- Wallets ---

func (s *FinanceService) CreateWallet(ctx context.Context, userID, name string) (core.Wallet, error) {
	w := core.Wallet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	if w.Name == "" {
		return core.Wallet{}, core.ErrEmptyName
	}
	if err := s.repo.CreateWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("create wallet: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableWallets, log.OpCreate, w.ID, userID)
	return w, nil
}

func (s *FinanceService) RenameWallet(ctx context.Context, userID, id, name string) (core.Wallet, error) {
	w := core.Wallet{ID: id, UserID: userID, Name: strings.TrimSpace(name)}
	if w.Name == "" {
		return core.Wallet{}, core.ErrEmptyName
	}
	if err := s.repo.UpdateWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("rename wallet: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableWallets, log.OpUpdate, id, userID)
	return w, nil
}

// DeleteWallet refuses to remove a wallet that is still referenced, so
// derived balances never point at ghosts.
func (s *FinanceService) DeleteWallet(ctx context.Context, userID, id string) error {
	referenced, err := s.repo.WalletReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("check wallet references: %w", err)
	}
	if referenced {
		return ErrWalletInUse
	}
	if err := s.repo.DeleteWallet(ctx, id, userID); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableWallets, log.OpDelete, id, userID)
	return nil
}

// --- Transactions ---

func (s *FinanceService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.invalidate(t.UserID)
	s.publishChange(ctx, amqp.TableTransactions, log.OpCreate, t.ID, t.UserID)
	return t, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.invalidate(t.UserID)
	s.publishChange(ctx, amqp.TableTransactions, log.OpUpdate, t.ID, t.UserID)
	return t, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidate(userID)
	s.publishChange(ctx, amqp.TableTransactions, log.OpDelete, id, userID)
	return nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id, userID)
}

func (s *FinanceService) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID)
}

// ListTransactionsForMonth returns the user's transactions within the given
// calendar month.
func (s *FinanceService) ListTransactionsForMonth(ctx context.Context, userID string, year int, month time.Month) ([]core.Transaction, error) {
	start, end := monthRange(year, month)
	return s.repo.ListTransactionsInRange(ctx, userID, start, end)
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (s *FinanceService) Close() error {
	type closer interface{ Close() error }

	var errs []error
	if c, ok := s.repo.(closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close finance service: %v", errs)
	}
	return nil
}
