// Package worker keeps the derived side of the system fresh: it consumes
// change events from the bus, recomputes wallet balances into the
// wallet_balances read cache, and mirrors new transactions to the spreadsheet
// backup. Everything it writes is recomputable; losing the worker loses no
// data.
package worker

import (
	"context"
	"fmt"
	"time"

	"moco/internal/amqp"
	"moco/internal/core"
	"moco/internal/log"
)

// Store is the slice of the repository the worker needs.
type Store interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	ListWallets(ctx context.Context, userID string) ([]core.Wallet, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	UpsertWalletBalance(ctx context.Context, walletID string, balance int64, refreshedAt time.Time) error
	ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkTransactionExported(ctx context.Context, id string) error
}

// Exporter mirrors a transaction to the external backup. Nil disables export.
type Exporter interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
}

const exportBatchSize = 50

type BalanceWorker struct {
	store    Store
	exporter Exporter
	logger   *log.Logger
}

func NewBalanceWorker(store Store, exporter Exporter, logger *log.Logger) *BalanceWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &BalanceWorker{
		store:    store,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange reacts to one change event. Balance-affecting tables trigger a
// per-user refresh; new or changed transactions additionally trigger an
// export pass. Errors propagate so the bus redelivers the event.
func (w *BalanceWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.logger.DebugContext(ctx, "Processing change event",
		log.FieldTable, msg.Table,
		log.FieldOperation, msg.Op,
		log.FieldEntityID, msg.EntityID,
		log.FieldUserID, msg.UserID)

	if msg.AffectsBalances() {
		if err := w.RefreshUser(ctx, msg.UserID); err != nil {
			return fmt.Errorf("refresh balances for user %s: %w", msg.UserID, err)
		}
	}
	if msg.Table == amqp.TableTransactions {
		if err := w.ExportPending(ctx); err != nil {
			return fmt.Errorf("export pending transactions: %w", err)
		}
	}
	return nil
}

// RefreshUser recomputes every wallet balance of one user from the full
// transaction history and writes the results into the read cache.
func (w *BalanceWorker) RefreshUser(ctx context.Context, userID string) error {
	wallets, err := w.store.ListWallets(ctx, userID)
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}
	if len(wallets) == 0 {
		return nil
	}
	txs, err := w.store.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	now := time.Now().UTC()
	for _, wallet := range wallets {
		balance := core.WalletBalance(txs, wallet.ID)
		if err := w.store.UpsertWalletBalance(ctx, wallet.ID, balance, now); err != nil {
			return fmt.Errorf("upsert balance for wallet %s: %w", wallet.ID, err)
		}
	}

	w.logger.InfoContext(ctx, "Refreshed wallet balances",
		log.FieldUserID, userID,
		"wallets", len(wallets))
	return nil
}

// RefreshAll recomputes balances for every known user. Used at startup and on
// the periodic tick as a backstop for lost bus messages.
func (w *BalanceWorker) RefreshAll(ctx context.Context) error {
	userIDs, err := w.store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, userID := range userIDs {
		if err := w.RefreshUser(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// ExportPending mirrors not-yet-exported transactions to the backup, oldest
// first. A failed append stops the pass; the remaining rows stay pending.
func (w *BalanceWorker) ExportPending(ctx context.Context) error {
	if w.exporter == nil {
		return nil
	}
	pending, err := w.store.ListUnexportedTransactions(ctx, exportBatchSize)
	if err != nil {
		return fmt.Errorf("list unexported transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	exported := 0
	for _, t := range pending {
		if err := w.exporter.AppendTransaction(ctx, t); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export transaction",
				log.FieldError, err,
				log.FieldEntityID, t.ID)
			return fmt.Errorf("export transaction %s: %w", t.ID, err)
		}
		if err := w.store.MarkTransactionExported(ctx, t.ID); err != nil {
			return fmt.Errorf("mark transaction exported: %w", err)
		}
		exported++
	}

	w.logger.InfoContext(ctx, "Exported transactions", "count", exported)
	return nil
}

// Run performs a startup refresh and export, then repeats both on every tick
// until ctx is cancelled.
func (w *BalanceWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.RefreshAll(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup balance refresh failed", log.FieldError, err)
	}
	if err := w.ExportPending(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup export failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Stopping periodic refresh", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshAll(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic balance refresh failed", log.FieldError, err)
			}
			if err := w.ExportPending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic export failed", log.FieldError, err)
			}
		}
	}
}
