package services

import (
	"context"
	"time"

	"moco/internal/amqp"
	"moco/internal/core"
)

// Repository is the persistence surface the service needs. *storage.SQLiteRepository
// satisfies it; tests plug in an in-memory fake.
type Repository interface {
	CreateWallet(ctx context.Context, w core.Wallet) error
	ListWallets(ctx context.Context, userID string) ([]core.Wallet, error)
	UpdateWallet(ctx context.Context, w core.Wallet) error
	DeleteWallet(ctx context.Context, id, userID string) error
	WalletReferenced(ctx context.Context, id string) (bool, error)

	CreateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, id, userID string) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	ListTransactionsInRange(ctx context.Context, userID string, start, end time.Time) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID string) error

	CreateCategory(ctx context.Context, c core.Category) error
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, id, userID string) error

	CreateSubcategory(ctx context.Context, s core.Subcategory) error
	ListSubcategories(ctx context.Context, userID string) ([]core.Subcategory, error)
	UpdateSubcategory(ctx context.Context, s core.Subcategory) error
	DeleteSubcategory(ctx context.Context, id, userID string) error

	CreateGoal(ctx context.Context, g core.Goal) error
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, id, userID string) error

	CreateDebt(ctx context.Context, d core.Debt) error
	GetDebt(ctx context.Context, id, userID string) (core.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]core.Debt, error)
	UpdateDebt(ctx context.Context, d core.Debt) error
	DeleteDebt(ctx context.Context, id, userID string) error

	CreatePayment(ctx context.Context, p core.Payment) error
	ListPaymentsByDebt(ctx context.Context, debtID, userID string) ([]core.Payment, error)
	ListPayments(ctx context.Context, userID string) ([]core.Payment, error)
	DeletePayment(ctx context.Context, id, userID string) error
}

// Publisher pushes change events onto the bus. A nil publisher is allowed;
// writes then succeed without notifying the worker.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}
