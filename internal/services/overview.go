package services

import (
	"context"
	"fmt"
	"time"

	"moco/internal/core"
)

// WalletView pairs a wallet with its balance derived from the full
// transaction history.
type WalletView struct {
	core.Wallet
	Balance      int64  `json:"balance"`
	BalanceLabel string `json:"balance_label"`
}

// SubcategoryView is a subcategory row of the budget overview.
type SubcategoryView struct {
	core.Subcategory
	Allocated    int64 `json:"allocated"`
	Spent        int64 `json:"spent"`
	UsagePercent int   `json:"usage_percent"`
}

// CategoryView is a category row of the budget overview with its resolved
// allocation, the month's spending and the subcategory breakdown.
type CategoryView struct {
	core.Category
	Allocated     int64             `json:"allocated"`
	Spent         int64             `json:"spent"`
	UsagePercent  int               `json:"usage_percent"`
	Subcategories []SubcategoryView `json:"subcategories,omitempty"`
}

// BudgetView is the allocation plan evaluated against one calendar month of
// spending.
type BudgetView struct {
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	TotalIncome    int64          `json:"total_income"`
	TotalAllocated int64          `json:"total_allocated"`
	TotalSpent     int64          `json:"total_spent"`
	Categories     []CategoryView `json:"categories"`
}

// GoalView pairs a savings goal with its derived progress.
type GoalView struct {
	core.Goal
	Progress core.GoalProgress `json:"progress"`
}

// DebtView pairs a debt with its derived status and payment history.
type DebtView struct {
	core.Debt
	Status   core.DebtStatus `json:"status"`
	Payments []core.Payment  `json:"payments"`
}

// DashboardView is the combined home screen: wallet balances, the month's
// budget, cashflow totals, goals and debts.
type DashboardView struct {
	Wallets           []WalletView `json:"wallets"`
	TotalBalance      int64        `json:"total_balance"`
	TotalBalanceLabel string       `json:"total_balance_label"`
	MonthIncome       int64        `json:"month_income"`
	MonthExpense      int64        `json:"month_expense"`
	MonthNet          int64        `json:"month_net"`
	Budget            BudgetView   `json:"budget"`
	Goals             []GoalView   `json:"goals"`
	Debts             []DebtView   `json:"debts"`
}

// WalletsOverview computes every wallet's balance from the transaction set.
func (s *FinanceService) WalletsOverview(ctx context.Context, userID string) ([]WalletView, error) {
	wallets, err := s.repo.ListWallets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return walletViews(wallets, txs), nil
}

func walletViews(wallets []core.Wallet, txs []core.Transaction) []WalletView {
	views := make([]WalletView, 0, len(wallets))
	for _, w := range wallets {
		balance := core.WalletBalance(txs, w.ID)
		views = append(views, WalletView{
			Wallet:       w,
			Balance:      balance,
			BalanceLabel: core.FormatRupiah(balance),
		})
	}
	return views
}

// BudgetOverview evaluates the allocation plan against the given month's
// transactions.
func (s *FinanceService) BudgetOverview(ctx context.Context, userID string, year int, month time.Month) (BudgetView, error) {
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return BudgetView{}, fmt.Errorf("list categories: %w", err)
	}
	subs, err := s.repo.ListSubcategories(ctx, userID)
	if err != nil {
		return BudgetView{}, fmt.Errorf("list subcategories: %w", err)
	}
	start, end := monthRange(year, month)
	txs, err := s.repo.ListTransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return BudgetView{}, fmt.Errorf("list transactions: %w", err)
	}
	return budgetView(categories, subs, txs, year, month), nil
}

func budgetView(categories []core.Category, subs []core.Subcategory, txs []core.Transaction, year int, month time.Month) BudgetView {
	view := BudgetView{
		Year:        year,
		Month:       int(month),
		TotalIncome: core.TotalIncome(categories),
	}

	for _, cat := range categories {
		allocated := core.AllocatedForCategory(cat, view.TotalIncome, subs)
		spent := core.SpentForCategory(cat, subs, txs)
		cv := CategoryView{
			Category:     cat,
			Allocated:    allocated,
			Spent:        spent,
			UsagePercent: core.UsagePercent(spent, allocated),
		}
		for _, sub := range subs {
			if sub.CategoryID != cat.ID {
				continue
			}
			subAllocated := core.AllocatedForSubcategory(sub, allocated)
			subSpent := core.SpentForSubcategory(sub, txs)
			cv.Subcategories = append(cv.Subcategories, SubcategoryView{
				Subcategory:  sub,
				Allocated:    subAllocated,
				Spent:        subSpent,
				UsagePercent: core.UsagePercent(subSpent, subAllocated),
			})
		}
		if cat.Type == core.CategoryExpense {
			view.TotalAllocated += allocated
			view.TotalSpent += spent
		}
		view.Categories = append(view.Categories, cv)
	}
	return view
}

// GoalsOverview derives progress for every goal from the transaction history.
func (s *FinanceService) GoalsOverview(ctx context.Context, userID string) ([]GoalView, error) {
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return goalViews(goals, txs), nil
}

func goalViews(goals []core.Goal, txs []core.Transaction) []GoalView {
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, GoalView{Goal: g, Progress: core.GoalProgressFor(g, txs)})
	}
	return views
}

// DebtsOverview derives remaining balance and settlement status for every
// debt from its payment history.
func (s *FinanceService) DebtsOverview(ctx context.Context, userID string) ([]DebtView, error) {
	debts, err := s.repo.ListDebts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return debtViews(debts, payments), nil
}

func debtViews(debts []core.Debt, payments []core.Payment) []DebtView {
	byDebt := make(map[string][]core.Payment)
	for _, p := range payments {
		byDebt[p.DebtID] = append(byDebt[p.DebtID], p)
	}
	views := make([]DebtView, 0, len(debts))
	for _, d := range debts {
		views = append(views, DebtView{
			Debt:     d,
			Status:   core.DebtStatusFor(d, byDebt[d.ID]),
			Payments: byDebt[d.ID],
		})
	}
	return views
}

// DebtDetail returns one debt with its derived status and payments.
func (s *FinanceService) DebtDetail(ctx context.Context, userID, id string) (DebtView, error) {
	debt, err := s.repo.GetDebt(ctx, id, userID)
	if err != nil {
		return DebtView{}, fmt.Errorf("get debt: %w", err)
	}
	payments, err := s.repo.ListPaymentsByDebt(ctx, id, userID)
	if err != nil {
		return DebtView{}, fmt.Errorf("list payments: %w", err)
	}
	return DebtView{Debt: debt, Status: core.DebtStatusFor(debt, payments), Payments: payments}, nil
}

// Dashboard assembles the combined view for one calendar month. Results are
// cached per user and month until the next write invalidates them.
func (s *FinanceService) Dashboard(ctx context.Context, userID string, year int, month time.Month) (DashboardView, error) {
	key := fmt.Sprintf("%s|%04d-%02d", userID, year, int(month))
	if s.dashboards != nil {
		if view, ok := s.dashboards.Get(key); ok {
			return view, nil
		}
	}

	wallets, err := s.repo.ListWallets(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list wallets: %w", err)
	}
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list transactions: %w", err)
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list categories: %w", err)
	}
	subs, err := s.repo.ListSubcategories(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list subcategories: %w", err)
	}
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list goals: %w", err)
	}
	debts, err := s.repo.ListDebts(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list debts: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx, userID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("list payments: %w", err)
	}

	start, end := monthRange(year, month)
	var monthTxs []core.Transaction
	for _, t := range txs {
		if !t.Date.Before(start) && t.Date.Before(end) {
			monthTxs = append(monthTxs, t)
		}
	}

	view := DashboardView{
		Wallets: walletViews(wallets, txs),
		Budget:  budgetView(categories, subs, monthTxs, year, month),
		Goals:   goalViews(goals, txs),
		Debts:   debtViews(debts, payments),
	}
	for _, wv := range view.Wallets {
		view.TotalBalance += wv.Balance
	}
	view.TotalBalanceLabel = core.FormatRupiah(view.TotalBalance)
	for _, t := range monthTxs {
		switch t.Type {
		case core.TypeIncome:
			view.MonthIncome += t.Amount
		case core.TypeExpense:
			view.MonthExpense += t.Amount
		}
	}
	view.MonthNet = view.MonthIncome - view.MonthExpense

	if s.dashboards != nil {
		s.dashboards.Set(key, view)
	}
	return view, nil
}
