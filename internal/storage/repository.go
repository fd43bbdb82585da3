// Package storage persists moco's user-owned rows in SQLite. The repository
// hands out snapshots for the calculation engine and never computes derived
// state itself; the only derived column it touches is the wallet_balances
// read cache, which the worker refreshes best-effort.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moco/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist for the given id and user.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Timestamps are stored as RFC3339 text; the zero time maps to an empty
// string so optional dates survive the round trip.
func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Wallets ---

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		w.ID, w.UserID, w.Name, encodeTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListWallets(ctx context.Context, userID string) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM wallets WHERE user_id = ? ORDER BY created_at, name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		var w core.Wallet
		var createdAt string
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		w.CreatedAt = decodeTime(createdAt)
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *SQLiteRepository) UpdateWallet(ctx context.Context, w core.Wallet) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET name = ? WHERE id = ? AND user_id = ?`,
		w.Name, w.ID, w.UserID)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteWallet(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wallets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return rowsAffected(res)
}

// WalletReferenced reports whether any transaction, goal or debt still points
// at the wallet. Deletion is refused while references exist.
func (r *SQLiteRepository) WalletReferenced(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM transactions WHERE wallet_id = ?1 OR transfer_from = ?1 OR transfer_to_id = ?1) +
			(SELECT COUNT(*) FROM goals WHERE wallet_id = ?1) +
			(SELECT COUNT(*) FROM debts WHERE wallet_id = ?1)`,
		id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check wallet references: %w", err)
	}
	return n > 0, nil
}

// --- Transactions ---

const transactionColumns = `id, user_id, type, amount, date, wallet_id, category_id, subcategory_id, transfer_from, transfer_to_id, note`

func (r *SQLiteRepository) scanTransaction(rows interface{ Scan(...any) error }) (core.Transaction, error) {
	var t core.Transaction
	var date string
	var walletID, categoryID, subcategoryID, transferFrom, transferTo sql.NullString
	err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &date,
		&walletID, &categoryID, &subcategoryID, &transferFrom, &transferTo, &t.Note)
	if err != nil {
		return t, err
	}
	t.Date = decodeTime(date)
	t.WalletID = walletID.String
	t.CategoryID = categoryID.String
	t.SubcategoryID = subcategoryID.String
	t.TransferFrom = transferFrom.String
	t.TransferTo = transferTo.String
	return t, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Type, t.Amount, encodeTime(t.Date),
		nullString(t.WalletID), nullString(t.CategoryID), nullString(t.SubcategoryID),
		nullString(t.TransferFrom), nullString(t.TransferTo), t.Note)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id, userID string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := r.scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the user's full transaction history, newest first.
// Balance computation always runs over this full set.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return r.collectTransactions(rows)
}

// ListTransactionsInRange returns transactions with start <= date < end.
func (r *SQLiteRepository) ListTransactionsInRange(ctx context.Context, userID string, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND date >= ? AND date < ? ORDER BY date DESC, id`,
		userID, encodeTime(start), encodeTime(end))
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	defer rows.Close()
	return r.collectTransactions(rows)
}

func (r *SQLiteRepository) collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, amount = ?, date = ?, wallet_id = ?, category_id = ?,
		 subcategory_id = ?, transfer_from = ?, transfer_to_id = ?, note = ?, exported = 0
		 WHERE id = ? AND user_id = ?`,
		t.Type, t.Amount, encodeTime(t.Date),
		nullString(t.WalletID), nullString(t.CategoryID), nullString(t.SubcategoryID),
		nullString(t.TransferFrom), nullString(t.TransferTo), t.Note,
		t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return rowsAffected(res)
}

// ListUnexportedTransactions returns transactions not yet mirrored to the
// spreadsheet backup, oldest first.
func (r *SQLiteRepository) ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE exported = 0 ORDER BY date, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported transactions: %w", err)
	}
	defer rows.Close()
	return r.collectTransactions(rows)
}

func (r *SQLiteRepository) MarkTransactionExported(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET exported = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction exported: %w", err)
	}
	return nil
}

// --- Budget categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_categories (id, user_id, name, type, percent, amount, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Type, nullFloat(c.Percent), nullInt(c.Amount), c.Position)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, percent, amount, position
		 FROM budget_categories WHERE user_id = ? ORDER BY position, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var percent sql.NullFloat64
		var amount sql.NullInt64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &percent, &amount, &c.Position); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Percent = floatPtr(percent)
		c.Amount = intPtr(amount)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budget_categories SET name = ?, type = ?, percent = ?, amount = ?, position = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, c.Type, nullFloat(c.Percent), nullInt(c.Amount), c.Position, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id, userID string) error {
	// Children go with the parent
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM budget_subcategories WHERE category_id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete subcategories of category: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budget_categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return rowsAffected(res)
}

// --- Budget subcategories ---

func (r *SQLiteRepository) CreateSubcategory(ctx context.Context, s core.Subcategory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_subcategories (id, user_id, category_id, name, percent, amount, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.CategoryID, s.Name, nullFloat(s.Percent), nullInt(s.Amount), s.Position)
	if err != nil {
		return fmt.Errorf("create subcategory: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSubcategories(ctx context.Context, userID string) ([]core.Subcategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, name, percent, amount, position
		 FROM budget_subcategories WHERE user_id = ? ORDER BY position, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var subs []core.Subcategory
	for rows.Next() {
		var s core.Subcategory
		var percent sql.NullFloat64
		var amount sql.NullInt64
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Name, &percent, &amount, &s.Position); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		s.Percent = floatPtr(percent)
		s.Amount = intPtr(amount)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SQLiteRepository) UpdateSubcategory(ctx context.Context, s core.Subcategory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budget_subcategories SET name = ?, percent = ?, amount = ?, position = ?
		 WHERE id = ? AND user_id = ?`,
		s.Name, nullFloat(s.Percent), nullInt(s.Amount), s.Position, s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("update subcategory: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteSubcategory(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budget_subcategories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return rowsAffected(res)
}

// --- Goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, description, target_amount, saving_amount, saving_frequency, priority, wallet_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.Description, g.TargetAmount, g.SavingAmount, g.SavingFrequency, g.Priority, g.WalletID)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, target_amount, saving_amount, saving_frequency, priority, wallet_id
		 FROM goals WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.TargetAmount,
			&g.SavingAmount, &g.SavingFrequency, &g.Priority, &g.WalletID); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, description = ?, target_amount = ?, saving_amount = ?,
		 saving_frequency = ?, priority = ?, wallet_id = ? WHERE id = ? AND user_id = ?`,
		g.Name, g.Description, g.TargetAmount, g.SavingAmount, g.SavingFrequency, g.Priority, g.WalletID,
		g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return rowsAffected(res)
}

// --- Debts and payments ---

func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (id, user_id, kind, name, amount, due_date, wallet_id, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Kind, d.Name, d.Amount, encodeTime(d.DueDate), nullString(d.WalletID), d.Note)
	if err != nil {
		return fmt.Errorf("create debt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetDebt(ctx context.Context, id, userID string) (core.Debt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, name, amount, due_date, wallet_id, note
		 FROM debts WHERE id = ? AND user_id = ?`, id, userID)
	d, err := r.scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) scanDebt(row interface{ Scan(...any) error }) (core.Debt, error) {
	var d core.Debt
	var dueDate string
	var walletID sql.NullString
	err := row.Scan(&d.ID, &d.UserID, &d.Kind, &d.Name, &d.Amount, &dueDate, &walletID, &d.Note)
	if err != nil {
		return d, err
	}
	d.DueDate = decodeTime(dueDate)
	d.WalletID = walletID.String
	return d, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context, userID string) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, name, amount, due_date, wallet_id, note
		 FROM debts WHERE user_id = ? ORDER BY due_date, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, err := r.scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *SQLiteRepository) UpdateDebt(ctx context.Context, d core.Debt) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE debts SET kind = ?, name = ?, amount = ?, due_date = ?, wallet_id = ?, note = ?
		 WHERE id = ? AND user_id = ?`,
		d.Kind, d.Name, d.Amount, encodeTime(d.DueDate), nullString(d.WalletID), d.Note, d.ID, d.UserID)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id, userID string) error {
	// Payments go with the debt
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM debt_payments WHERE debt_id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete payments of debt: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM debts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO debt_payments (id, user_id, debt_id, amount, wallet_id, note, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.DebtID, p.Amount, nullString(p.WalletID), p.Note, encodeTime(p.PaidAt))
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListPaymentsByDebt(ctx context.Context, debtID, userID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, debt_id, amount, wallet_id, note, paid_at
		 FROM debt_payments WHERE debt_id = ? AND user_id = ? ORDER BY paid_at DESC, id`, debtID, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return r.collectPayments(rows)
}

// ListPayments returns all of the user's payments across debts.
func (r *SQLiteRepository) ListPayments(ctx context.Context, userID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, debt_id, amount, wallet_id, note, paid_at
		 FROM debt_payments WHERE user_id = ? ORDER BY paid_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return r.collectPayments(rows)
}

func (r *SQLiteRepository) collectPayments(rows *sql.Rows) ([]core.Payment, error) {
	var payments []core.Payment
	for rows.Next() {
		var p core.Payment
		var paidAt string
		var walletID sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.DebtID, &p.Amount, &walletID, &p.Note, &paidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.PaidAt = decodeTime(paidAt)
		p.WalletID = walletID.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM debt_payments WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return rowsAffected(res)
}

// --- Wallet balance cache ---

// UpsertWalletBalance writes a freshly derived balance into the read cache.
func (r *SQLiteRepository) UpsertWalletBalance(ctx context.Context, walletID string, balance int64, refreshedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallet_balances (wallet_id, balance, refreshed_at) VALUES (?, ?, ?)
		 ON CONFLICT(wallet_id) DO UPDATE SET balance = excluded.balance, refreshed_at = excluded.refreshed_at`,
		walletID, balance, encodeTime(refreshedAt))
	if err != nil {
		return fmt.Errorf("upsert wallet balance: %w", err)
	}
	return nil
}

// CachedWalletBalance reads the denormalized balance. Callers treat a miss or
// stale value as "recompute from transactions"; the cache is never the source
// of truth.
func (r *SQLiteRepository) CachedWalletBalance(ctx context.Context, walletID string) (int64, time.Time, error) {
	var balance int64
	var refreshedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT balance, refreshed_at FROM wallet_balances WHERE wallet_id = ?`, walletID).
		Scan(&balance, &refreshedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, ErrNotFound
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("read wallet balance cache: %w", err)
	}
	return balance, decodeTime(refreshedAt), nil
}

// ListUserIDs returns every user with at least one wallet, for the periodic
// full balance refresh.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM wallets ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
