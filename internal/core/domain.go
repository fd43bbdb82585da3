package core

import (
	"errors"
	"strings"
	"time"
)

type (
	TransactionType string
	CategoryType    string
	SavingFrequency string
	GoalPriority    string
	DebtKind        string
	Settlement      string
)

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"

	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"

	FrequencyWeekly  SavingFrequency = "weekly"
	FrequencyMonthly SavingFrequency = "monthly"

	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"

	// Hutang is money the user owes, Piutang is money owed to the user.
	Hutang  DebtKind = "hutang"
	Piutang DebtKind = "piutang"

	SettlementPaid   Settlement = "lunas"
	SettlementUnpaid Settlement = "belum_lunas"
)

var (
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPercent   = errors.New("percent must be between 0 and 100")
	ErrEmptyName        = errors.New("empty name")
	ErrMissingWallet    = errors.New("missing wallet reference")
	ErrInvalidTransfer  = errors.New("transfer requires two distinct wallets")
	ErrInvalidFrequency = errors.New("invalid saving frequency")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrMissingCategory  = errors.New("missing parent category")
	ErrMissingDebt      = errors.New("missing debt reference")
)

// Wallet is a named money container. Its balance is never stored
// authoritatively; it is derived from the transaction set (see balance.go).
type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is the single row shape behind three variants: income and
// expense rows reference WalletID (and optionally a budget category), transfer
// rows reference TransferFrom/TransferTo instead. Validate enforces that
// exactly one of the two reference shapes is populated for the given Type.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"`
	Date          time.Time       `json:"date"`
	WalletID      string          `json:"wallet_id,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	SubcategoryID string          `json:"subcategory_id,omitempty"`
	TransferFrom  string          `json:"transfer_from,omitempty"`
	TransferTo    string          `json:"transfer_to,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// NewIncome builds an income transaction crediting the given wallet.
func NewIncome(walletID, categoryID string, amount int64, date time.Time) Transaction {
	return Transaction{Type: TypeIncome, WalletID: walletID, CategoryID: categoryID, Amount: amount, Date: date}
}

// NewExpense builds an expense transaction debiting the given wallet.
func NewExpense(walletID, categoryID, subcategoryID string, amount int64, date time.Time) Transaction {
	return Transaction{Type: TypeExpense, WalletID: walletID, CategoryID: categoryID, SubcategoryID: subcategoryID, Amount: amount, Date: date}
}

// NewTransfer builds a transfer moving amount between two wallets.
func NewTransfer(fromWalletID, toWalletID string, amount int64, date time.Time) Transaction {
	return Transaction{Type: TypeTransfer, TransferFrom: fromWalletID, TransferTo: toWalletID, Amount: amount, Date: date}
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	switch t.Type {
	case TypeIncome:
		if t.WalletID == "" {
			return ErrMissingWallet
		}
		if t.TransferFrom != "" || t.TransferTo != "" {
			return ErrInvalidType
		}
		if t.SubcategoryID != "" {
			return ErrInvalidType
		}
	case TypeExpense:
		if t.WalletID == "" {
			return ErrMissingWallet
		}
		if t.TransferFrom != "" || t.TransferTo != "" {
			return ErrInvalidType
		}
	case TypeTransfer:
		if t.TransferFrom == "" || t.TransferTo == "" || t.TransferFrom == t.TransferTo {
			return ErrInvalidTransfer
		}
		if t.WalletID != "" || t.CategoryID != "" || t.SubcategoryID != "" {
			return ErrInvalidType
		}
	default:
		return ErrInvalidType
	}
	return nil
}

// Category is a budget bucket. Income categories contribute Amount directly to
// total income. Expense categories allocate by Percent of total income or by a
// fixed Amount; nil means unset.
type Category struct {
	ID       string       `json:"id"`
	UserID   string       `json:"user_id"`
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	Percent  *float64     `json:"percent,omitempty"`
	Amount   *int64       `json:"amount,omitempty"`
	Position int          `json:"position"`
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Type != CategoryIncome && c.Type != CategoryExpense {
		return ErrInvalidType
	}
	if c.Percent != nil && (*c.Percent < 0 || *c.Percent > 100) {
		return ErrInvalidPercent
	}
	if c.Amount != nil && *c.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Subcategory refines an expense category. Percent is relative to the parent
// category's computed allocation, not to total income.
type Subcategory struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	CategoryID string   `json:"category_id"`
	Name       string   `json:"name"`
	Percent    *float64 `json:"percent,omitempty"`
	Amount     *int64   `json:"amount,omitempty"`
	Position   int      `json:"position"`
}

func (s Subcategory) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.CategoryID == "" {
		return ErrMissingCategory
	}
	if s.Percent != nil && (*s.Percent < 0 || *s.Percent > 100) {
		return ErrInvalidPercent
	}
	if s.Amount != nil && *s.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Goal is a savings target tied to a wallet. The saved amount is the linked
// wallet's derived balance, never a stored column.
type Goal struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	TargetAmount    int64           `json:"target_amount"`
	SavingAmount    int64           `json:"saving_amount"`
	SavingFrequency SavingFrequency `json:"saving_frequency"`
	Priority        GoalPriority    `json:"priority"`
	WalletID        string          `json:"wallet_id"`
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if g.SavingAmount < 0 {
		return ErrInvalidAmount
	}
	if g.SavingFrequency != FrequencyWeekly && g.SavingFrequency != FrequencyMonthly {
		return ErrInvalidFrequency
	}
	switch g.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	if g.WalletID == "" {
		return ErrMissingWallet
	}
	return nil
}

// Debt is a payable (hutang) or receivable (piutang) obligation. Its remaining
// balance and settlement status are derived from the payment collection.
type Debt struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Kind     DebtKind  `json:"kind"`
	Name     string    `json:"name"`
	Amount   int64     `json:"amount"`
	DueDate  time.Time `json:"due_date"`
	WalletID string    `json:"wallet_id,omitempty"`
	Note     string    `json:"note,omitempty"`
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.Kind != Hutang && d.Kind != Piutang {
		return ErrInvalidType
	}
	if d.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Payment is an installment against a debt.
type Payment struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	DebtID   string    `json:"debt_id"`
	Amount   int64     `json:"amount"`
	WalletID string    `json:"wallet_id,omitempty"`
	Note     string    `json:"note,omitempty"`
	PaidAt   time.Time `json:"paid_at"`
}

func (p Payment) Validate() error {
	if p.DebtID == "" {
		return ErrMissingDebt
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
