package amqp

import (
	"encoding/json"
	"time"
)

// Tables that emit change events.
const (
	TableWallets       = "wallets"
	TableTransactions  = "transactions"
	TableCategories    = "budget_categories"
	TableSubcategories = "budget_subcategories"
	TableGoals         = "goals"
	TableDebts         = "debts"
	TableDebtPayments  = "debt_payments"
)

// ChangeMessage announces that a row in Table changed for UserID. It carries
// just enough identity for a consumer to decide whether to re-snapshot; the
// row itself is always re-read from storage, never trusted from the message.
type ChangeMessage struct {
	Table     string    `json:"table"`
	Op        string    `json:"op"` // create, update, delete
	EntityID  string    `json:"entity_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage builds a change event for one row.
func NewChangeMessage(table, op, entityID, userID string) *ChangeMessage {
	return &ChangeMessage{
		Table:     table,
		Op:        op,
		EntityID:  entityID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// AffectsBalances reports whether the change can move a derived wallet
// balance, in which case the worker refreshes the materialized balance cache.
func (m *ChangeMessage) AffectsBalances() bool {
	switch m.Table {
	case TableTransactions, TableDebtPayments, TableWallets:
		return true
	}
	return false
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON parses a change event from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
