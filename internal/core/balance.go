package core

// WalletBalance derives a wallet's current balance from the full transaction
// history. Income credits and expenses debit the referenced wallet; a transfer
// debits its source and credits its destination. Transactions referencing
// other wallets contribute nothing, and an empty walletID always yields 0.
//
// The sum is order-independent and the stored wallet row is never consulted:
// the transaction collection is the only source of truth.
func WalletBalance(txs []Transaction, walletID string) int64 {
	if walletID == "" {
		return 0
	}
	var balance int64
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			if t.WalletID == walletID {
				balance += t.Amount
			}
		case TypeExpense:
			if t.WalletID == walletID {
				balance -= t.Amount
			}
		case TypeTransfer:
			if t.TransferTo == walletID {
				balance += t.Amount
			}
			if t.TransferFrom == walletID {
				balance -= t.Amount
			}
		}
	}
	return balance
}
