package core

// DebtStatus is the derived ledger state of a debt. Remaining keeps its sign:
// an overpaid debt reports a negative remainder instead of clamping, so the
// overpayment stays visible to the caller.
type DebtStatus struct {
	TotalPaid  int64      `json:"total_paid"`
	Remaining  int64      `json:"remaining"`
	Settlement Settlement `json:"status"`
}

// DebtStatusFor recomputes a debt's paid-to-date, remaining balance and
// settlement status from its payment collection. There is no running total on
// the debt row to trust; after any payment edit or delete the caller passes
// the full updated set and the result is rebuilt from scratch.
//
// Payments referencing a different debt contribute nothing, so a mixed
// payment slice degrades gracefully instead of corrupting the ledger.
func DebtStatusFor(debt Debt, payments []Payment) DebtStatus {
	var paid int64
	for _, p := range payments {
		if p.DebtID != debt.ID {
			continue
		}
		paid += p.Amount
	}
	remaining := debt.Amount - paid
	settlement := SettlementUnpaid
	if remaining <= 0 {
		settlement = SettlementPaid
	}
	return DebtStatus{TotalPaid: paid, Remaining: remaining, Settlement: settlement}
}
