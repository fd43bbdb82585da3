package core

import (
	"testing"
	"time"
)

var paidAt = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

func TestDebtStatus(t *testing.T) {
	debt := Debt{ID: "d", Kind: Hutang, Name: "Pinjaman motor", Amount: 500}
	cases := []struct {
		name          string
		payments      []Payment
		wantPaid      int64
		wantRemaining int64
		wantStatus    Settlement
	}{
		{
			name:          "no payments",
			wantPaid:      0,
			wantRemaining: 500,
			wantStatus:    SettlementUnpaid,
		},
		{
			name: "partially paid",
			payments: []Payment{
				{ID: "p1", DebtID: "d", Amount: 200, PaidAt: paidAt},
			},
			wantPaid:      200,
			wantRemaining: 300,
			wantStatus:    SettlementUnpaid,
		},
		{
			name: "exactly paid",
			payments: []Payment{
				{ID: "p1", DebtID: "d", Amount: 200, PaidAt: paidAt},
				{ID: "p2", DebtID: "d", Amount: 300, PaidAt: paidAt},
			},
			wantPaid:      500,
			wantRemaining: 0,
			wantStatus:    SettlementPaid,
		},
		{
			name: "overpaid keeps negative remainder",
			payments: []Payment{
				{ID: "p1", DebtID: "d", Amount: 600, PaidAt: paidAt},
			},
			wantPaid:      600,
			wantRemaining: -100,
			wantStatus:    SettlementPaid,
		},
		{
			name: "foreign payments ignored",
			payments: []Payment{
				{ID: "p1", DebtID: "d", Amount: 100, PaidAt: paidAt},
				{ID: "p2", DebtID: "other", Amount: 999, PaidAt: paidAt},
			},
			wantPaid:      100,
			wantRemaining: 400,
			wantStatus:    SettlementUnpaid,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DebtStatusFor(debt, tc.payments)
			if got.TotalPaid != tc.wantPaid {
				t.Fatalf("total paid = %d, want %d", got.TotalPaid, tc.wantPaid)
			}
			if got.Remaining != tc.wantRemaining {
				t.Fatalf("remaining = %d, want %d", got.Remaining, tc.wantRemaining)
			}
			if got.Settlement != tc.wantStatus {
				t.Fatalf("status = %q, want %q", got.Settlement, tc.wantStatus)
			}
		})
	}
}

func TestDebtStatusRecomputesAfterDelete(t *testing.T) {
	debt := Debt{ID: "d", Kind: Piutang, Name: "Dipinjam teman", Amount: 1000}
	payments := []Payment{
		{ID: "p1", DebtID: "d", Amount: 400, PaidAt: paidAt},
		{ID: "p2", DebtID: "d", Amount: 600, PaidAt: paidAt},
	}
	if got := DebtStatusFor(debt, payments); got.Settlement != SettlementPaid {
		t.Fatalf("expected paid, got %q", got.Settlement)
	}

	// Deleting a payment must flip the derived status back.
	after := DebtStatusFor(debt, payments[:1])
	if after.Settlement != SettlementUnpaid {
		t.Fatalf("expected unpaid after delete, got %q", after.Settlement)
	}
	if after.Remaining != 600 {
		t.Fatalf("remaining = %d, want 600", after.Remaining)
	}
}
