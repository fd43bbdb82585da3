package amqp

import "testing"

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := NewChangeMessage(TableTransactions, "create", "tx-1", "user-1")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := ChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Table != TableTransactions || got.Op != "create" || got.EntityID != "tx-1" || got.UserID != "user-1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestChangeMessageFromJSONInvalid(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestAffectsBalances(t *testing.T) {
	cases := []struct {
		table string
		want  bool
	}{
		{TableTransactions, true},
		{TableDebtPayments, true},
		{TableWallets, true},
		{TableCategories, false},
		{TableGoals, false},
	}
	for _, tc := range cases {
		msg := NewChangeMessage(tc.table, "update", "e", "u")
		if got := msg.AffectsBalances(); got != tc.want {
			t.Fatalf("AffectsBalances(%s) = %v, want %v", tc.table, got, tc.want)
		}
	}
}
