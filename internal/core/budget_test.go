package core

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

var budgetDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestTotalIncome(t *testing.T) {
	categories := []Category{
		{ID: "salary", Type: CategoryIncome, Name: "Gaji", Amount: iptr(1500000)},
		{ID: "bonus", Type: CategoryIncome, Name: "Bonus", Amount: iptr(500000)},
		{ID: "food", Type: CategoryExpense, Name: "Makan", Amount: iptr(999)},
		{ID: "broken", Type: CategoryIncome, Name: "No amount"}, // nil amount contributes 0
	}
	if got := TotalIncome(categories); got != 2000000 {
		t.Fatalf("TotalIncome = %d, want 2000000", got)
	}
}

func TestAllocatedForCategory(t *testing.T) {
	cases := []struct {
		name        string
		cat         Category
		totalIncome int64
		subs        []Subcategory
		want        int64
	}{
		{
			name: "income category returns its amount",
			cat:  Category{ID: "c", Type: CategoryIncome, Amount: iptr(750000)},
			want: 750000,
		},
		{
			name:        "percent of total income",
			cat:         Category{ID: "c", Type: CategoryExpense, Percent: fptr(20)},
			totalIncome: 2000000,
			want:        400000,
		},
		{
			name:        "percent wins over stale amount",
			cat:         Category{ID: "c", Type: CategoryExpense, Percent: fptr(50), Amount: iptr(999999)},
			totalIncome: 1000,
			want:        500,
		},
		{
			name: "fixed amount",
			cat:  Category{ID: "c", Type: CategoryExpense, Amount: iptr(123456)},
			want: 123456,
		},
		{
			name: "fallback to fixed-amount children",
			cat:  Category{ID: "c", Type: CategoryExpense},
			subs: []Subcategory{
				{ID: "s1", CategoryID: "c", Amount: iptr(100)},
				{ID: "s2", CategoryID: "c", Amount: iptr(250)},
				{ID: "s3", CategoryID: "c", Percent: fptr(50)},           // percent child excluded
				{ID: "s4", CategoryID: "other", Amount: iptr(999)},       // other tree excluded
			},
			want: 350,
		},
		{
			name:        "percent of zero income",
			cat:         Category{ID: "c", Type: CategoryExpense, Percent: fptr(30)},
			totalIncome: 0,
			want:        0,
		},
		{
			name: "nothing set and no children",
			cat:  Category{ID: "c", Type: CategoryExpense},
			want: 0,
		},
		{
			name:        "half-up rounding",
			cat:         Category{ID: "c", Type: CategoryExpense, Percent: fptr(33.335)},
			totalIncome: 1000,
			want:        333, // 333.35 rounds to 333
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AllocatedForCategory(tc.cat, tc.totalIncome, tc.subs); got != tc.want {
				t.Fatalf("AllocatedForCategory = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAllocatedForSubcategory(t *testing.T) {
	cases := []struct {
		name            string
		sub             Subcategory
		parentAllocated int64
		want            int64
	}{
		{"percent of parent", Subcategory{Percent: fptr(50)}, 400000, 200000},
		{"percent wins over amount", Subcategory{Percent: fptr(30), Amount: iptr(999999)}, 1000, 300},
		{"fixed amount", Subcategory{Amount: iptr(75000)}, 0, 75000},
		{"neither set", Subcategory{}, 400000, 0},
		{"percent of zero parent", Subcategory{Percent: fptr(80)}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AllocatedForSubcategory(tc.sub, tc.parentAllocated); got != tc.want {
				t.Fatalf("AllocatedForSubcategory = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSubcategoriesNotCappedByParent(t *testing.T) {
	// Two 30% children of a 1000 parent each resolve to 300, independently.
	parent := int64(1000)
	a := AllocatedForSubcategory(Subcategory{Percent: fptr(30)}, parent)
	b := AllocatedForSubcategory(Subcategory{Percent: fptr(30)}, parent)
	if a != 300 || b != 300 {
		t.Fatalf("expected 300/300, got %d/%d", a, b)
	}
}

func TestSpentForCategory(t *testing.T) {
	cat := Category{ID: "food", Type: CategoryExpense}
	subs := []Subcategory{
		{ID: "groceries", CategoryID: "food"},
		{ID: "snacks", CategoryID: "food"},
		{ID: "fuel", CategoryID: "transport"},
	}
	txs := []Transaction{
		NewExpense("w", "food", "", 100, budgetDate),
		NewExpense("w", "", "groceries", 200, budgetDate),
		NewExpense("w", "food", "snacks", 50, budgetDate), // both refs, counted once
		NewExpense("w", "transport", "fuel", 999, budgetDate),
		NewIncome("w", "food", 5000, budgetDate), // income never counts as spend
	}
	if got := SpentForCategory(cat, subs, txs); got != 350 {
		t.Fatalf("SpentForCategory = %d, want 350", got)
	}
}

func TestSpentForSubcategory(t *testing.T) {
	sub := Subcategory{ID: "groceries", CategoryID: "food"}
	txs := []Transaction{
		NewExpense("w", "food", "groceries", 100000, budgetDate),
		NewExpense("w", "food", "groceries", 50000, budgetDate),
		NewExpense("w", "food", "snacks", 25000, budgetDate),
	}
	if got := SpentForSubcategory(sub, txs); got != 150000 {
		t.Fatalf("SpentForSubcategory = %d, want 150000", got)
	}
}

// Mirrors the documented end-to-end scenario: 2,000,000 income, Food at 20%,
// Groceries at 50% of Food, 150,000 spent on Groceries.
func TestBudgetScenario(t *testing.T) {
	categories := []Category{
		{ID: "salary", Type: CategoryIncome, Amount: iptr(2000000)},
		{ID: "food", Type: CategoryExpense, Percent: fptr(20)},
	}
	subs := []Subcategory{
		{ID: "groceries", CategoryID: "food", Percent: fptr(50)},
	}
	txs := []Transaction{
		NewExpense("w", "food", "groceries", 150000, budgetDate),
	}

	income := TotalIncome(categories)
	if income != 2000000 {
		t.Fatalf("income = %d", income)
	}
	foodAllocated := AllocatedForCategory(categories[1], income, subs)
	if foodAllocated != 400000 {
		t.Fatalf("food allocated = %d, want 400000", foodAllocated)
	}
	groceriesAllocated := AllocatedForSubcategory(subs[0], foodAllocated)
	if groceriesAllocated != 200000 {
		t.Fatalf("groceries allocated = %d, want 200000", groceriesAllocated)
	}
	spent := SpentForSubcategory(subs[0], txs)
	if spent != 150000 {
		t.Fatalf("groceries spent = %d, want 150000", spent)
	}
	if got := UsagePercent(spent, groceriesAllocated); got != 75 {
		t.Fatalf("usage = %d%%, want 75%%", got)
	}
}

func TestUsagePercent(t *testing.T) {
	cases := []struct {
		spent, allocated int64
		want             int
	}{
		{0, 1000, 0},
		{500, 1000, 50},
		{1500, 1000, 100}, // capped
		{100, 0, 0},       // no division by zero
	}
	for _, tc := range cases {
		if got := UsagePercent(tc.spent, tc.allocated); got != tc.want {
			t.Fatalf("UsagePercent(%d, %d) = %d, want %d", tc.spent, tc.allocated, got, tc.want)
		}
	}
}
