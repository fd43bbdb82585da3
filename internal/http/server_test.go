package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moco/internal/cache"
	"moco/internal/core"
	"moco/internal/services"
	"moco/internal/storage/memstore"
)

func newTestServer(store *memstore.MemStore) *Server {
	svc := services.NewFinanceService(store, nil, cache.NewLRU[services.DashboardView](16, time.Minute), nil)
	return NewServer(":0", svc, nil)
}

func doRequest(s *Server, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestMissingUserHeader(t *testing.T) {
	s := newTestServer(memstore.New())
	rec := doRequest(s, http.MethodGet, "/api/wallets", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpointsNeedNoAuth(t *testing.T) {
	s := newTestServer(memstore.New())
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestWalletLifecycle(t *testing.T) {
	s := newTestServer(memstore.New())

	rec := doRequest(s, http.MethodPost, "/api/wallets", "u1", map[string]string{"name": "Cash"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create wallet = %d: %s", rec.Code, rec.Body.String())
	}
	var wallet core.Wallet
	if err := json.Unmarshal(rec.Body.Bytes(), &wallet); err != nil {
		t.Fatalf("decode wallet: %v", err)
	}
	if wallet.ID == "" || wallet.Name != "Cash" {
		t.Fatalf("unexpected wallet: %+v", wallet)
	}

	rec = doRequest(s, http.MethodGet, "/api/wallets", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list wallets = %d", rec.Code)
	}
	var views []services.WalletView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode views: %v", err)
	}
	if len(views) != 1 || views[0].Balance != 0 {
		t.Fatalf("unexpected views: %+v", views)
	}

	// Another user sees nothing.
	rec = doRequest(s, http.MethodGet, "/api/wallets", "u2", nil)
	var other []services.WalletView
	_ = json.Unmarshal(rec.Body.Bytes(), &other)
	if len(other) != 0 {
		t.Fatalf("user isolation broken: %+v", other)
	}

	rec = doRequest(s, http.MethodDelete, "/api/wallets/"+wallet.ID, "u1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete wallet = %d", rec.Code)
	}
	rec = doRequest(s, http.MethodDelete, "/api/wallets/"+wallet.ID, "u1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing wallet = %d, want 404", rec.Code)
	}
}

func TestTransactionFlowUpdatesBalances(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(core.Wallet{ID: "cash", UserID: "u1", Name: "Cash"})
	store.SeedWallet(core.Wallet{ID: "bank", UserID: "u1", Name: "Bank"})
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/transactions", "u1", map[string]any{
		"type": "income", "amount": 1_000_000, "wallet_id": "cash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(s, http.MethodPost, "/api/transactions", "u1", map[string]any{
		"type": "transfer", "amount": 400_000, "transfer_from": "cash", "transfer_to": "bank",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transfer = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/api/wallets", "u1", nil)
	var views []services.WalletView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode views: %v", err)
	}
	balances := map[string]int64{}
	for _, v := range views {
		balances[v.ID] = v.Balance
	}
	if balances["cash"] != 600_000 || balances["bank"] != 400_000 {
		t.Fatalf("balances = %v", balances)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions?type=transfer", "u1", nil)
	var txs []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != core.TypeTransfer {
		t.Fatalf("type filter returned %+v", txs)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions/"+txs[0].ID, "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get transaction = %d", rec.Code)
	}
	var tx core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if tx.ID != txs[0].ID || tx.Amount != 400_000 {
		t.Fatalf("transaction = %+v", tx)
	}
	rec = doRequest(s, http.MethodGet, "/api/transactions/"+txs[0].ID, "u2", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user get = %d, want 404", rec.Code)
	}
}

func TestInvalidTransferRejected(t *testing.T) {
	s := newTestServer(memstore.New())
	rec := doRequest(s, http.MethodPost, "/api/transactions", "u1", map[string]any{
		"type": "transfer", "amount": 100, "transfer_from": "w1", "transfer_to": "w1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("same-wallet transfer = %d, want 400", rec.Code)
	}
}

func TestBudgetOverviewEndpoint(t *testing.T) {
	store := memstore.New()
	salary := int64(2_000_000)
	percent := 20.0
	store.SeedCategory(core.Category{ID: "inc", UserID: "u1", Name: "Salary", Type: core.CategoryIncome, Amount: &salary})
	store.SeedCategory(core.Category{ID: "food", UserID: "u1", Name: "Food", Type: core.CategoryExpense, Percent: &percent})
	store.SeedTransaction(core.Transaction{
		ID: "t1", UserID: "u1", Type: core.TypeExpense, Amount: 150_000,
		Date: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), WalletID: "cash", CategoryID: "food",
	})
	s := newTestServer(store)

	rec := doRequest(s, http.MethodGet, "/api/budget?year=2025&month=3", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("budget overview = %d", rec.Code)
	}
	var view services.BudgetView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode budget: %v", err)
	}
	if view.TotalIncome != 2_000_000 {
		t.Fatalf("TotalIncome = %d", view.TotalIncome)
	}
	var food *services.CategoryView
	for i := range view.Categories {
		if view.Categories[i].Name == "Food" {
			food = &view.Categories[i]
		}
	}
	if food == nil {
		t.Fatal("missing Food category")
	}
	if food.Allocated != 400_000 || food.Spent != 150_000 {
		t.Fatalf("food = allocated %d spent %d", food.Allocated, food.Spent)
	}
}

func TestListSubcategoriesEndpoint(t *testing.T) {
	store := memstore.New()
	percent := 50.0
	store.SeedCategory(core.Category{ID: "food", UserID: "u1", Name: "Food", Type: core.CategoryExpense, Percent: &percent})
	store.SeedSubcategory(core.Subcategory{ID: "s1", UserID: "u1", CategoryID: "food", Name: "Groceries"})
	s := newTestServer(store)

	rec := doRequest(s, http.MethodGet, "/api/subcategories", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list subcategories = %d", rec.Code)
	}
	var subs []core.Subcategory
	if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
		t.Fatalf("decode subcategories: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "Groceries" {
		t.Fatalf("subcategories = %+v", subs)
	}

	rec = doRequest(s, http.MethodGet, "/api/subcategories", "u2", nil)
	var other []core.Subcategory
	_ = json.Unmarshal(rec.Body.Bytes(), &other)
	if len(other) != 0 {
		t.Fatalf("user isolation broken: %+v", other)
	}
}

func TestCategoryOverAllocationReturns422(t *testing.T) {
	store := memstore.New()
	salary := int64(1_000_000)
	store.SeedCategory(core.Category{ID: "inc", UserID: "u1", Name: "Salary", Type: core.CategoryIncome, Amount: &salary})
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/api/categories", "u1", map[string]any{
		"name": "Everything", "type": "expense", "percent": 120,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("percent > 100 = %d, want 400", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/categories", "u1", map[string]any{
		"name": "Everything", "type": "expense", "amount": 1_500_000,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("over-allocation = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestDebtPaymentFlow(t *testing.T) {
	s := newTestServer(memstore.New())

	rec := doRequest(s, http.MethodPost, "/api/debts", "u1", map[string]any{
		"kind": "hutang", "name": "Loan", "amount": 500_000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create debt = %d: %s", rec.Code, rec.Body.String())
	}
	var debt core.Debt
	_ = json.Unmarshal(rec.Body.Bytes(), &debt)

	rec = doRequest(s, http.MethodPost, "/api/debts/"+debt.ID+"/payments", "u1", map[string]any{
		"amount": 500_000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add payment = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/api/debts/"+debt.ID, "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get debt = %d", rec.Code)
	}
	var view services.DebtView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode debt view: %v", err)
	}
	if view.Status.Remaining != 0 || view.Status.Settlement != core.SettlementPaid {
		t.Fatalf("status = %+v", view.Status)
	}

	rec = doRequest(s, http.MethodGet, "/api/debts/"+debt.ID+"/payments", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list payments = %d", rec.Code)
	}
	var payments []core.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode payments: %v", err)
	}
	if len(payments) != 1 || payments[0].Amount != 500_000 {
		t.Fatalf("payments = %+v", payments)
	}

	rec = doRequest(s, http.MethodPost, "/api/debts/missing/payments", "u1", map[string]any{"amount": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("payment on missing debt = %d, want 404", rec.Code)
	}
}

func TestGoalsEndpointDerivesProgress(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(core.Wallet{ID: "save", UserID: "u1", Name: "Savings"})
	store.SeedTransaction(core.Transaction{ID: "t1", UserID: "u1", Type: core.TypeIncome, Amount: 400_000, Date: time.Now(), WalletID: "save"})
	store.SeedGoal(core.Goal{
		ID: "g1", UserID: "u1", Name: "Laptop", TargetAmount: 1_000_000, SavingAmount: 200_000,
		SavingFrequency: core.FrequencyMonthly, Priority: core.PriorityHigh, WalletID: "save",
	})
	s := newTestServer(store)

	rec := doRequest(s, http.MethodGet, "/api/goals", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list goals = %d", rec.Code)
	}
	var views []services.GoalView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode goals: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(views))
	}
	p := views[0].Progress
	if p.Saved != 400_000 || p.Percent != 40 || p.ETAPeriods == nil || *p.ETAPeriods != 3 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	store := memstore.New()
	store.SeedWallet(core.Wallet{ID: "cash", UserID: "u1", Name: "Cash"})
	store.SeedTransaction(core.Transaction{
		ID: "t1", UserID: "u1", Type: core.TypeIncome, Amount: 750_000,
		Date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), WalletID: "cash",
	})
	s := newTestServer(store)

	rec := doRequest(s, http.MethodGet, "/api/dashboard?year=2025&month=3", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rec.Code)
	}
	var view services.DashboardView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if view.TotalBalance != 750_000 || view.MonthIncome != 750_000 {
		t.Fatalf("dashboard totals = %+v", view)
	}
	if view.TotalBalanceLabel != "Rp 750.000" {
		t.Fatalf("label = %q", view.TotalBalanceLabel)
	}
}
