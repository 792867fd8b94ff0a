package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"moneymanagement/internal/core"
	"moneymanagement/internal/feed"
	"moneymanagement/internal/identity"
	"moneymanagement/internal/services"
	"moneymanagement/internal/storage"
)

const testToken = "test-token"

type testEnv struct {
	srv  *httptest.Server
	repo *storage.SQLiteRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	profile := core.UserProfile{ID: "u1", Email: "u1@example.com", Name: "User One"}
	if err := repo.UpsertUser(context.Background(), profile, testToken); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	changes := feed.New()
	server := NewServer(":0", Deps{
		Transactions: services.NewTransactionService(repo, nil, changes),
		Categories:   services.NewCategoryService(repo, changes),
		Dashboard:    services.NewDashboardService(repo, changes),
		Auth:         identity.NewStorageProvider(repo),
	})
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	srv := httptest.NewServer(server.Handler)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, repo: repo}
}

// do issues an authenticated request and decodes the data envelope into
// out when it is non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, payload)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return resp
}

func (e *testEnv) createCategory(t *testing.T, name, typ string) int64 {
	t.Helper()

	var cat struct {
		ID int64 `json:"id"`
	}
	resp := e.do(t, http.MethodPost, "/api/categories",
		map[string]string{"name": name, "icon": "food", "type": typ}, &cat)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category: status %d", resp.StatusCode)
	}
	return cat.ID
}

func TestHealthEndpointsNeedNoAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(env.srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/api/transactions")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Food", "EXPENSE")

	var created struct {
		ID          int64  `json:"id"`
		AmountCents int64  `json:"amount_cents"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
	}
	resp := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"category_id": catID,
		"name":        "lunch",
		"amount":      "12.50",
		"date":        "01/05/2024",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	if created.AmountCents != 1250 || created.Amount != "12.50" {
		t.Errorf("amount = %d cents / %q", created.AmountCents, created.Amount)
	}
	if created.Type != "EXPENSE" {
		t.Errorf("type = %q, want EXPENSE derived from the category", created.Type)
	}

	var updated struct {
		AmountCents int64 `json:"amount_cents"`
	}
	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/transactions/%d", created.ID),
		map[string]any{
			"category_id": catID,
			"name":        "dinner",
			"amount":      "20,00",
			"date":        "01/05/2024",
		}, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	if updated.AmountCents != 2000 {
		t.Errorf("updated amount = %d, want 2000 (comma separator)", updated.AmountCents)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", resp.StatusCode)
	}
}

func TestCreateTransactionRejectsBadPayloads(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Food", "EXPENSE")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad date", map[string]any{"category_id": catID, "name": "x", "amount": "1.00", "date": "2024-05-01"}},
		{"negative amount", map[string]any{"category_id": catID, "name": "x", "amount": "-1.00", "date": "01/05/2024"}},
		{"sub-cent amount", map[string]any{"category_id": catID, "name": "x", "amount": "1.005", "date": "01/05/2024"}},
		{"missing amount", map[string]any{"category_id": catID, "name": "x", "date": "01/05/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/transactions", tt.body, nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	resp := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
		"category_id": catID + 99,
		"name":        "x",
		"amount":      "1.00",
		"date":        "01/05/2024",
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown category: status = %d, want 404", resp.StatusCode)
	}
}

func TestGroupedTransactionList(t *testing.T) {
	env := newTestEnv(t)
	catID := env.createCategory(t, "Food", "EXPENSE")

	for _, date := range []string{"01/05/2024", "01/05/2024", "02/05/2024"} {
		resp := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
			"category_id": catID, "name": "tx", "amount": "1.00", "date": date,
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed: status %d", resp.StatusCode)
		}
	}

	var items []struct {
		Kind    string `json:"kind"`
		Date    string `json:"date"`
		Weekday string `json:"weekday"`
	}
	resp := env.do(t, http.MethodGet, "/api/transactions", nil, &items)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}

	// Two headers and three rows, newest date first.
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	if items[0].Kind != "header" || items[0].Date != "02/05/2024" {
		t.Errorf("first item = %+v, want header for 02/05/2024", items[0])
	}
	if items[0].Weekday == "" {
		t.Error("header weekday is empty")
	}
	if items[2].Kind != "header" || items[2].Date != "01/05/2024" {
		t.Errorf("third item = %+v, want header for 01/05/2024", items[2])
	}
}

func TestCategoryFilterAndValidation(t *testing.T) {
	env := newTestEnv(t)
	env.createCategory(t, "Food", "EXPENSE")
	env.createCategory(t, "Salary", "INCOME")

	var cats []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	resp := env.do(t, http.MethodGet, "/api/categories?type=income", nil, &cats)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	if len(cats) != 1 || cats[0].Name != "Salary" {
		t.Errorf("income categories = %+v", cats)
	}

	resp = env.do(t, http.MethodGet, "/api/categories?type=other", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus type filter: status %d, want 400", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/api/categories",
		map[string]string{"name": "x", "type": "OTHER"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus category type: status %d, want 400", resp.StatusCode)
	}
}

func TestDashboardEndpoints(t *testing.T) {
	env := newTestEnv(t)
	foodID := env.createCategory(t, "Food", "EXPENSE")
	salaryID := env.createCategory(t, "Salary", "INCOME")

	seed := []struct {
		cat    int64
		amount string
		date   string
	}{
		{foodID, "10.00", "01/05/2024"},
		{foodID, "5.00", "01/05/2024"},
		{salaryID, "200.00", "02/05/2024"},
	}
	for _, s := range seed {
		resp := env.do(t, http.MethodPost, "/api/transactions", map[string]any{
			"category_id": s.cat, "name": "tx", "amount": s.amount, "date": s.date,
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed: status %d", resp.StatusCode)
		}
	}

	var summary struct {
		TotalIncome  struct{ Cents int64 } `json:"total_income"`
		TotalExpense struct{ Cents int64 } `json:"total_expense"`
		Balance      int64                 `json:"balance"`
	}
	resp := env.do(t, http.MethodGet, "/api/dashboard/summary", nil, &summary)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: status %d", resp.StatusCode)
	}
	if summary.TotalIncome.Cents != 20000 || summary.TotalExpense.Cents != 1500 || summary.Balance != 18500 {
		t.Errorf("summary = %+v", summary)
	}

	var breakdown []struct {
		Percentage float64 `json:"percentage"`
	}
	resp = env.do(t, http.MethodGet, "/api/dashboard/breakdown?type=expense", nil, &breakdown)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("breakdown: status %d", resp.StatusCode)
	}
	if len(breakdown) != 1 || breakdown[0].Percentage != 100 {
		t.Errorf("breakdown = %+v", breakdown)
	}

	var buckets []struct {
		Label   string `json:"label"`
		Income  int64  `json:"income_cents"`
		Expense int64  `json:"expense_cents"`
	}
	resp = env.do(t, http.MethodGet, "/api/dashboard/series?period=monthly", nil, &buckets)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("series: status %d", resp.StatusCode)
	}
	if len(buckets) != 1 || buckets[0].Label != "05/2024" || buckets[0].Income != 20000 {
		t.Errorf("series = %+v", buckets)
	}

	resp = env.do(t, http.MethodGet, "/api/dashboard/series?period=hourly", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus period: status %d, want 400", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/dashboard/monthly-series", nil, &buckets)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("monthly series: status %d", resp.StatusCode)
	}
	if len(buckets) != 1 || buckets[0].Label != "T5" {
		t.Errorf("monthly series = %+v", buckets)
	}
}

func TestProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	resp := env.do(t, http.MethodGet, "/api/profile", nil, &profile)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: status %d", resp.StatusCode)
	}
	if profile.ID != "u1" || profile.Email != "u1@example.com" {
		t.Errorf("profile = %+v", profile)
	}
}
