package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/testutil"
)

func newDashboardHandler() (*DashboardHandler, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	svc := service.NewDashboardService(repo)
	return NewDashboardHandler(svc), repo
}

func TestGetBalance_Success(t *testing.T) {
	e := echo.New()
	handler, repo := newDashboardHandler()

	now := time.Now().UTC()
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Salary",
		Amount:      decimal.NewFromInt(1000),
		Type:        domain.TransactionTypeIncome,
		Category:    "Work",
		Date:        now.AddDate(0, 0, -2),
	})
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Fuel",
		Amount:      decimal.NewFromInt(200),
		Type:        domain.TransactionTypeExpense,
		Category:    "Car",
		Date:        now.AddDate(0, 0, -1),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|dash", "dash@example.com", "Dash", 1)

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Income != "1000.00" {
		t.Errorf("Expected income '1000.00', got %s", response.Income)
	}
	if response.Expense != "200.00" {
		t.Errorf("Expected expense '200.00', got %s", response.Expense)
	}
	if response.Balance != "800.00" {
		t.Errorf("Expected balance '800.00', got %s", response.Balance)
	}
}

func TestGetBalance_ExpenseNeverExceedsIncome(t *testing.T) {
	e := echo.New()
	handler, repo := newDashboardHandler()

	// An expense larger than total income is skipped from the totals
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Salary",
		Amount:      decimal.NewFromInt(500),
		Type:        domain.TransactionTypeIncome,
		Category:    "Work",
		Date:        time.Now().UTC(),
	})
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Rent",
		Amount:      decimal.NewFromInt(600),
		Type:        domain.TransactionTypeExpense,
		Category:    "Housing",
		Date:        time.Now().UTC(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|dash", "dash@example.com", "Dash", 1)

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Expense != "0.00" {
		t.Errorf("Expected expense '0.00', got %s", response.Expense)
	}
	if response.Balance != "500.00" {
		t.Errorf("Expected balance '500.00', got %s", response.Balance)
	}
}

func TestGetBalance_MissingWorkspace(t *testing.T) {
	e := echo.New()
	handler, _ := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetBalance_InvalidFilter(t *testing.T) {
	e := echo.New()
	handler, _ := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/balance?type=transfer", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|dash", "dash@example.com", "Dash", 1)

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetCategories_Success(t *testing.T) {
	e := echo.New()
	handler, repo := newDashboardHandler()

	now := time.Now().UTC()
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Groceries",
		Amount:      decimal.NewFromInt(100),
		Type:        domain.TransactionTypeExpense,
		Category:    "Food",
		Date:        now,
	})
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Takeaway",
		Amount:      decimal.NewFromInt(50),
		Type:        domain.TransactionTypeExpense,
		Category:    "Food",
		Date:        now.AddDate(0, 0, -1),
	})
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Fuel",
		Amount:      decimal.NewFromInt(30),
		Type:        domain.TransactionTypeExpense,
		Category:    "Car",
		Date:        now.AddDate(0, 0, -2),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|dash", "dash@example.com", "Dash", 1)

	err := handler.GetCategories(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []CategoryTotalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(response))
	}
	// Categories appear in first-seen order of the date-descending listing
	if response[0].Category != "Food" || response[0].Total != "150.00" {
		t.Errorf("Expected Food 150.00 first, got %+v", response[0])
	}
	if response[1].Category != "Car" || response[1].Total != "30.00" {
		t.Errorf("Expected Car 30.00 second, got %+v", response[1])
	}
}

func TestGetCategories_Empty(t *testing.T) {
	e := echo.New()
	handler, _ := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|dash", "dash@example.com", "Dash", 1)

	err := handler.GetCategories(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []CategoryTotalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 0 {
		t.Errorf("Expected empty array, got %+v", response)
	}
}

func TestGetWeekly_Success(t *testing.T) {
	e := echo.New()
	handler, repo := newDashboardHandler()

	now := time.Now().UTC()
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Groceries",
		Amount:      decimal.NewFromInt(80),
		Type:        domain.TransactionTypeExpense,
		Category:    "Food",
		Date:        now,
	})
	// Older than the 7-day window, must not appear
	repo.AddTransaction(&domain.Transaction{
		WorkspaceID: 1,
		Title:       "Holiday",
		Amount:      decimal.NewFromInt(900),
		Type:        domain.TransactionTypeExpense,
		Category:    "Travel",
		Date:        now.AddDate(0, 0, -10),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/weekly", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|dash", "dash@example.com", "Dash", 1)

	err := handler.GetWeekly(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []WeeklyPointResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 7 {
		t.Fatalf("Expected 7 points, got %d", len(response))
	}

	// Today is the last point
	last := response[6]
	if last.Expense != "80.00" {
		t.Errorf("Expected today's expense '80.00', got %s", last.Expense)
	}

	total := decimal.Zero
	for _, point := range response {
		amount, err := decimal.NewFromString(point.Expense)
		if err != nil {
			t.Fatalf("Invalid expense amount %q: %v", point.Expense, err)
		}
		total = total.Add(amount)
	}
	if !total.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected weekly total 80, got %s", total)
	}
}

func TestGetWeekly_MissingWorkspace(t *testing.T) {
	e := echo.New()
	handler, _ := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/weekly", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetWeekly(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
