package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id int32, typ TransactionType, category string, amount float64, date time.Time) *Transaction {
	return &Transaction{
		ID:       id,
		Title:    "Test",
		Amount:   decimal.NewFromFloat(amount),
		Type:     typ,
		Category: category,
		Date:     date,
	}
}

func TestApplyFilter_AllIsIdentity(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, now.AddDate(0, 0, -3)),
		tx(2, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, -2)),
		tx(3, TransactionTypeExpense, "Groceries", 300, now.AddDate(0, 0, -1)),
	}

	filter := Filter{Type: FilterAll, Category: FilterAll, Period: PeriodAll}
	got := ApplyFilter(transactions, filter, now)

	require.Len(t, got, 3)
	for i, want := range transactions {
		assert.Same(t, want, got[i], "order must be preserved")
	}
}

func TestApplyFilter_ZeroValueFilterMatchesEverything(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, now.AddDate(0, 0, -3)),
		tx(2, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, -2)),
	}

	got := ApplyFilter(transactions, Filter{}, now)
	assert.Len(t, got, 2)
}

func TestApplyFilter_ExcludesFutureDated(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, now.AddDate(0, 0, -1)),
		tx(2, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, 1)),
	}

	got := ApplyFilter(transactions, Filter{}, now)

	require.Len(t, got, 1)
	assert.Equal(t, int32(1), got[0].ID)
}

func TestApplyFilter_NowBoundary(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Fuel", 100, now),
		tx(2, TransactionTypeExpense, "Fuel", 100, now.Add(time.Millisecond)),
	}

	got := ApplyFilter(transactions, Filter{}, now)

	require.Len(t, got, 1, "dated exactly now is included, one millisecond later is not")
	assert.Equal(t, int32(1), got[0].ID)
}

func TestApplyFilter_ByType(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, now.AddDate(0, 0, -3)),
		tx(2, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, -2)),
		tx(3, TransactionTypeIncome, "Bonus", 500, now.AddDate(0, 0, -1)),
	}

	got := ApplyFilter(transactions, Filter{Type: string(TransactionTypeIncome)}, now)

	require.Len(t, got, 2)
	for _, g := range got {
		assert.Equal(t, TransactionTypeIncome, g.Type)
	}
}

func TestApplyFilter_ByCategoryExactCaseSensitive(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, -2)),
		tx(2, TransactionTypeExpense, "fuel", 100, now.AddDate(0, 0, -2)),
		tx(3, TransactionTypeExpense, "Groceries", 300, now.AddDate(0, 0, -1)),
	}

	got := ApplyFilter(transactions, Filter{Category: "Fuel"}, now)

	require.Len(t, got, 1)
	assert.Equal(t, int32(1), got[0].ID)
}

func TestApplyFilter_StartDateInclusive(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Fuel", 200, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
		tx(2, TransactionTypeExpense, "Fuel", 100, start),
		tx(3, TransactionTypeExpense, "Fuel", 50, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)),
	}

	got := ApplyFilter(transactions, Filter{StartDate: &start}, now)

	require.Len(t, got, 2)
	assert.Equal(t, int32(2), got[0].ID)
	assert.Equal(t, int32(3), got[1].ID)
}

func TestApplyFilter_Period(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, -10)),
		tx(2, TransactionTypeExpense, "Fuel", 100, now.AddDate(0, 0, -3)),
		tx(3, TransactionTypeIncome, "Salary", 1000, now.AddDate(0, -2, 0)),
	}

	tests := []struct {
		period  FilterPeriod
		wantIDs []int32
	}{
		{PeriodLastWeek, []int32{2}},
		{PeriodLastMonth, []int32{1, 2}},
		{PeriodLastSixMonth, []int32{1, 2, 3}},
		{PeriodLastYear, []int32{1, 2, 3}},
		{PeriodAll, []int32{1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(string(tc.period), func(t *testing.T) {
			got := ApplyFilter(transactions, Filter{Period: tc.period}, now)
			ids := make([]int32, len(got))
			for i, g := range got {
				ids[i] = g.ID
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestApplyFilter_CombinedPredicatesAreConjunctive(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, now.AddDate(0, 0, -2)),
		tx(2, TransactionTypeExpense, "Fuel", 200, now.AddDate(0, 0, -2)),
		tx(3, TransactionTypeExpense, "Fuel", 100, now.AddDate(0, 0, -20)),
	}

	got := ApplyFilter(transactions, Filter{
		Type:     string(TransactionTypeExpense),
		Category: "Fuel",
		Period:   PeriodLastWeek,
	}, now)

	require.Len(t, got, 1)
	assert.Equal(t, int32(2), got[0].ID)
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil)
	assert.True(t, got.Income.IsZero())
	assert.True(t, got.Expense.IsZero())
	assert.True(t, got.Balance.IsZero())
}

func TestComputeTotals_ExpenseCappedAtIncome(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, date),
		tx(2, TransactionTypeExpense, "Fuel", 200, date),
		tx(3, TransactionTypeExpense, "Rent", 900, date),
	}

	got := ComputeTotals(transactions)

	// 200 fits under the cap, adding 900 would push the running total to
	// 1100 > 1000, so the 900 expense is skipped outright.
	assert.True(t, got.Income.Equal(decimal.NewFromInt(1000)), "income = %s", got.Income)
	assert.True(t, got.Expense.Equal(decimal.NewFromInt(200)), "expense = %s", got.Expense)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(800)), "balance = %s", got.Balance)
}

func TestComputeTotals_SingleExpenseOverIncomeSkipped(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 500, date),
		tx(2, TransactionTypeExpense, "Rent", 600, date),
	}

	got := ComputeTotals(transactions)

	assert.True(t, got.Income.Equal(decimal.NewFromInt(500)))
	assert.True(t, got.Expense.IsZero())
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(500)))
}

func TestComputeTotals_CapIsOrderDependent(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// 900 first: it fits, then 200 would breach the cap and is skipped.
	got := ComputeTotals([]*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 1000, date),
		tx(2, TransactionTypeExpense, "Rent", 900, date),
		tx(3, TransactionTypeExpense, "Fuel", 200, date),
	})
	assert.True(t, got.Expense.Equal(decimal.NewFromInt(900)), "expense = %s", got.Expense)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
}

func TestComputeTotals_ExpenseEqualToIncomeIncluded(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	got := ComputeTotals([]*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 500, date),
		tx(2, TransactionTypeExpense, "Rent", 500, date),
	})
	assert.True(t, got.Expense.Equal(decimal.NewFromInt(500)))
	assert.True(t, got.Balance.IsZero())
}

func TestComputeCategoryBreakdown_FirstSeenOrder(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Food", 100, date),
		tx(2, TransactionTypeExpense, "Food", 50, date),
		tx(3, TransactionTypeExpense, "Fuel", 30, date),
	}

	got := ComputeCategoryBreakdown(transactions)

	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Category)
	assert.True(t, got[0].Total.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "Fuel", got[1].Category)
	assert.True(t, got[1].Total.Equal(decimal.NewFromInt(30)))
}

func TestComputeCategoryBreakdown_NoNormalization(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Food", 100, date),
		tx(2, TransactionTypeExpense, "food", 50, date),
		tx(3, TransactionTypeExpense, "Food ", 25, date),
	}

	got := ComputeCategoryBreakdown(transactions)

	require.Len(t, got, 3, "distinct casing and whitespace are distinct keys")
}

func TestComputeWeeklySeries(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Fuel", 200, time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)),
		tx(2, TransactionTypeExpense, "Food", 50, time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)),
		tx(3, TransactionTypeIncome, "Salary", 5000, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
	}

	got := ComputeWeeklySeries(transactions, today)

	require.Len(t, got, 7)
	wantDays := []string{"4/3", "5/3", "6/3", "7/3", "8/3", "9/3", "10/3"}
	for i, want := range wantDays {
		assert.Equal(t, want, got[i].Day)
	}

	for i, p := range got {
		switch p.Day {
		case "8/3":
			assert.True(t, p.Expense.Equal(decimal.NewFromInt(200)), "day %d", i)
		case "10/3":
			assert.True(t, p.Expense.Equal(decimal.NewFromInt(50)), "day %d", i)
		default:
			assert.True(t, p.Expense.IsZero(), "day %s should be zero", p.Day)
		}
	}
}

func TestComputeWeeklySeries_SameDayDifferentTimesShareBucket(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeExpense, "Fuel", 200, time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)),
		tx(2, TransactionTypeExpense, "Food", 100, time.Date(2024, 3, 9, 22, 45, 0, 0, time.UTC)),
	}

	got := ComputeWeeklySeries(transactions, today)

	require.Len(t, got, 7)
	assert.Equal(t, "9/3", got[5].Day)
	assert.True(t, got[5].Expense.Equal(decimal.NewFromInt(300)))
}

func TestComputeWeeklySeries_NoCapApplied(t *testing.T) {
	// Expenses exceed income; the weekly chart still shows the full amount.
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*Transaction{
		tx(1, TransactionTypeIncome, "Salary", 100, today),
		tx(2, TransactionTypeExpense, "Rent", 900, today),
	}

	got := ComputeWeeklySeries(transactions, today)

	require.Len(t, got, 7)
	assert.True(t, got[6].Expense.Equal(decimal.NewFromInt(900)))
}

func TestFilterPeriod_Valid(t *testing.T) {
	for _, p := range []FilterPeriod{"", PeriodAll, PeriodLastWeek, PeriodLastMonth, PeriodLastSixMonth, PeriodLastYear} {
		assert.True(t, p.Valid(), "period %q", p)
	}
	assert.False(t, FilterPeriod("2weeks").Valid())
}
