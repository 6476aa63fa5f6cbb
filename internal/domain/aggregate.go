package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// This file holds the pure aggregation functions behind the balance card, the
// pie charts and the weekly bar chart. They take plain values and a caller
// supplied clock, never touch a repository, and never return errors.

// ApplyFilter returns the transactions matching every predicate of filter,
// preserving input order. Transactions dated after now are always excluded,
// so the list views never show future-dated entries.
func ApplyFilter(transactions []*Transaction, filter Filter, now time.Time) []*Transaction {
	periodStart, hasPeriod := filter.Period.Start(now)

	out := make([]*Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.After(now) {
			continue
		}
		if filter.Type != "" && filter.Type != FilterAll && string(t.Type) != filter.Type {
			continue
		}
		if filter.Category != "" && filter.Category != FilterAll && t.Category != filter.Category {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if hasPeriod && t.Date.Before(periodStart) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// BalanceSummary holds the income/expense/balance totals shown on the balance card.
type BalanceSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ComputeTotals sums income and expense amounts and derives the balance.
//
// The expense total is capped at the income total: expenses are accumulated in
// input order, and any expense whose addition would push the running total
// past income is skipped outright. Which expenses get dropped therefore
// depends on list order. The displayed expense can never exceed income.
func ComputeTotals(transactions []*Transaction) BalanceSummary {
	income := decimal.Zero
	for _, t := range transactions {
		if t.Type == TransactionTypeIncome {
			income = income.Add(t.Amount)
		}
	}

	expense := decimal.Zero
	for _, t := range transactions {
		if t.Type != TransactionTypeExpense {
			continue
		}
		next := expense.Add(t.Amount)
		if next.LessThanOrEqual(income) {
			expense = next
		}
	}

	return BalanceSummary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// CategoryTotal is one slice of the category pie chart.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeCategoryBreakdown groups amounts by exact category string. Categories
// appear in first-seen order so the output is deterministic; casing and
// whitespace are not normalized.
func ComputeCategoryBreakdown(transactions []*Transaction) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, t := range transactions {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
	}
	return out
}

// WeeklyPoint is one bar of the weekly expense chart.
type WeeklyPoint struct {
	Day     string          `json:"day"`
	Expense decimal.Decimal `json:"expense"`
}

// ComputeWeeklySeries returns exactly 7 points covering today-6 through today
// in chronological order. Each point sums the expenses whose date falls on
// that calendar day; labels are day/month without zero padding. The income cap
// from ComputeTotals does not apply here.
func ComputeWeeklySeries(transactions []*Transaction, today time.Time) []WeeklyPoint {
	points := make([]WeeklyPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)

		total := decimal.Zero
		for _, t := range transactions {
			if t.Type == TransactionTypeExpense && sameCalendarDay(t.Date, day) {
				total = total.Add(t.Amount)
			}
		}

		points = append(points, WeeklyPoint{
			Day:     fmt.Sprintf("%d/%d", day.Day(), int(day.Month())),
			Expense: total,
		})
	}
	return points
}

// sameCalendarDay compares by calendar day, not timestamp range, so two
// transactions stamped at different times on the same day share a bucket.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
