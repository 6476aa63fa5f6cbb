package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single recorded income or expense event.
type Transaction struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

// FilterPeriod is a relative, now-anchored time window.
type FilterPeriod string

const (
	PeriodAll          FilterPeriod = "all"
	PeriodLastWeek     FilterPeriod = "1week"
	PeriodLastMonth    FilterPeriod = "1month"
	PeriodLastSixMonth FilterPeriod = "6months"
	PeriodLastYear     FilterPeriod = "1year"
)

// Valid reports whether p is one of the known periods. The empty string is
// accepted and treated as PeriodAll.
func (p FilterPeriod) Valid() bool {
	switch p {
	case "", PeriodAll, PeriodLastWeek, PeriodLastMonth, PeriodLastSixMonth, PeriodLastYear:
		return true
	}
	return false
}

// Start returns the inclusive lower bound of the window anchored at now.
// The second return value is false for PeriodAll (no lower bound).
func (p FilterPeriod) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodLastWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodLastMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodLastSixMonth:
		return now.AddDate(0, -6, 0), true
	case PeriodLastYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// FilterAll is the wildcard value for the type and category filter fields.
const FilterAll = "all"

// Filter narrows which transactions are displayed and aggregated.
// The zero value matches everything (except future-dated entries, which
// ApplyFilter always excludes).
type Filter struct {
	Type      string       // FilterAll, "income" or "expense"
	Category  string       // FilterAll or an exact category string
	StartDate *time.Time   // inclusive lower bound on Date
	Period    FilterPeriod // relative window anchored at now
}

// TransactionRepository defines the interface for transaction persistence.
// ListByWorkspace returns the workspace's live transactions ordered by date
// descending; filtering beyond ownership happens in memory via ApplyFilter.
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(workspaceID int32, id int32) (*Transaction, error)
	ListByWorkspace(workspaceID int32) ([]*Transaction, error)
	Update(workspaceID int32, id int32, data *UpdateTransactionData) (*Transaction, error)
	SoftDelete(workspaceID int32, id int32) error
}

// UpdateTransactionData carries a partial field set for an update; nil fields
// are left unchanged.
type UpdateTransactionData struct {
	Title    *string
	Amount   *decimal.Decimal
	Type     *TransactionType
	Category *string
	Date     *time.Time
}
