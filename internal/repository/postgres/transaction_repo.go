package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Amounts travel as strings so numeric values never pass through float64.
const transactionColumns = `id, workspace_id, title, amount::text, type, category, transaction_date, created_at, updated_at, deleted_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO transactions (workspace_id, title, amount, type, category, transaction_date)
		 VALUES ($1, $2, $3::numeric, $4, $5, $6)
		 RETURNING `+transactionColumns,
		transaction.WorkspaceID,
		transaction.Title,
		transaction.Amount.String(),
		string(transaction.Type),
		transaction.Category,
		transaction.Date,
	)
	return scanTransaction(row)
}

// GetByID retrieves a live transaction by ID within a workspace
func (r *TransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	return scanTransaction(row)
}

// ListByWorkspace returns the workspace's live transactions, newest first
func (r *TransactionRepository) ListByWorkspace(workspaceID int32) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE workspace_id = $1 AND deleted_at IS NULL
		 ORDER BY transaction_date DESC, id DESC`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// Update applies a partial update; nil fields keep their current value
func (r *TransactionRepository) Update(workspaceID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	var amount *string
	if data.Amount != nil {
		s := data.Amount.String()
		amount = &s
	}
	var txType *string
	if data.Type != nil {
		s := string(*data.Type)
		txType = &s
	}

	row := r.pool.QueryRow(context.Background(),
		`UPDATE transactions SET
		   title = COALESCE($3, title),
		   amount = COALESCE($4::numeric, amount),
		   type = COALESCE($5, type),
		   category = COALESCE($6, category),
		   transaction_date = COALESCE($7, transaction_date),
		   updated_at = now()
		 WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		 RETURNING `+transactionColumns,
		workspaceID, id,
		stringPtrToPgText(data.Title),
		stringPtrToPgText(amount),
		stringPtrToPgText(txType),
		stringPtrToPgText(data.Category),
		data.Date,
	)
	return scanTransaction(row)
}

// SoftDelete marks a transaction as deleted without removing the row
func (r *TransactionRepository) SoftDelete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE transactions SET deleted_at = now(), updated_at = now()
		 WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id          int32
		workspaceID int32
		title       string
		amountText  string
		txType      string
		category    string
		date        pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
		deletedAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &workspaceID, &title, &amountText, &txType, &category, &date, &createdAt, &updatedAt, &deletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ID:          id,
		WorkspaceID: workspaceID,
		Title:       title,
		Amount:      amount,
		Type:        domain.TransactionType(txType),
		Category:    category,
		Date:        date.Time,
		CreatedAt:   createdAt.Time,
		UpdatedAt:   updatedAt.Time,
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		transaction.DeletedAt = &t
	}
	return transaction, nil
}
