package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/websocket"
)

// textPattern restricts titles and categories to letters and whitespace,
// matching the client-side input mask.
var textPattern = regexp.MustCompile(`^[A-Za-z\s]*$`)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, publisher websocket.EventPublisher) *TransactionService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Title    string
	Amount   decimal.Decimal
	Type     domain.TransactionType
	Category string
	Date     time.Time
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(workspaceID int32, input CreateTransactionInput) (*domain.Transaction, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	category, err := validateCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	// Default date to today if not provided
	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if date.After(time.Now().UTC()) {
		return nil, domain.ErrFutureDate
	}

	transaction := &domain.Transaction{
		WorkspaceID: workspaceID,
		Title:       title,
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    category,
		Date:        date,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(workspaceID, websocket.TransactionCreated(created))

	return created, nil
}

// ListTransactions retrieves the workspace's transactions matching filter.
// Filtering happens in memory after loading the workspace's live rows.
func (s *TransactionService) ListTransactions(workspaceID int32, filter domain.Filter) ([]*domain.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	return domain.ApplyFilter(transactions, filter, time.Now().UTC()), nil
}

// GetTransaction retrieves a transaction by ID within a workspace
func (s *TransactionService) GetTransaction(workspaceID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(workspaceID, id)
}

// UpdateTransactionInput holds the partial input for updating a transaction;
// nil fields are left unchanged
type UpdateTransactionInput struct {
	Title    *string
	Amount   *decimal.Decimal
	Type     *domain.TransactionType
	Category *string
	Date     *time.Time
}

// UpdateTransaction updates an existing transaction with validation
func (s *TransactionService) UpdateTransaction(workspaceID int32, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	data := &domain.UpdateTransactionData{}
	changed := false

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		data.Title = &title
		changed = true
	}

	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		data.Amount = input.Amount
		changed = true
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidType
		}
		data.Type = input.Type
		changed = true
	}

	if input.Category != nil {
		category, err := validateCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		data.Category = &category
		changed = true
	}

	if input.Date != nil {
		if input.Date.After(time.Now().UTC()) {
			return nil, domain.ErrFutureDate
		}
		data.Date = input.Date
		changed = true
	}

	if !changed {
		return nil, domain.ErrNoFieldsToUpdate
	}

	updated, err := s.transactionRepo.Update(workspaceID, id, data)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(workspaceID, websocket.TransactionUpdated(updated))

	return updated, nil
}

// DeleteTransaction soft deletes a transaction
func (s *TransactionService) DeleteTransaction(workspaceID int32, id int32) error {
	transaction, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}

	s.publisher.Publish(workspaceID, websocket.TransactionDeleted(transaction))

	return nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return "", domain.ErrTitleTooLong
	}
	if !textPattern.MatchString(title) {
		return "", domain.ErrTitleInvalid
	}
	return title, nil
}

func validateCategory(raw string) (string, error) {
	category := strings.TrimSpace(raw)
	if category == "" {
		return "", domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return "", domain.ErrCategoryTooLong
	}
	if !textPattern.MatchString(category) {
		return "", domain.ErrCategoryInvalid
	}
	return category, nil
}

func validateFilter(filter domain.Filter) error {
	switch filter.Type {
	case "", domain.FilterAll, string(domain.TransactionTypeIncome), string(domain.TransactionTypeExpense):
	default:
		return domain.ErrInvalidType
	}
	if !filter.Period.Valid() {
		return domain.ErrInvalidPeriod
	}
	return nil
}
