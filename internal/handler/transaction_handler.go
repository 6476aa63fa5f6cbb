package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/middleware"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Title    string  `json:"title"`
	Amount   string  `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     *string `json:"date,omitempty"`
}

// UpdateTransactionRequest represents the partial update request body
type UpdateTransactionRequest struct {
	Title    *string `json:"title,omitempty"`
	Amount   *string `json:"amount,omitempty"`
	Type     *string `json:"type,omitempty"`
	Category *string `json:"category,omitempty"`
	Date     *string `json:"date,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID        int32  `json:"id"`
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		Title:     t.Title,
		Amount:    t.Amount.StringFixed(2),
		Type:      string(t.Type),
		Category:  t.Category,
		Date:      t.Date.Format("2006-01-02"),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date time.Time
	if req.Date != nil && *req.Date != "" {
		date, err = time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	transaction, err := h.transactionService.CreateTransaction(workspaceID, service.CreateTransactionInput{
		Title:    req.Title,
		Amount:   amount,
		Type:     domain.TransactionType(req.Type),
		Category: req.Category,
		Date:     date,
	})
	if err != nil {
		if fieldErr := transactionFieldError(err); fieldErr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transaction_id", transaction.ID).Str("title", transaction.Title).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description Get transactions with optional type, category, date and period filters
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type (all, income or expense)"
// @Param category query string false "Category (all or exact name)"
// @Param startDate query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param period query string false "Relative period (all, 1week, 1month, 6months, 1year)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filter, err := parseFilter(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	transactions, err := h.transactionService.ListTransactions(workspaceID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidType) || errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Invalid filter", nil)
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, toTransactionResponse(t))
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partially update a transaction; omitted fields keep their value
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransactionInput{
		Title:    req.Title,
		Category: req.Category,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}

	if req.Type != nil {
		txType := domain.TransactionType(*req.Type)
		input.Type = &txType
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(workspaceID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrNoFieldsToUpdate) {
			return NewValidationError(c, "No fields to update", nil)
		}
		if fieldErr := transactionFieldError(err); fieldErr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Soft delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// transactionFieldError maps a domain validation error to a field error, or
// nil if err is not a validation error.
func transactionFieldError(err error) *ValidationError {
	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		return &ValidationError{Field: "title", Message: "Title is required"}
	case errors.Is(err, domain.ErrTitleTooLong):
		return &ValidationError{Field: "title", Message: "Title must be 255 characters or less"}
	case errors.Is(err, domain.ErrTitleInvalid):
		return &ValidationError{Field: "title", Message: "Title must contain only letters and spaces"}
	case errors.Is(err, domain.ErrCategoryRequired):
		return &ValidationError{Field: "category", Message: "Category is required"}
	case errors.Is(err, domain.ErrCategoryTooLong):
		return &ValidationError{Field: "category", Message: "Category must be 100 characters or less"}
	case errors.Is(err, domain.ErrCategoryInvalid):
		return &ValidationError{Field: "category", Message: "Category must contain only letters and spaces"}
	case errors.Is(err, domain.ErrInvalidAmount):
		return &ValidationError{Field: "amount", Message: "Amount must be positive"}
	case errors.Is(err, domain.ErrInvalidType):
		return &ValidationError{Field: "type", Message: "Type must be one of: income, expense"}
	case errors.Is(err, domain.ErrFutureDate):
		return &ValidationError{Field: "date", Message: "Date cannot be in the future"}
	}
	return nil
}

// parseFilter builds a domain.Filter from query parameters
func parseFilter(c echo.Context) (domain.Filter, error) {
	filter := domain.Filter{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
		Period:   domain.FilterPeriod(c.QueryParam("period")),
	}

	if raw := c.QueryParam("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.Filter{}, errors.New("startDate must be in YYYY-MM-DD format")
		}
		filter.StartDate = &parsed
	}

	return filter, nil
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}
