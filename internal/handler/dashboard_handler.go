package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/middleware"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
)

// DashboardHandler handles dashboard aggregate HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// BalanceResponse represents the balance card in API responses
type BalanceResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// CategoryTotalResponse is one slice of the category breakdown
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// WeeklyPointResponse is one bar of the weekly expense chart
type WeeklyPointResponse struct {
	Day     string `json:"day"`
	Expense string `json:"expense"`
}

// GetBalance godoc
// @Summary Get balance summary
// @Description Get income, expense and balance totals for the filtered transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type (all, income or expense)"
// @Param category query string false "Category (all or exact name)"
// @Param startDate query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param period query string false "Relative period (all, 1week, 1month, 6months, 1year)"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/balance [get]
func (h *DashboardHandler) GetBalance(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filter, err := parseFilter(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	summary, err := h.dashboardService.GetBalance(workspaceID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidType) || errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Invalid filter", nil)
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to compute balance")
		return NewInternalError(c, "Failed to compute balance")
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		Income:  summary.Income.StringFixed(2),
		Expense: summary.Expense.StringFixed(2),
		Balance: summary.Balance.StringFixed(2),
	})
}

// GetCategories godoc
// @Summary Get category breakdown
// @Description Get per-category totals for the filtered transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type (all, income or expense)"
// @Param category query string false "Category (all or exact name)"
// @Param startDate query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param period query string false "Relative period (all, 1week, 1month, 6months, 1year)"
// @Success 200 {array} CategoryTotalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/categories [get]
func (h *DashboardHandler) GetCategories(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filter, err := parseFilter(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	breakdown, err := h.dashboardService.GetCategoryBreakdown(workspaceID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidType) || errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Invalid filter", nil)
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to compute category breakdown")
		return NewInternalError(c, "Failed to compute category breakdown")
	}

	response := make([]CategoryTotalResponse, 0, len(breakdown))
	for _, entry := range breakdown {
		response = append(response, CategoryTotalResponse{
			Category: entry.Category,
			Total:    entry.Total.StringFixed(2),
		})
	}

	return c.JSON(http.StatusOK, response)
}

// GetWeekly godoc
// @Summary Get weekly expense chart
// @Description Get expense totals per day for the trailing 7 days, oldest first
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WeeklyPointResponse
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/weekly [get]
func (h *DashboardHandler) GetWeekly(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	series, err := h.dashboardService.GetWeeklySeries(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to compute weekly series")
		return NewInternalError(c, "Failed to compute weekly series")
	}

	response := make([]WeeklyPointResponse, 0, len(series))
	for _, point := range series {
		response = append(response, WeeklyPointResponse{
			Day:     point.Day,
			Expense: point.Expense.StringFixed(2),
		})
	}

	return c.JSON(http.StatusOK, response)
}
