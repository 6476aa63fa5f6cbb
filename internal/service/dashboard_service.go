package service

import (
	"time"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/domain"
)

// DashboardService derives the balance card, category breakdown and weekly
// chart from a workspace's transactions. All aggregation is done in memory on
// top of the repository's row set.
type DashboardService struct {
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{transactionRepo: transactionRepo}
}

// GetBalance returns the income/expense/balance totals for the transactions
// matching filter.
func (s *DashboardService) GetBalance(workspaceID int32, filter domain.Filter) (*domain.BalanceSummary, error) {
	filtered, err := s.load(workspaceID, filter)
	if err != nil {
		return nil, err
	}

	summary := domain.ComputeTotals(filtered)
	return &summary, nil
}

// GetCategoryBreakdown returns per-category totals for the transactions
// matching filter, in first-seen order.
func (s *DashboardService) GetCategoryBreakdown(workspaceID int32, filter domain.Filter) ([]domain.CategoryTotal, error) {
	filtered, err := s.load(workspaceID, filter)
	if err != nil {
		return nil, err
	}

	return domain.ComputeCategoryBreakdown(filtered), nil
}

// GetWeeklySeries returns the last 7 days of expense totals, oldest first.
// The series ignores list filters; it always covers the whole workspace.
func (s *DashboardService) GetWeeklySeries(workspaceID int32) ([]domain.WeeklyPoint, error) {
	filtered, err := s.load(workspaceID, domain.Filter{})
	if err != nil {
		return nil, err
	}

	return domain.ComputeWeeklySeries(filtered, time.Now().UTC()), nil
}

func (s *DashboardService) load(workspaceID int32, filter domain.Filter) ([]*domain.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	return domain.ApplyFilter(transactions, filter, time.Now().UTC()), nil
}
