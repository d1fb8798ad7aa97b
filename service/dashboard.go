package service

import (
	"context"
	"sort"

	"moneymanager/models"

	"github.com/shopspring/decimal"
)

// Dashboard 仪表盘汇总
type Dashboard struct {
	RecentTransactions []models.RecentTransaction `json:"recent_transactions"`
	Balance            decimal.Decimal            `json:"balance"`
	TotalIncome        decimal.Decimal            `json:"total_income"`
	TotalExpense       decimal.Decimal            `json:"total_expense"`
	Last5Incomes       []models.Transaction       `json:"last5_incomes"`
	Last5Expenses      []models.Transaction       `json:"last5_expenses"`
}

// DashboardService 每次调用都重新计算，不做缓存
type DashboardService struct {
	transactions *TransactionService
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(transactions *TransactionService) *DashboardService {
	return &DashboardService{transactions: transactions}
}

// Summary 汇总当前用户的最近收支、合计与结余
func (s *DashboardService) Summary(ctx context.Context, profileID uint) (*Dashboard, error) {
	incomes, err := s.transactions.LatestN(ctx, profileID, models.KindIncome, DefaultLatestLimit)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactions.LatestN(ctx, profileID, models.KindExpense, DefaultLatestLimit)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.transactions.Total(ctx, profileID, models.KindIncome)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.transactions.Total(ctx, profileID, models.KindExpense)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		RecentTransactions: MergeRecent(incomes, expenses),
		Balance:            totalIncome.Sub(totalExpense),
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Last5Incomes:       incomes,
		Last5Expenses:      expenses,
	}, nil
}

// MergeRecent 合并收入与支出并按创建时间倒序排列（不是交易日期）
// 创建时间相同时保持输入顺序：先收入后支出
func MergeRecent(incomes, expenses []models.Transaction) []models.RecentTransaction {
	merged := make([]models.RecentTransaction, 0, len(incomes)+len(expenses))
	for _, in := range incomes {
		merged = append(merged, in.ToRecent())
	}
	for _, ex := range expenses {
		merged = append(merged, ex.ToRecent())
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
