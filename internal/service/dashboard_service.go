package service

import (
	"bytes"
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/finance-tracker/internal/storage"
	"github.com/carson-networks/finance-tracker/internal/storage/model"
)

const (
	DefaultTopLimit = 5
	MaxTopLimit     = 10
)

// TopCategory is one entry of the spending breakdown. CategoryID is nil for
// the Uncategorized group.
type TopCategory struct {
	CategoryID *uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Kind       TransactionKind
}

// DashboardSummary holds the totals of one period in the reporting currency.
type DashboardSummary struct {
	Period        Period
	Income        decimal.Decimal
	Expense       decimal.Decimal
	Balance       decimal.Decimal
	TopCategories []TopCategory
	Currency      string
}

// DashboardService computes read-only summaries.
type DashboardService struct {
	storage  *storage.Storage
	currency string
}

func NewDashboardService(store *storage.Storage, currency string) *DashboardService {
	return &DashboardService{storage: store, currency: currency}
}

// Quantize rounds to 2 decimal places, half away from zero.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampTopLimit bounds limit to [1, MaxTopLimit].
func ClampTopLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxTopLimit {
		return MaxTopLimit
	}
	return limit
}

// Summarize totals the user's income and expense in period and ranks the
// expense categories. Amounts are summed in every currency as one figure.
func (s *DashboardService) Summarize(ctx context.Context, userID uuid.UUID, period Period, topLimit int) (*DashboardSummary, error) {
	window := model.Window{From: period.Start, To: period.End}

	var income, expense decimal.Decimal
	var groups []*model.CategoryTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.storage.Transactions.SumByKind(gctx, userID, window, model.KindIncome)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = s.storage.Transactions.SumByKind(gctx, userID, window, model.KindExpense)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.storage.Transactions.SumGroupedByCategory(gctx, userID, window, model.KindExpense)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	incomeQ := Quantize(income)
	expenseQ := Quantize(expense)

	return &DashboardSummary{
		Period:        period,
		Income:        incomeQ,
		Expense:       expenseQ,
		Balance:       incomeQ.Sub(expenseQ),
		TopCategories: RankCategories(groups, ClampTopLimit(topLimit)),
		Currency:      s.currency,
	}, nil
}

// RankCategories orders groups by amount descending, breaking ties by category
// id ascending with the Uncategorized group last, and keeps the first limit.
func RankCategories(groups []*model.CategoryTotal, limit int) []TopCategory {
	sorted := make([]*model.CategoryTotal, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if cmp := a.Amount.Cmp(b.Amount); cmp != 0 {
			return cmp > 0
		}
		switch {
		case a.CategoryID == nil:
			return false
		case b.CategoryID == nil:
			return true
		}
		return bytes.Compare(a.CategoryID.Bytes(), b.CategoryID.Bytes()) < 0
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	top := make([]TopCategory, len(sorted))
	for i, group := range sorted {
		top[i] = TopCategory{
			CategoryID: group.CategoryID,
			Name:       group.Name,
			Amount:     Quantize(group.Amount),
			Kind:       group.Kind,
		}
	}
	return top
}
