package dashboard

import (
	"github.com/carson-networks/finance-tracker/internal/handlers/params"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// Period echoes the local calendar dates the summary covers.
type Period struct {
	StartDate string `json:"start_date" doc:"First local day, inclusive" example:"2025-02-01"`
	EndDate   string `json:"end_date" doc:"Last local day, inclusive" example:"2025-02-14"`
}

// Totals are quantized to two decimals. Balance is income minus expense.
type Totals struct {
	Income  string `json:"income" example:"9000000.00"`
	Expense string `json:"expense" example:"98500.50"`
	Balance string `json:"balance" example:"8901499.50"`
}

// TopCategory is one spending category. CategoryID is null for uncategorized
// spending.
type TopCategory struct {
	CategoryID *string `json:"category_id" doc:"Category UUID, null for Uncategorized"`
	Name       string  `json:"name"`
	Amount     string  `json:"amount" example:"75000.50"`
	Type       string  `json:"type" enum:"income,expense,transfer"`
}

// Summary is the dashboard response body.
type Summary struct {
	Period        Period        `json:"period"`
	Totals        Totals        `json:"totals"`
	TopCategories []TopCategory `json:"top_categories" doc:"Largest expense categories, at most top_limit"`
	Currency      string        `json:"currency" doc:"Reporting currency, amounts are not converted" example:"IDR"`
}

func fromService(summary *service.DashboardSummary) Summary {
	out := Summary{
		Period: Period{
			StartDate: summary.Period.StartDate.String(),
			EndDate:   summary.Period.EndDate.String(),
		},
		Totals: Totals{
			Income:  params.FormatAmount(summary.Income),
			Expense: params.FormatAmount(summary.Expense),
			Balance: params.FormatAmount(summary.Balance),
		},
		TopCategories: make([]TopCategory, len(summary.TopCategories)),
		Currency:      summary.Currency,
	}
	for i, top := range summary.TopCategories {
		out.TopCategories[i] = TopCategory{
			CategoryID: params.OptionalID(top.CategoryID),
			Name:       top.Name,
			Amount:     params.FormatAmount(top.Amount),
			Type:       string(top.Kind),
		}
	}
	return out
}
