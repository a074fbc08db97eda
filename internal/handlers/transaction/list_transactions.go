package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/handlers/params"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	StartDate  string `query:"start_date" doc:"YYYY-MM-DD in the ledger timezone, inclusive" example:"2025-02-01"`
	EndDate    string `query:"end_date" doc:"YYYY-MM-DD in the ledger timezone, inclusive" example:"2025-02-28"`
	CategoryID string `query:"category_id" doc:"Only this category"`
	Type       string `query:"type" doc:"Only this type: income, expense or transfer"`
	Q          string `query:"q" doc:"Case insensitive search in the description"`
	Page       int    `query:"page" default:"1" doc:"Page number, values below 1 are reset to 1"`
	PageSize   int    `query:"page_size" default:"20" doc:"Page size, values below 1 use 20 and values above 100 are capped"`
}

// Pagination describes the page served and any corrections made to the request.
type Pagination struct {
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalItems int      `json:"total_items"`
	TotalPages int      `json:"total_pages" doc:"0 when there are no items"`
	Warnings   []string `json:"warnings" doc:"Corrections applied to page and page_size, null when none"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Items      []Transaction `json:"items" doc:"Page of transactions, newest first"`
	Pagination Pagination    `json:"pagination"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, query service.TransactionQuery) (*service.TransactionsPage, error)
}

// ListTransactionsHandler handles GET /transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/transactions",
		Summary:     "List transactions",
		Description: "Returns a page of the caller's transactions, newest first, with optional date, category, type and text filters.",
		Tags:        []string{"Transactions"},
		Security:    auth.Security,
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input. Paging is
// passed through untouched for the service to normalize.
func parseListTransactionsInput(ctx context.Context, input *ListTransactionsInput) (service.TransactionQuery, error) {
	query := service.TransactionQuery{
		Search:   input.Q,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	var err error
	if query.StartDate, err = params.Date(ctx, "start_date", input.StartDate); err != nil {
		return query, err
	}
	if query.EndDate, err = params.Date(ctx, "end_date", input.EndDate); err != nil {
		return query, err
	}
	if query.CategoryID, err = params.UUID(ctx, "category_id", input.CategoryID); err != nil {
		return query, err
	}
	if query.Kind, err = params.Kind(ctx, "type", input.Type); err != nil {
		return query, err
	}
	return query, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	userID, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	query, err := parseListTransactionsInput(ctx, input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	page, err := h.TransactionService.ListTransactions(ctx, userID, query)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if apiErr := apierror.FromService(ctx, err); apiErr != nil {
			return nil, apiErr
		}
		if logData != nil {
			logData.AddData("listTransactionsError", err.Error())
		}
		return nil, apierror.Internal(ctx, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(page.Items))
	}

	resp := ListTransactionsResponseBody{
		Items: make([]Transaction, len(page.Items)),
		Pagination: Pagination{
			Page:       page.Pagination.Page,
			PageSize:   page.Pagination.PageSize,
			TotalItems: page.Pagination.TotalItems,
			TotalPages: page.Pagination.TotalPages,
			Warnings:   page.Pagination.Warnings,
		},
	}
	for i, tx := range page.Items {
		resp.Items[i] = fromService(tx)
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
