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

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID   string `json:"account_id" required:"true" doc:"Account UUID owned by the caller"`
	CategoryID  string `json:"category_id,omitempty" doc:"Category UUID, predicted from the description when omitted"`
	Type        string `json:"type" required:"true" enum:"income,expense,transfer" doc:"Transaction type"`
	Amount      string `json:"amount" required:"true" doc:"Non-negative decimal amount with at most two places" example:"45000.00"`
	Currency    string `json:"currency,omitempty" doc:"ISO currency code, defaults to the reporting currency"`
	Description string `json:"description,omitempty" maxLength:"500" doc:"Free text description"`
	OccurredAt  string `json:"occurred_at" required:"true" doc:"RFC3339 instant the transaction happened"`
	Status      string `json:"status,omitempty" doc:"predicted or confirmed, defaults to confirmed"`
	Source      string `json:"source,omitempty" doc:"Where the transaction came from, defaults to manual"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, draft service.TransactionDraft) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/transactions",
		Summary:       "Create transaction",
		Description:   "Records a transaction. Without a category the classifier may fill one in and mark the transaction as predicted.",
		Tags:          []string{"Transactions"},
		Security:      auth.Security,
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateTransactionInput(ctx context.Context, input *CreateTransactionInput) (service.TransactionDraft, error) {
	body := input.Body
	draft := service.TransactionDraft{
		Currency:    body.Currency,
		Description: body.Description,
		Status:      service.TransactionStatus(body.Status),
		Source:      body.Source,
	}

	var err error
	if draft.AccountID, err = params.RequiredUUID(ctx, "account_id", body.AccountID); err != nil {
		return draft, err
	}
	if draft.CategoryID, err = params.UUID(ctx, "category_id", body.CategoryID); err != nil {
		return draft, err
	}
	kind, err := params.Kind(ctx, "type", body.Type)
	if err != nil {
		return draft, err
	}
	if kind == nil {
		return draft, apierror.Validation(ctx, "type", "type is required")
	}
	draft.Kind = *kind
	if draft.Amount, err = params.Amount(ctx, "amount", body.Amount); err != nil {
		return draft, err
	}
	if draft.OccurredAt, err = params.Timestamp(ctx, "occurred_at", body.OccurredAt); err != nil {
		return draft, err
	}
	return draft, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)
	userID, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := parseCreateTransactionInput(ctx, input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	created, err := h.TransactionService.CreateTransaction(ctx, userID, draft)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if apiErr := apierror.FromService(ctx, err); apiErr != nil {
			return nil, apiErr
		}
		if logData != nil {
			logData.AddData("createTransactionError", err.Error())
		}
		return nil, apierror.Internal(ctx, "failed to create transaction")
	}

	if logData != nil {
		logData.AddData("transactionID", created.ID.String())
		logData.AddData("transactionStatus", string(created.Status))
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   fromService(*created),
	}, nil
}
