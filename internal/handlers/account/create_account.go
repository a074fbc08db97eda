package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name     string `json:"name" minLength:"1" maxLength:"100" doc:"Account name"`
	Type     string `json:"type" minLength:"1" maxLength:"30" doc:"Account type, e.g. cash, bank, ewallet"`
	Currency string `json:"currency,omitempty" maxLength:"3" doc:"ISO currency code, defaults to the reporting currency"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, name, accountType, currency string) (*service.Account, error)
}

// CreateAccountHandler handles POST /accounts.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/accounts",
		Summary:       "Create an account",
		Description:   "Creates a new account owned by the caller.",
		Tags:          []string{"Accounts"},
		Security:      auth.Security,
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)
	userID, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	created, err := h.AccountService.CreateAccount(ctx, userID, input.Body.Name, input.Body.Type, input.Body.Currency)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if apiErr := apierror.FromService(ctx, err); apiErr != nil {
			return nil, apiErr
		}
		if logData != nil {
			logData.AddData("createAccountError", err.Error())
		}
		return nil, apierror.Internal(ctx, "failed to create account")
	}

	if logData != nil {
		logData.AddData("accountID", created.ID.String())
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   fromService(*created),
	}, nil
}
