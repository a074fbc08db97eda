package transaction

import (
	"github.com/carson-networks/finance-tracker/internal/handlers/params"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                  string   `json:"id" doc:"Transaction UUID"`
	AccountID           string   `json:"account_id" doc:"Account UUID"`
	CategoryID          *string  `json:"category_id" doc:"Category UUID, null when uncategorized"`
	PredictedCategoryID *string  `json:"predicted_category_id" doc:"Category suggested by the classifier"`
	PredictedConfidence *float64 `json:"predicted_confidence" doc:"Classifier confidence between 0 and 1"`
	Type                string   `json:"type" enum:"income,expense,transfer" doc:"Transaction type"`
	Amount              string   `json:"amount" doc:"Non-negative decimal amount with two places" example:"45000.00"`
	Currency            string   `json:"currency" doc:"ISO currency code" example:"IDR"`
	Description         string   `json:"description" doc:"Free text description"`
	OccurredAt          string   `json:"occurred_at" doc:"RFC3339 instant the transaction happened"`
	Status              string   `json:"status" enum:"predicted,confirmed" doc:"Whether the category was predicted or confirmed"`
	Source              string   `json:"source" doc:"Where the transaction came from" example:"manual"`
	CreatedAt           string   `json:"created_at" doc:"RFC3339 creation time"`
	UpdatedAt           string   `json:"updated_at" doc:"RFC3339 last update time"`
}

func fromService(tx service.Transaction) Transaction {
	out := Transaction{
		ID:                  tx.ID.String(),
		AccountID:           tx.AccountID.String(),
		CategoryID:          params.OptionalID(tx.CategoryID),
		PredictedCategoryID: params.OptionalID(tx.PredictedCategoryID),
		Type:                string(tx.Kind),
		Amount:              params.FormatAmount(tx.Amount),
		Currency:            tx.Currency,
		Description:         tx.Description,
		OccurredAt:          params.FormatTime(tx.OccurredAt),
		Status:              string(tx.Status),
		Source:              tx.Source,
		CreatedAt:           params.FormatTime(tx.CreatedAt),
		UpdatedAt:           params.FormatTime(tx.UpdatedAt),
	}
	if tx.PredictedConfidence != nil {
		confidence := tx.PredictedConfidence.InexactFloat64()
		out.PredictedConfidence = &confidence
	}
	return out
}
