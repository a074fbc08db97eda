package account

import "github.com/carson-networks/finance-tracker/internal/service"

// Account is the API response model for an account.
type Account struct {
	ID       string `json:"id" doc:"Account UUID"`
	Name     string `json:"name" doc:"Account name"`
	Type     string `json:"type" doc:"Free-form account type such as cash or bank"`
	Currency string `json:"currency" doc:"ISO currency code"`
}

func fromService(acc service.Account) Account {
	return Account{
		ID:       acc.ID.String(),
		Name:     acc.Name,
		Type:     acc.Type,
		Currency: acc.Currency,
	}
}
