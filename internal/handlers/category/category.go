package category

import (
	"github.com/carson-networks/finance-tracker/internal/handlers/params"
	"github.com/carson-networks/finance-tracker/internal/service"
)

// Category is the API response model for a category. UserID is null for
// global categories.
type Category struct {
	ID     string  `json:"id" doc:"Category UUID"`
	Name   string  `json:"name" doc:"Category name"`
	Type   string  `json:"type" doc:"income, expense or transfer"`
	UserID *string `json:"user_id" doc:"Owner UUID, null for global categories"`
}

func fromService(c service.Category) Category {
	return Category{
		ID:     c.ID.String(),
		Name:   c.Name,
		Type:   string(c.Kind),
		UserID: params.OptionalID(c.UserID),
	}
}
