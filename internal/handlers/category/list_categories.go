package category

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

// ListCategoriesOutput is the Huma output for listing categories.
type ListCategoriesOutput struct {
	Body []Category
}

type categoryLister interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]service.Category, error)
}

// ListCategoriesHandler handles GET /categories.
type ListCategoriesHandler struct {
	CategoryService categoryLister
}

func NewListCategoriesHandler(svc categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{CategoryService: svc}
}

func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "List categories",
		Description: "Returns the global categories followed by the caller's own, ordered by type and name.",
		Tags:        []string{"Categories"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	logData := logging.GetLogData(ctx)
	userID, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := h.CategoryService.ListCategories(ctx, userID)
	if err != nil {
		if logData != nil {
			logData.AddData("listCategoriesError", err.Error())
		}
		return nil, apierror.Internal(ctx, "failed to list categories")
	}

	if logData != nil {
		logData.AddData("categoryCount", len(categories))
	}

	resp := make([]Category, len(categories))
	for i, c := range categories {
		resp[i] = fromService(c)
	}
	return &ListCategoriesOutput{Body: resp}, nil
}
