package category

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

type CreateCategoryBody struct {
	Name string `json:"name" minLength:"1" maxLength:"100" doc:"Category name"`
	Type string `json:"type" enum:"income,expense,transfer" doc:"Category type"`
}

type CreateCategoryInput struct {
	Body CreateCategoryBody
}

type CreateCategoryOutput struct {
	Status int
	Body   Category
}

type categoryCreator interface {
	CreateCategory(ctx context.Context, userID uuid.UUID, name string, kind service.TransactionKind) (*service.Category, error)
}

// CreateCategoryHandler handles POST /categories.
type CreateCategoryHandler struct {
	CategoryService categoryCreator
}

func NewCreateCategoryHandler(svc categoryCreator) *CreateCategoryHandler {
	return &CreateCategoryHandler{CategoryService: svc}
}

func (h *CreateCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/categories",
		Summary:       "Create a category",
		Description:   "Creates a category visible only to the caller.",
		Tags:          []string{"Categories"},
		Security:      auth.Security,
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateCategoryHandler) handle(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
	logData := logging.GetLogData(ctx)
	userID, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}

	kind, err := params.Kind(ctx, "type", input.Body.Type)
	if err != nil {
		return nil, err
	}
	if kind == nil {
		return nil, apierror.Validation(ctx, "type", "type is required")
	}

	created, err := h.CategoryService.CreateCategory(ctx, userID, input.Body.Name, *kind)
	if err != nil {
		if apiErr := apierror.FromService(ctx, err); apiErr != nil {
			return nil, apiErr
		}
		if logData != nil {
			logData.AddData("createCategoryError", err.Error())
		}
		return nil, apierror.Internal(ctx, "failed to create category")
	}

	if logData != nil {
		logData.AddData("categoryID", created.ID.String())
	}

	return &CreateCategoryOutput{
		Status: http.StatusCreated,
		Body:   fromService(*created),
	}, nil
}
