package category

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/handlers/handlertest"
	"github.com/carson-networks/finance-tracker/internal/service"
)

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]service.Category, error) {
	args := m.Called(ctx, userID)
	categories, _ := args.Get(0).([]service.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string, kind service.TransactionKind) (*service.Category, error) {
	args := m.Called(ctx, userID, name, kind)
	created, _ := args.Get(0).(*service.Category)
	return created, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockCategoryService) *handlertest.API {
	t.Helper()
	return handlertest.New(t, func(api huma.API) {
		NewListCategoriesHandler(svc).Register(api)
		NewCreateCategoryHandler(svc).Register(api)
	})
}

func TestHTTP_ListCategories(t *testing.T) {
	svc := new(mockCategoryService)
	api := newTestAPI(t, svc)
	userID := api.UserID
	svc.On("ListCategories", mock.Anything, userID).Return([]service.Category{
		{ID: uuid.Must(uuid.NewV4()), Name: "Makan", Kind: service.KindExpense, Global: true},
		{ID: uuid.Must(uuid.NewV4()), UserID: &userID, Name: "Kopi", Kind: service.KindExpense},
	}, nil)

	resp := api.Get("/categories", api.Auth)

	require.Equal(t, http.StatusOK, resp.Code)
	var body []Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Nil(t, body[0].UserID)
	require.NotNil(t, body[1].UserID)
	assert.Equal(t, userID.String(), *body[1].UserID)
	assert.Equal(t, "expense", body[1].Type)
}

func TestHTTP_ListCategories_ServiceError(t *testing.T) {
	svc := new(mockCategoryService)
	api := newTestAPI(t, svc)
	svc.On("ListCategories", mock.Anything, api.UserID).Return(nil, errors.New("boom"))

	resp := api.Get("/categories", api.Auth)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestHTTP_CreateCategory(t *testing.T) {
	svc := new(mockCategoryService)
	api := newTestAPI(t, svc)
	userID := api.UserID
	id := uuid.Must(uuid.NewV4())
	svc.On("CreateCategory", mock.Anything, userID, "Kopi", service.KindExpense).
		Return(&service.Category{ID: id, UserID: &userID, Name: "Kopi", Kind: service.KindExpense}, nil)

	resp := api.Post("/categories", api.Auth, map[string]any{"name": "Kopi", "type": "expense"})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, id.String(), body.ID)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateCategory_BadType(t *testing.T) {
	svc := new(mockCategoryService)
	api := newTestAPI(t, svc)

	resp := api.Post("/categories", api.Auth, map[string]any{"name": "Kopi", "type": "savings"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_CreateCategory_Unauthenticated(t *testing.T) {
	api := newTestAPI(t, new(mockCategoryService))

	resp := api.Post("/categories", map[string]any{"name": "Kopi", "type": "expense"})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
