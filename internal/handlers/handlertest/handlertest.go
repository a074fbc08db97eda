// Package handlertest builds a test API wired the way the server wires its
// router: trace ids, the shared error body and bearer authentication.
package handlertest

import (
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

// API is a test API plus a signed-in user.
type API struct {
	humatest.TestAPI
	UserID uuid.UUID
	// Auth is the Authorization header line for UserID.
	Auth string
}

// New creates the API. register adds the handlers under test.
func New(t *testing.T, register func(api huma.API)) *API {
	t.Helper()
	apierror.Install()

	router := chi.NewRouter()
	router.Use(logging.TraceMiddleware)

	config := huma.DefaultConfig("finance-tracker test", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		auth.SecurityScheme: auth.BearerScheme,
	}
	api := humachi.New(router, config)

	authenticator := auth.NewAuthenticator("handlertest-secret", time.Hour)
	api.UseMiddleware(auth.Middleware(api, authenticator))
	register(api)

	userID := uuid.Must(uuid.NewV4())
	token, err := authenticator.Issue(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	return &API{
		TestAPI: humatest.Wrap(t, api),
		UserID:  userID,
		Auth:    "Authorization: Bearer " + token,
	}
}
