package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
)

// SecurityScheme names the bearer scheme in the OpenAPI document. Operations
// listing it in their Security require a token.
const SecurityScheme = "bearer"

// Security is the operation requirement for authenticated endpoints.
var Security = []map[string][]string{{SecurityScheme: {}}}

// BearerScheme is the OpenAPI definition of SecurityScheme.
var BearerScheme = &huma.SecurityScheme{
	Type:         "http",
	Scheme:       "bearer",
	BearerFormat: "JWT",
}

// Middleware authenticates operations that require SecurityScheme and
// answers 401 for a missing or bad token.
func Middleware(api huma.API, authenticator *Authenticator) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx.Operation()) {
			next(ctx)
			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := authenticator.Authenticate(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}

		next(huma.WithContext(ctx, WithUserID(ctx.Context(), userID)))
	}
}

func requiresAuth(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, requirement := range op.Security {
		if _, ok := requirement[SecurityScheme]; ok {
			return true
		}
	}
	return false
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorizedMessage(err error) string {
	switch err {
	case ErrTokenExpired:
		return "Token expired"
	case ErrInvalidClaim:
		return "Invalid token payload"
	}
	return "Invalid token"
}

// Require returns the authenticated user, or a 401 error when the request
// did not pass through Middleware.
func Require(ctx context.Context) (uuid.UUID, error) {
	userID, ok := UserID(ctx)
	if !ok {
		return uuid.Nil, apierror.Unauthorized(ctx, "Not authenticated")
	}
	return userID, nil
}
