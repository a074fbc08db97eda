package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/handlers/account"
	"github.com/carson-networks/finance-tracker/internal/handlers/apierror"
	"github.com/carson-networks/finance-tracker/internal/handlers/category"
	"github.com/carson-networks/finance-tracker/internal/handlers/dashboard"
	"github.com/carson-networks/finance-tracker/internal/handlers/prediction"
	"github.com/carson-networks/finance-tracker/internal/handlers/status"
	"github.com/carson-networks/finance-tracker/internal/handlers/transaction"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/ratelimit"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type Rest struct {
	Logger        *logrus.Logger
	Port          string
	Storage       *storage.Storage
	Service       *service.Service
	Authenticator *auth.Authenticator
	Limiter       ratelimit.Limiter
	SummaryRule   ratelimit.Rule
	CORSOrigins   []string
}

// Router builds the HTTP handler: /status outside the API, everything else
// through Huma with bearer authentication.
func (r *Rest) Router() http.Handler {
	apierror.Install()

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(logging.TraceMiddleware)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: r.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{logging.TraceHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	statusHandler := status.NewHandler(r.Storage)
	router.Get("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	router.Group(func(group chi.Router) {
		group.Use(logging.Middleware(r.Logger))

		config := huma.DefaultConfig("Finance Tracker API", "1.0.0")
		config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
			auth.SecurityScheme: auth.BearerScheme,
		}
		api := humachi.New(group, config)
		api.UseMiddleware(auth.Middleware(api, r.Authenticator))

		r.register(api)
	})

	return router
}

func (r *Rest) register(api huma.API) {
	svc := r.Service

	account.NewListAccountsHandler(svc.Account).Register(api)
	account.NewCreateAccountHandler(svc.Account).Register(api)
	category.NewListCategoriesHandler(svc.Category).Register(api)
	category.NewCreateCategoryHandler(svc.Category).Register(api)
	transaction.NewListTransactionsHandler(svc.Transaction).Register(api)
	transaction.NewCreateTransactionHandler(svc.Transaction).Register(api)
	dashboard.NewGetSummaryHandler(svc.Periods, svc.Dashboard, r.Limiter, r.SummaryRule).Register(api)
	prediction.NewPredictCategoryHandler(svc.Prediction).Register(api)
}

// Serve listens until ctx is done and then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	return nil
}
