// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"digitalstore/internal/adapters/in/http/handlers"
	"digitalstore/internal/adapters/in/http/middleware"
	usecase "digitalstore/internal/application/usecase"
	userdom "digitalstore/internal/domain/user"
)

// RouterDeps collects all usecases (and other dependencies) injected from main.
type RouterDeps struct {
	AccountUC  *usecase.AccountUsecase
	AuthUC     *usecase.AuthUsecase
	CatalogUC  *usecase.CatalogUsecase
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderUsecase

	// FirebaseAuth may be nil in local development; every request then runs
	// without a principal and gated endpoints answer 401.
	FirebaseAuth *middleware.FirebaseAuthClient
	Users        userdom.Repository
}

// NewRouter sets up HTTP routing for all store endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	auth := &middleware.AuthMiddleware{
		FirebaseAuth: deps.FirebaseAuth,
		Users:        deps.Users,
		Attach:       true,
	}

	// Mount only what has its usecase wired.
	if deps.AccountUC != nil && deps.AuthUC != nil {
		mux.Handle("/accounts/", handlers.NewAccountHandler(deps.AccountUC, deps.AuthUC))
	}

	if deps.CatalogUC != nil {
		mux.Handle("/categories/", auth.Handler(handlers.NewCategoryHandler(deps.CatalogUC)))
		mux.Handle("/products/", auth.Handler(handlers.NewProductHandler(deps.CatalogUC)))
	}

	if deps.CartUC != nil && deps.CheckoutUC != nil {
		mux.Handle("/cart/", auth.Handler(handlers.NewCartHandler(deps.CartUC, deps.CheckoutUC)))
	}

	if deps.OrderUC != nil {
		mux.Handle("/orders/", auth.Handler(handlers.NewOrderHandler(deps.OrderUC)))
	}

	return mux
}
