// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	usecase "digitalstore/internal/application/usecase"
	cartdom "digitalstore/internal/domain/cart"
	productdom "digitalstore/internal/domain/product"
)

// CartHandler serves /cart endpoints for the authenticated customer. The cart
// is addressed implicitly through the principal; there is no cart id in the
// URL and no way to touch another customer's cart.
type CartHandler struct {
	cartUC     *usecase.CartUsecase
	checkoutUC *usecase.CheckoutUsecase
}

func NewCartHandler(cartUC *usecase.CartUsecase, checkoutUC *usecase.CheckoutUsecase) http.Handler {
	return &CartHandler{cartUC: cartUC, checkoutUC: checkoutUC}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tail := pathTail(r.URL.Path, "/cart/")

	switch {
	case r.Method == http.MethodGet && tail == "":
		h.get(w, r)
	case r.Method == http.MethodPost && tail == "lines":
		h.applyLineAction(w, r)
	case r.Method == http.MethodDelete && tail == "":
		h.clear(w, r)
	case r.Method == http.MethodPost && tail == "checkout":
		h.checkout(w, r)
	case tail == "" || tail == "lines" || tail == "checkout":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

type cartView struct {
	Cart  cartdom.Cart    `json:"cart"`
	Lines []cartdom.Line  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// GET /cart/
func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	c, err := h.cartUC.GetOrCreate(ctx, principal.ID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	lines, err := h.cartUC.Lines(ctx, principal.ID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	total, err := h.cartUC.TotalPrice(ctx, principal.ID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	if lines == nil {
		lines = []cartdom.Line{}
	}
	writeJSON(w, http.StatusOK, cartView{Cart: c, Lines: lines, Total: total})
}

type lineActionBody struct {
	ProductID string `json:"product_id"`
	Action    string `json:"action"`
}

// POST /cart/lines  {"product_id": "...", "action": "increase|reduce|delete"}
func (h *CartHandler) applyLineAction(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body lineActionBody
	if !decodeBody(w, r, &body) {
		return
	}
	err := h.cartUC.ApplyLineAction(r.Context(), principal.ID, body.ProductID, cartdom.LineAction(body.Action))
	if err != nil {
		writeCartErr(w, err)
		return
	}
	lines, err := h.cartUC.Lines(r.Context(), principal.ID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	if lines == nil {
		lines = []cartdom.Line{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
}

// DELETE /cart/
func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := h.cartUC.Clear(r.Context(), principal.ID); err != nil {
		writeCartErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /cart/checkout
func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	res, err := h.checkoutUC.Checkout(r.Context(), principal.ID)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	if res.EmptyCart {
		writeJSON(w, http.StatusOK, map[string]any{"empty_cart": true})
		return
	}
	writeJSON(w, http.StatusCreated, res.Order)
}

func writeCartErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, cartdom.ErrInvalidAction),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrCartInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, productdom.ErrNotFound), errors.Is(err, cartdom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, cartdom.ErrConflict):
		code = http.StatusConflict
	}
	writeError(w, code, err.Error())
}
