// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "digitalstore/internal/application/usecase"
	orderdom "digitalstore/internal/domain/order"
)

// OrderHandler serves /orders endpoints. Orders are only visible to the
// customer who placed them; a foreign order id answers 404, not 403.
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tail := pathTail(r.URL.Path, "/orders/")
	id, sub := tail, ""
	if i := strings.IndexByte(tail, '/'); i >= 0 {
		id, sub = tail[:i], tail[i+1:]
	}

	switch {
	case r.Method == http.MethodGet && tail == "":
		h.list(w, r)
	case r.Method == http.MethodGet && sub == "":
		h.get(w, r, id)
	case r.Method == http.MethodPatch && id != "" && sub == "status":
		h.updateStatus(w, r, id)
	case tail == "":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

// GET /orders/
func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	out, err := h.uc.ListByCustomer(r.Context(), principal)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	if out == nil {
		out = []orderdom.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /orders/{id}
func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	o, err := h.uc.Get(r.Context(), principal, id)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusBody struct {
	Status string `json:"status"`
}

// PATCH /orders/{id}/status  {"status": "processing"}
func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body statusBody
	if !decodeBody(w, r, &body) {
		return
	}
	o, err := h.uc.UpdateStatus(r.Context(), principal, id, orderdom.Status(body.Status))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func writeOrderErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, orderdom.ErrInvalidStatus),
		errors.Is(err, usecase.ErrOrderInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, orderdom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, orderdom.ErrConflict):
		code = http.StatusConflict
	}
	writeError(w, code, err.Error())
}
