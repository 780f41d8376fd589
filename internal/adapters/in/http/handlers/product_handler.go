// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	usecase "digitalstore/internal/application/usecase"
	categorydom "digitalstore/internal/domain/category"
	productdom "digitalstore/internal/domain/product"
	userdom "digitalstore/internal/domain/user"
)

// Upload size cap for product images.
const maxImageBytes = 10 << 20 // 10 MiB

// ProductHandler serves /products endpoints. Reads are public; mutations run
// through the authorization gate with the product capabilities and always
// attribute ownership to the authenticated principal.
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

func NewProductHandler(uc *usecase.CatalogUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tail := pathTail(r.URL.Path, "/products/")
	id, sub := tail, ""
	if i := strings.IndexByte(tail, '/'); i >= 0 {
		id, sub = tail[:i], tail[i+1:]
	}

	switch {
	case r.Method == http.MethodGet && tail == "":
		h.list(w, r)
	case r.Method == http.MethodPost && tail == "":
		h.create(w, r)
	case r.Method == http.MethodPost && sub == "image":
		h.uploadImage(w, r, id)
	case r.Method == http.MethodGet && sub == "":
		h.get(w, r, id)
	case r.Method == http.MethodPatch && id != "" && sub == "":
		h.update(w, r, id)
	case r.Method == http.MethodDelete && id != "" && sub == "":
		h.delete(w, r, id)
	case tail == "":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

// GET /products/?name=<query>&category=<id>&seller=<id>
func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.uc.ListProducts(r.Context(), productdom.Filter{
		NameQuery:  q.Get("name"),
		CategoryID: q.Get("category"),
		SellerID:   q.Get("seller"),
	})
	if err != nil {
		writeProductErr(w, err)
		return
	}
	if out == nil {
		out = []productdom.Product{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /products/{id}
func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productCreateBody struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryIDs []string        `json:"category_ids"`
}

// POST /products/
func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body productCreateBody
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := h.uc.CreateProduct(r.Context(), principal, usecase.ProductInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		CategoryIDs: body.CategoryIDs,
	})
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type productUpdateBody struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryIDs *[]string        `json:"category_ids"`
}

// PATCH /products/{id}
func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body productUpdateBody
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := h.uc.UpdateProduct(r.Context(), principal, id, usecase.ProductUpdateInput{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		CategoryIDs: body.CategoryIDs,
	})
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DELETE /products/{id}
func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := h.uc.DeleteProduct(r.Context(), principal, id); err != nil {
		writeProductErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /products/{id}/image  (multipart field "image")
func (h *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return
	}
	if len(data) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	p, err := h.uc.AttachProductImage(r.Context(), principal, id, header.Filename, contentType, data)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeProductErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, productdom.ErrInvalidID),
		errors.Is(err, productdom.ErrInvalidName),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, productdom.ErrInvalidSellerID),
		errors.Is(err, usecase.ErrCatalogInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, productdom.ErrNotFound), errors.Is(err, categorydom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, userdom.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, usecase.ErrImageStoreMissing):
		code = http.StatusServiceUnavailable
	}
	writeError(w, code, err.Error())
}
