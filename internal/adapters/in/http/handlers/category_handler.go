// internal/adapters/in/http/handlers/category_handler.go
package handlers

import (
	"errors"
	"net/http"

	usecase "digitalstore/internal/application/usecase"
	categorydom "digitalstore/internal/domain/category"
	userdom "digitalstore/internal/domain/user"
)

// CategoryHandler serves /categories endpoints. Reads are public; mutations
// require an authenticated principal holding the category capabilities.
type CategoryHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCategoryHandler(uc *usecase.CatalogUsecase) http.Handler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := pathTail(r.URL.Path, "/categories/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.list(w, r)
	case r.Method == http.MethodPost && id == "":
		h.create(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodPut && id != "":
		h.update(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.delete(w, r, id)
	case id == "":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

// GET /categories/?name=<query>
func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.ListCategories(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeCategoryErr(w, err)
		return
	}
	if out == nil {
		out = []categorydom.Category{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /categories/{id}
func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.uc.GetCategory(r.Context(), id)
	if err != nil {
		writeCategoryErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type categoryBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /categories/
func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body categoryBody
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := h.uc.CreateCategory(r.Context(), principal, usecase.CategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeCategoryErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// PUT /categories/{id}
func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body categoryBody
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := h.uc.UpdateCategory(r.Context(), principal, id, usecase.CategoryInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeCategoryErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DELETE /categories/{id}
func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := h.uc.DeleteCategory(r.Context(), principal, id); err != nil {
		writeCategoryErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCategoryErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, categorydom.ErrInvalidID),
		errors.Is(err, categorydom.ErrInvalidName),
		errors.Is(err, usecase.ErrCatalogInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, categorydom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, categorydom.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, userdom.ErrForbidden):
		code = http.StatusForbidden
	}
	writeError(w, code, err.Error())
}
