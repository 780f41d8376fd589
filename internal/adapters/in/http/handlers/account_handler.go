// internal/adapters/in/http/handlers/account_handler.go
package handlers

import (
	"errors"
	"net/http"

	usecase "digitalstore/internal/application/usecase"
	accountdom "digitalstore/internal/domain/account"
	userdom "digitalstore/internal/domain/user"
)

// AccountHandler serves /accounts endpoints: registration and email
// activation. Both are unauthenticated by nature; activation proves identity
// with the mailed token instead of a session.
type AccountHandler struct {
	accountUC *usecase.AccountUsecase
	authUC    *usecase.AuthUsecase
}

func NewAccountHandler(accountUC *usecase.AccountUsecase, authUC *usecase.AuthUsecase) http.Handler {
	return &AccountHandler{accountUC: accountUC, authUC: authUC}
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tail := pathTail(r.URL.Path, "/accounts/")

	switch {
	case r.Method == http.MethodPost && tail == "register":
		h.register(w, r)
	case r.Method == http.MethodGet && tail == "activate":
		h.activate(w, r)
	case tail == "register" || tail == "activate":
		methodNotAllowed(w)
	default:
		notFound(w)
	}
}

type registerBody struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FirebaseUID string `json:"firebase_uid"`
}

// POST /accounts/register
func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := h.accountUC.Register(r.Context(), usecase.RegisterInput{
		Username:    body.Username,
		Email:       body.Email,
		Role:        userdom.Role(body.Role),
		FirebaseUID: body.FirebaseUID,
	})
	if err != nil {
		writeAccountErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// GET /accounts/activate?uid=<subject>&token=<token>
func (h *AccountHandler) activate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	u, err := h.authUC.Activate(r.Context(), q.Get("uid"), q.Get("token"))
	if err != nil {
		writeAccountErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func writeAccountErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, userdom.ErrInvalidID),
		errors.Is(err, userdom.ErrInvalidUsername),
		errors.Is(err, userdom.ErrInvalidEmail),
		errors.Is(err, userdom.ErrInvalidRole),
		errors.Is(err, accountdom.ErrInvalidToken),
		errors.Is(err, usecase.ErrAccountInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, userdom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, userdom.ErrConflict), errors.Is(err, userdom.ErrAlreadyActive):
		code = http.StatusConflict
	}
	writeError(w, code, err.Error())
}
