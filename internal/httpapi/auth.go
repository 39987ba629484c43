package httpapi

import (
	"net/http"

	"github.com/go-chi/render"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	data := &SignupRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	user, err := h.auth.Signup(r.Context(), data.Name, data.Email, data.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, Created(user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	data := &LoginRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	token, user, err := h.auth.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, OK(&LoginResponse{Token: token, User: user}))
}
