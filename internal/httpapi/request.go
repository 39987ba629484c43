package httpapi

import (
	"errors"
	"net/http"

	"news_portal/internal/domain"
)

type CreateArticleRequest struct {
	*domain.NewArticle

	ProtectedID string `json:"id"` // ids are assigned by the server
}

func (a *CreateArticleRequest) Bind(r *http.Request) error {
	if a.NewArticle == nil {
		return errors.New("missing required article fields")
	}
	a.ProtectedID = ""
	return nil
}

// UpdateArticleRequest embeds the patch by value so its null-aware
// UnmarshalJSON decodes the whole body.
type UpdateArticleRequest struct {
	domain.ArticlePatch
}

func (u *UpdateArticleRequest) Bind(r *http.Request) error {
	return nil
}

// ActionRequest is the admin toggle payload of PATCH /api/news.
type ActionRequest struct {
	ID              string                  `json:"id"`
	Action          string                  `json:"action"`
	MediaPreference *domain.MediaPreference `json:"mediaPreference"`
}

func (a *ActionRequest) Bind(r *http.Request) error {
	if a.Action == "" {
		return errors.New("missing action")
	}
	return nil
}

type LiveRequest struct {
	Live *bool `json:"live"`
}

func (l *LiveRequest) Bind(r *http.Request) error {
	if l.Live == nil {
		return errors.New("missing live flag")
	}
	return nil
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *SignupRequest) Bind(r *http.Request) error {
	if s.Email == "" || s.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l *LoginRequest) Bind(r *http.Request) error {
	if l.Email == "" || l.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
