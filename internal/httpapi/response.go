package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"news_portal/internal/domain"
)

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	HTTPStatusCode int `json:"-"`

	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func (resp *Response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, resp.HTTPStatusCode)
	return nil
}

func OK(data interface{}) *Response {
	return &Response{HTTPStatusCode: http.StatusOK, Success: true, Data: data}
}

func Created(data interface{}) *Response {
	return &Response{HTTPStatusCode: http.StatusCreated, Success: true, Data: data}
}

func WithMessage(resp *Response, message string) *Response {
	resp.Message = message
	return resp
}

func ErrInvalidRequest(err error) *Response {
	return &Response{HTTPStatusCode: http.StatusBadRequest, Message: err.Error()}
}

// ErrorResponse maps a service error to its status code. Unclassified
// errors are reported without detail.
func ErrorResponse(err error) *Response {
	var (
		validation   *domain.ValidationError
		invalidID    *domain.InvalidIDError
		unauthorized *domain.UnauthorizedError
		notFound     *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		return &Response{HTTPStatusCode: http.StatusBadRequest, Message: validation.Error()}
	case errors.As(err, &invalidID):
		return &Response{HTTPStatusCode: http.StatusBadRequest, Message: invalidID.Error()}
	case errors.As(err, &unauthorized):
		return &Response{HTTPStatusCode: http.StatusUnauthorized, Message: unauthorized.Error()}
	case errors.As(err, &notFound):
		return &Response{HTTPStatusCode: http.StatusNotFound, Message: notFound.Error()}
	default:
		return &Response{HTTPStatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}
