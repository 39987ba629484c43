package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"news_portal/internal/domain"
)

// ListArticles serves GET /api/news. pinned=true returns the pinned article,
// id returns a single article, otherwise the list filtered by title and
// category.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("pinned") == "true" {
		pinned, err := h.articles.GetPinned(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.respond(w, r, OK(pinned))
		return
	}

	if id := q.Get("id"); id != "" {
		article, err := h.articles.GetByID(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.respond(w, r, OK(article))
		return
	}

	articles, err := h.articles.List(r.Context(), domain.ArticleFilter{
		Title:    q.Get("title"),
		Category: q.Get("category"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, OK(articles))
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetByID(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, OK(article))
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &CreateArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	article, err := h.articles.Create(r.Context(), *data.NewArticle)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, Created(article))
}

func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &UpdateArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	article, err := h.articles.Update(r.Context(), chi.URLParam(r, "articleID"), data.ArticlePatch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, OK(article))
}

// ArticleAction serves PATCH /api/news with {id, action, mediaPreference}.
func (h *Handler) ArticleAction(w http.ResponseWriter, r *http.Request) {
	data := &ActionRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	var (
		article *domain.Article
		message string
		err     error
	)

	switch {
	case data.Action == "pin":
		article, err = h.articles.Pin(r.Context(), data.ID, data.MediaPreference)
		message = "News article pinned successfully"
	case data.Action == "unpin":
		article, err = h.articles.Unpin(r.Context(), data.ID)
		message = "News article unpinned successfully"
	case data.Action == "updateMediaPreference" && data.MediaPreference != nil:
		article, err = h.articles.SetMediaPreference(r.Context(), data.ID, *data.MediaPreference)
		message = "Media preference updated"
	default:
		h.respond(w, r, ErrInvalidRequest(fmt.Errorf("invalid action %q", data.Action)))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, WithMessage(OK(article), message))
}

func (h *Handler) PinArticle(w http.ResponseWriter, r *http.Request) {
	var pref *domain.MediaPreference
	if v := r.URL.Query().Get("mediaPreference"); v != "" {
		p := domain.MediaPreference(v)
		pref = &p
	}

	article, err := h.articles.Pin(r.Context(), chi.URLParam(r, "articleID"), pref)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, WithMessage(OK(article), "News article pinned successfully"))
}

func (h *Handler) UnpinArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.Unpin(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, WithMessage(OK(article), "News article unpinned successfully"))
}

func (h *Handler) SetLive(w http.ResponseWriter, r *http.Request) {
	data := &LiveRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	article, err := h.articles.SetLive(r.Context(), chi.URLParam(r, "articleID"), *data.Live)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, OK(article))
}

func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.articles.Delete(r.Context(), chi.URLParam(r, "articleID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, WithMessage(OK(nil), "News article deleted successfully"))
}
