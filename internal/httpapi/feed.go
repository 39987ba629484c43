package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"news_portal/internal/domain"
	"news_portal/internal/feed"
)

// HomeFeed serves GET /api/feed/home. expand takes a comma separated list
// of section keys whose "see more" is open.
func (h *Handler) HomeFeed(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context(), domain.ArticleFilter{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	pinned, err := h.articles.GetPinned(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	home := h.composer.ComposeHome(articles, pinned, feed.Options{Expand: parseExpand(r)})
	h.respond(w, r, OK(home))
}

func (h *Handler) DetailFeed(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetByID(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	articles, err := h.articles.List(r.Context(), domain.ArticleFilter{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	detail := h.composer.ComposeDetail(*article, articles, feed.Options{Expand: parseExpand(r)})
	h.respond(w, r, OK(detail))
}

func parseExpand(r *http.Request) map[string]bool {
	expand := make(map[string]bool)
	for _, v := range r.URL.Query()["expand"] {
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				expand[key] = true
			}
		}
	}
	return expand
}
