package feed

import (
	"strings"

	"golang.org/x/text/cases"

	"news_portal/internal/config"
	"news_portal/internal/domain"
)

// Matcher decides whether an article label (tag or category) belongs to a
// section label. Both sides are trimmed; with case folding enabled they are
// compared under Unicode case folding. Exact mode requires equality,
// contains mode accepts the section label anywhere in the article label.
type Matcher struct {
	contains bool
	fold     bool
}

func NewMatcher(cfg config.MatchConfig) Matcher {
	return Matcher{
		contains: cfg.Mode == "contains",
		fold:     cfg.CaseFold,
	}
}

func (m Matcher) Match(value, label string) bool {
	value = strings.TrimSpace(value)
	label = strings.TrimSpace(label)
	if label == "" || value == "" {
		return false
	}

	if m.fold {
		folder := cases.Fold()
		value = folder.String(value)
		label = folder.String(label)
	}

	if m.contains {
		return strings.Contains(value, label)
	}
	return value == label
}

// MatchAny reports whether any of values matches label.
func (m Matcher) MatchAny(values []string, label string) bool {
	for _, v := range values {
		if m.Match(v, label) {
			return true
		}
	}
	return false
}

// ByTag returns the articles carrying tag, in input order. Articles without
// tags never match.
func ByTag(articles []domain.Article, tag string, m Matcher, excludePinned bool) []domain.Article {
	out := make([]domain.Article, 0)
	for _, a := range articles {
		if excludePinned && a.IsPinned() {
			continue
		}
		if m.MatchAny(a.Tags, tag) {
			out = append(out, a)
		}
	}
	return out
}

func ByCategory(articles []domain.Article, category string, m Matcher) []domain.Article {
	out := make([]domain.Article, 0)
	for _, a := range articles {
		if m.Match(a.Category, category) {
			out = append(out, a)
		}
	}
	return out
}
