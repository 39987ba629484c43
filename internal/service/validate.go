package service

import (
	"strings"

	"news_portal/internal/domain"
)

func validateNew(in domain.NewArticle) error {
	var missing []string
	if isBlank(in.Title) {
		missing = append(missing, "title")
	}
	if isBlank(in.Content) {
		missing = append(missing, "content")
	}
	if isBlank(in.Category) {
		missing = append(missing, "category")
	}
	if isBlank(in.Author) {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}

	if in.MediaPreference != "" && !in.MediaPreference.Valid() {
		return &domain.ValidationError{Fields: []string{"mediaPreference"}, Reason: "invalid value"}
	}

	return nil
}

func validatePatch(p domain.ArticlePatch) error {
	var empty []string
	if p.Title != nil && isBlank(*p.Title) {
		empty = append(empty, "title")
	}
	if p.Content != nil && isBlank(*p.Content) {
		empty = append(empty, "content")
	}
	if p.Category != nil && isBlank(*p.Category) {
		empty = append(empty, "category")
	}
	if p.Author != nil && isBlank(*p.Author) {
		empty = append(empty, "author")
	}
	if len(empty) > 0 {
		return &domain.ValidationError{Fields: empty, Reason: "required fields cannot be empty"}
	}

	if p.MediaPreference != nil && !p.MediaPreference.Valid() {
		return &domain.ValidationError{Fields: []string{"mediaPreference"}, Reason: "invalid value"}
	}
	if p.Stype != nil && *p.Stype != "" && *p.Stype != domain.StypePinned {
		return &domain.ValidationError{Fields: []string{"stype"}, Reason: "invalid value"}
	}
	if p.Live != nil && *p.Live != "" && *p.Live != domain.LiveOn {
		return &domain.ValidationError{Fields: []string{"live"}, Reason: "invalid value"}
	}

	return nil
}

func normalizePatch(p domain.ArticlePatch) domain.ArticlePatch {
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		p.Title = &v
	}
	if p.Category != nil {
		v := strings.TrimSpace(*p.Category)
		p.Category = &v
	}
	if p.Author != nil {
		v := strings.TrimSpace(*p.Author)
		p.Author = &v
	}
	if p.Tags != nil {
		tags := normalizeTags(*p.Tags)
		p.Tags = &tags
	}
	return p
}

// normalizeTags trims labels and drops blanks and duplicates, keeping the
// first occurrence order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
