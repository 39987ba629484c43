package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StypePinned = "pinned"
	LiveOn      = "live"
)

type MediaPreference string

const (
	MediaImage MediaPreference = "image"
	MediaVideo MediaPreference = "video"
)

func (m MediaPreference) Valid() bool {
	return m == MediaImage || m == MediaVideo
}

type Article struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        string          `json:"category"`
	Author          string          `json:"author"`
	Tags            []string        `json:"tag"`
	ImageURL        *string         `json:"imageUrl,omitempty"`
	VideoURL        *string         `json:"videoUrl,omitempty"`
	MediaPreference MediaPreference `json:"mediaPreference"`
	Stype           *string         `json:"stype"`
	Live            *string         `json:"live"`
	PublishedAt     time.Time       `json:"publishedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (a *Article) IsPinned() bool {
	return a.Stype != nil && *a.Stype == StypePinned
}

func (a *Article) IsLive() bool {
	return a.Live != nil && *a.Live == LiveOn
}

func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand articles out of a store
// without sharing slices or pointers.
func (a Article) Clone() Article {
	c := a
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}
	c.ImageURL = clonePtr(a.ImageURL)
	c.VideoURL = clonePtr(a.VideoURL)
	c.Stype = clonePtr(a.Stype)
	c.Live = clonePtr(a.Live)
	return c
}

// NewArticle holds the fields accepted on creation.
type NewArticle struct {
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        string          `json:"category"`
	Author          string          `json:"author"`
	Tags            []string        `json:"tag"`
	ImageURL        *string         `json:"imageUrl"`
	VideoURL        *string         `json:"videoUrl"`
	MediaPreference MediaPreference `json:"mediaPreference"`
}

// ArticlePatch is a partial update. Nil fields are left untouched; an empty
// Stype, Live, ImageURL or VideoURL clears that field.
type ArticlePatch struct {
	Title           *string          `json:"title"`
	Content         *string          `json:"content"`
	Category        *string          `json:"category"`
	Author          *string          `json:"author"`
	Tags            *[]string        `json:"tag"`
	ImageURL        *string          `json:"imageUrl"`
	VideoURL        *string          `json:"videoUrl"`
	MediaPreference *MediaPreference `json:"mediaPreference"`
	Stype           *string          `json:"stype"`
	Live            *string          `json:"live"`
}

// Apply merges the content fields of p into a. Stype and Live are toggles
// handled by the store's dedicated operations and are ignored here.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.ImageURL != nil {
		a.ImageURL = emptyToNil(*p.ImageURL)
	}
	if p.VideoURL != nil {
		a.VideoURL = emptyToNil(*p.VideoURL)
	}
	if p.MediaPreference != nil {
		a.MediaPreference = *p.MediaPreference
	}
}

// UnmarshalJSON decodes an explicit null on stype, live, imageUrl or videoUrl
// as the empty string, so null clears the field instead of being dropped.
func (p *ArticlePatch) UnmarshalJSON(data []byte) error {
	type plain ArticlePatch
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, field := range map[string]**string{
		"stype":    &p.Stype,
		"live":     &p.Live,
		"imageUrl": &p.ImageURL,
		"videoUrl": &p.VideoURL,
	} {
		if v, ok := raw[key]; ok && string(v) == "null" {
			empty := ""
			*field = &empty
		}
	}
	return nil
}

// HasContent reports whether the patch touches anything besides the toggles.
func (p ArticlePatch) HasContent() bool {
	return p.Title != nil || p.Content != nil || p.Category != nil || p.Author != nil ||
		p.Tags != nil || p.ImageURL != nil || p.VideoURL != nil || p.MediaPreference != nil
}

type ArticleFilter struct {
	Title    string
	Category string
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
