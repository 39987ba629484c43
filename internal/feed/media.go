package feed

import "news_portal/internal/domain"

type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type Media struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
}

// ResolveMedia picks what to render for a. The preference is honoured only
// when the preferred media exists; otherwise whichever exists is used, and
// with neither the result is MediaNone.
func ResolveMedia(a domain.Article) Media {
	image := deref(a.ImageURL)
	video := deref(a.VideoURL)

	if a.MediaPreference == domain.MediaVideo {
		if video != "" {
			return Media{Kind: MediaVideo, URL: video}
		}
		if image != "" {
			return Media{Kind: MediaImage, URL: image}
		}
		return Media{Kind: MediaNone}
	}

	if image != "" {
		return Media{Kind: MediaImage, URL: image}
	}
	if video != "" {
		return Media{Kind: MediaVideo, URL: video}
	}
	return Media{Kind: MediaNone}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
