// Package feed derives display sections for the home and detail pages from
// the article set. Everything here is a pure function of its input: nothing
// is stored, nothing is mutated and nothing fails.
package feed

import (
	"sort"
	"time"

	"news_portal/internal/config"
	"news_portal/internal/domain"
)

const (
	SectionRecent    = "recent"
	SectionAll       = "all"
	SectionOtherNews = "other_news"
	SectionVideos    = "videos"
	SectionRelated   = "related"
)

// Item is an article prepared for display.
type Item struct {
	domain.Article
	Media    Media `json:"media"`
	IsLive   bool  `json:"isLive"`
	IsPinned bool  `json:"isPinned"`
}

// Section is a named, possibly truncated list of items. Total counts every
// member; HasMore is set when the list was cut at its limit.
type Section struct {
	Key      string `json:"key"`
	Label    string `json:"label,omitempty"`
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	HasMore  bool   `json:"hasMore"`
	Expanded bool   `json:"expanded"`
}

// Home is the home page view model. The pinned item always owns the top
// slot; the live flag is an overlay on any item.
type Home struct {
	Pinned           *Item     `json:"pinned"`
	TagSections      []Section `json:"tagSections"`
	CategorySections []Section `json:"categorySections"`
	Recent           Section   `json:"recent"`
	All              Section   `json:"all"`
	OtherNews        Section   `json:"otherNews"`
	Videos           Section   `json:"videos"`
}

type Detail struct {
	Article   Item    `json:"article"`
	Related   Section `json:"related"`
	OtherNews Section `json:"otherNews"`
}

type Options struct {
	// Now anchors the recency window. Zero means the composer's clock.
	Now time.Time
	// Expand lists section keys whose "see more" is open.
	Expand map[string]bool
}

type Composer struct {
	cfg           config.FeedConfig
	tagMatch      Matcher
	categoryMatch Matcher
	now           func() time.Time
}

func NewComposer(cfg config.FeedConfig) *Composer {
	return &Composer{
		cfg:           cfg,
		tagMatch:      NewMatcher(cfg.TagMatch),
		categoryMatch: NewMatcher(cfg.CategoryMatch),
		now:           time.Now,
	}
}

func (c *Composer) ComposeHome(articles []domain.Article, pinned *domain.Article, opts Options) *Home {
	now := c.resolveNow(opts)

	home := &Home{
		TagSections:      make([]Section, 0, len(c.cfg.TagSections)),
		CategorySections: make([]Section, 0, len(c.cfg.CategorySections)),
	}

	if pinned != nil {
		item := NewItem(*pinned)
		home.Pinned = &item
	}

	for _, sc := range c.cfg.TagSections {
		members := ByTag(articles, sc.Label, c.tagMatch, sc.ExcludePinned)
		home.TagSections = append(home.TagSections,
			Page(sc.Key, sc.Label, members, sc.Limit, opts.Expand[sc.Key]))
	}

	for _, sc := range c.cfg.CategorySections {
		members := ByCategory(articles, sc.Label, c.categoryMatch)
		home.CategorySections = append(home.CategorySections,
			Page(sc.Key, sc.Label, members, sc.Limit, opts.Expand[sc.Key]))
	}

	home.Recent = Page(SectionRecent, "", Recent(articles, now, c.cfg.RecentWindow), 0, true)
	home.All = Page(SectionAll, "", articles, c.cfg.AllLimit, opts.Expand[SectionAll])
	home.OtherNews = Page(SectionOtherNews, "", NonPinned(articles), c.cfg.OtherNewsLimit, opts.Expand[SectionOtherNews])
	home.Videos = Page(SectionVideos, "", WithVideo(articles), c.cfg.VideosLimit, opts.Expand[SectionVideos])

	return home
}

// ComposeDetail builds the detail page: the article itself, others from the
// same category and the general sidebar, both without the article.
func (c *Composer) ComposeDetail(article domain.Article, articles []domain.Article, opts Options) *Detail {
	others := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID != article.ID {
			others = append(others, a)
		}
	}

	related := make([]domain.Article, 0)
	for _, a := range others {
		if c.categoryMatch.Match(a.Category, article.Category) {
			related = append(related, a)
		}
	}

	return &Detail{
		Article:   NewItem(article),
		Related:   Page(SectionRelated, article.Category, related, c.cfg.RelatedLimit, opts.Expand[SectionRelated]),
		OtherNews: Page(SectionOtherNews, "", NonPinned(others), c.cfg.OtherNewsLimit, opts.Expand[SectionOtherNews]),
	}
}

func (c *Composer) resolveNow(opts Options) time.Time {
	if !opts.Now.IsZero() {
		return opts.Now
	}
	return c.now()
}

func NewItem(a domain.Article) Item {
	return Item{
		Article:  a.Clone(),
		Media:    ResolveMedia(a),
		IsLive:   a.IsLive(),
		IsPinned: a.IsPinned(),
	}
}

// Page turns members into a section. A limit of zero or less, or an
// expanded section, shows every member.
func Page(key, label string, members []domain.Article, limit int, expanded bool) Section {
	shown := members
	hasMore := false
	if !expanded && limit > 0 && len(members) > limit {
		shown = members[:limit]
		hasMore = true
	}

	items := make([]Item, 0, len(shown))
	for _, a := range shown {
		items = append(items, NewItem(a))
	}

	return Section{
		Key:      key,
		Label:    label,
		Items:    items,
		Total:    len(members),
		HasMore:  hasMore,
		Expanded: expanded && limit > 0 && len(members) > limit,
	}
}

// Recent returns the articles created within window before now, newest
// first. Equal timestamps keep input order.
func Recent(articles []domain.Article, now time.Time, window time.Duration) []domain.Article {
	cutoff := now.Add(-window)
	out := make([]domain.Article, 0)
	for _, a := range articles {
		if a.CreatedAt.After(cutoff) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func NonPinned(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if !a.IsPinned() {
			out = append(out, a)
		}
	}
	return out
}

func WithVideo(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, 0)
	for _, a := range articles {
		if a.VideoURL != nil && *a.VideoURL != "" {
			out = append(out, a)
		}
	}
	return out
}
