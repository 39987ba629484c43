package domain

import "time"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionPin    = "pin"
	ActionUnpin  = "unpin"
	ActionLive   = "live"
	ActionMedia  = "media"
)

// ArticleEvent describes a completed write on the article collection.
type ArticleEvent struct {
	Action    string    `json:"action"`
	Article   Article   `json:"article"`
	Timestamp time.Time `json:"timestamp"`
}
