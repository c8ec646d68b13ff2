package domain

import "time"

// Comment is one entry of a group's discussion thread.
type Comment struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AvatarColor string    `json:"avatarColor"`
	RoleLabel   string    `json:"roleLabel,omitempty"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       int       `json:"likes"`
}

// Like adjusts the like counter by +1 or -1. The counter never drops below
// zero, whatever order like and unlike calls arrive in.
func (c *Comment) Like(isLike bool) {
	if isLike {
		c.Likes++
		return
	}
	if c.Likes > 0 {
		c.Likes--
	}
}

// Role labels shown next to comment authors.
const (
	RoleLabelHost     = "Host"
	RoleLabelExplorer = "Explorer"
)
