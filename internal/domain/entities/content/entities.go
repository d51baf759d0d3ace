// Package content defines the application's core content-related domain entities.
package content

import "time"

// Page statuses form a one-way editorial flow: draft → published → archived.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// PageNode is one editable page. Markup, Stylesheet and OptionsPayload hold
// the three redundant encodings of the persisted content artifact.
type PageNode struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	NodeType       string         `json:"nodeType"`
	Slug           string         `json:"slug"`
	Status         string         `json:"status"`
	Weight         int            `json:"weight"`
	ParentID       *string        `json:"parentId,omitempty"`
	Markup         string         `json:"markup"`
	Stylesheet     string         `json:"stylesheet"`
	OptionsPayload map[string]any `json:"optionsPayload,omitempty"`
	Created        time.Time      `json:"created"`
	Changed        *time.Time     `json:"changed,omitempty"`
}

// NewsNode is one news entry managed by the admin.
type NewsNode struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	NodeType    string     `json:"nodeType"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Created     time.Time  `json:"created"`
	Changed     *time.Time `json:"changed,omitempty"`
}

// MemberNode is one site member record.
type MemberNode struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	NodeType  string     `json:"nodeType"`
	FirstName string     `json:"firstName"`
	Role      string     `json:"role"`
	Bio       string     `json:"bio,omitempty"`
	Created   time.Time  `json:"created"`
	Changed   *time.Time `json:"changed,omitempty"`
}

// ImageFileNode is one media catalog entry. Files live on disk under the
// media base path; URL and SrcSet are the serving paths.
type ImageFileNode struct {
	ID             string  `json:"id"`
	Filename       string  `json:"filename"`
	NodeType       string  `json:"nodeType"`
	AltDescription string  `json:"altDescription"`
	URL            string  `json:"url"`
	SrcSet         *string `json:"srcSet,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
}
