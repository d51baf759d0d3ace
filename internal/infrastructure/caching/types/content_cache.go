// Package types defines cache data structures
package types

import (
	"sync"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
)

// ContentCache holds the in-memory content cache. Repositories fill it
// lazily from the database; the cleanup worker evicts sections past their
// TTL wholesale so the next read reloads from storage.
type ContentCache struct {
	Mu sync.RWMutex

	Pages   map[string]*content.PageNode
	News    map[string]*content.NewsNode
	Members map[string]*content.MemberNode
	Files   map[string]*content.ImageFileNode

	PageSlugToID    map[string]string
	NewsSlugToID    map[string]string
	MemberEmailToID map[string]string

	// ID lists are only authoritative when the matching LoadedAt is set.
	AllPageIDs   []string
	AllNewsIDs   []string
	AllMemberIDs []string
	AllFileIDs   []string

	PagesLoadedAt   time.Time
	NewsLoadedAt    time.Time
	MembersLoadedAt time.Time
	FilesLoadedAt   time.Time

	LastUpdated time.Time
}

// NewContentCache creates an empty content cache
func NewContentCache() *ContentCache {
	return &ContentCache{
		Pages:           make(map[string]*content.PageNode),
		News:            make(map[string]*content.NewsNode),
		Members:         make(map[string]*content.MemberNode),
		Files:           make(map[string]*content.ImageFileNode),
		PageSlugToID:    make(map[string]string),
		NewsSlugToID:    make(map[string]string),
		MemberEmailToID: make(map[string]string),
		LastUpdated:     time.Now().UTC(),
	}
}
