// Package interfaces defines cache operation contracts for content management.
package interfaces

import (
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
)

// ContentCache defines operations for content caching
type ContentCache interface {
	GetPage(id string) (*content.PageNode, bool)
	SetPage(page *content.PageNode)
	GetPageIDBySlug(slug string) (string, bool)
	GetAllPageIDs() ([]string, bool)
	SetAllPageIDs(ids []string)
	InvalidatePage(id string)
	AddPageID(id string)
	RemovePageID(id string)

	GetNews(id string) (*content.NewsNode, bool)
	SetNews(news *content.NewsNode)
	GetNewsIDBySlug(slug string) (string, bool)
	GetAllNewsIDs() ([]string, bool)
	SetAllNewsIDs(ids []string)
	InvalidateNews(id string)
	AddNewsID(id string)
	RemoveNewsID(id string)

	GetMember(id string) (*content.MemberNode, bool)
	SetMember(member *content.MemberNode)
	GetMemberIDByEmail(email string) (string, bool)
	GetAllMemberIDs() ([]string, bool)
	SetAllMemberIDs(ids []string)
	InvalidateMember(id string)
	AddMemberID(id string)
	RemoveMemberID(id string)

	GetFile(id string) (*content.ImageFileNode, bool)
	SetFile(file *content.ImageFileNode)
	GetAllFileIDs() ([]string, bool)
	SetAllFileIDs(ids []string)
	InvalidateFile(id string)
	AddFileID(id string)
	RemoveFileID(id string)

	InvalidateContentCache()
}

// Cache composes all cache contracts plus maintenance operations
type Cache interface {
	ContentCache

	// EvictExpired drops cache sections older than their TTL and reports
	// how many entries were removed.
	EvictExpired() int
}
