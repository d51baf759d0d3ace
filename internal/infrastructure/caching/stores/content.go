// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/types"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// ContentStore implements content caching operations
type ContentStore struct {
	cache *types.ContentCache
}

// NewContentStore creates a new content cache store
func NewContentStore() *ContentStore {
	return &ContentStore{
		cache: types.NewContentCache(),
	}
}

// =============================================================================
// Page Operations
// =============================================================================

func (cs *ContentStore) GetPage(id string) (*content.PageNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	page, exists := cs.cache.Pages[id]
	return page, exists
}

func (cs *ContentStore) SetPage(page *content.PageNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Pages[page.ID] = page
	cs.cache.PageSlugToID[page.Slug] = page.ID
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetPageIDBySlug(slug string) (string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	id, exists := cs.cache.PageSlugToID[slug]
	return id, exists
}

func (cs *ContentStore) GetAllPageIDs() ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	if cs.cache.PagesLoadedAt.IsZero() {
		return nil, false
	}
	return append([]string(nil), cs.cache.AllPageIDs...), true
}

func (cs *ContentStore) SetAllPageIDs(ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllPageIDs = append([]string(nil), ids...)
	cs.cache.PagesLoadedAt = time.Now().UTC()
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidatePage(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if page, exists := cs.cache.Pages[id]; exists {
		delete(cs.cache.PageSlugToID, page.Slug)
	}
	delete(cs.cache.Pages, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) AddPageID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if cs.cache.PagesLoadedAt.IsZero() {
		return
	}
	for _, existing := range cs.cache.AllPageIDs {
		if existing == id {
			return
		}
	}
	cs.cache.AllPageIDs = append(cs.cache.AllPageIDs, id)
}

func (cs *ContentStore) RemovePageID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllPageIDs = removeID(cs.cache.AllPageIDs, id)
}

// =============================================================================
// News Operations
// =============================================================================

func (cs *ContentStore) GetNews(id string) (*content.NewsNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	item, exists := cs.cache.News[id]
	return item, exists
}

func (cs *ContentStore) SetNews(news *content.NewsNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.News[news.ID] = news
	cs.cache.NewsSlugToID[news.Slug] = news.ID
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetNewsIDBySlug(slug string) (string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	id, exists := cs.cache.NewsSlugToID[slug]
	return id, exists
}

func (cs *ContentStore) GetAllNewsIDs() ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	if cs.cache.NewsLoadedAt.IsZero() {
		return nil, false
	}
	return append([]string(nil), cs.cache.AllNewsIDs...), true
}

func (cs *ContentStore) SetAllNewsIDs(ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllNewsIDs = append([]string(nil), ids...)
	cs.cache.NewsLoadedAt = time.Now().UTC()
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidateNews(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if item, exists := cs.cache.News[id]; exists {
		delete(cs.cache.NewsSlugToID, item.Slug)
	}
	delete(cs.cache.News, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) AddNewsID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if cs.cache.NewsLoadedAt.IsZero() {
		return
	}
	for _, existing := range cs.cache.AllNewsIDs {
		if existing == id {
			return
		}
	}
	cs.cache.AllNewsIDs = append(cs.cache.AllNewsIDs, id)
}

func (cs *ContentStore) RemoveNewsID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllNewsIDs = removeID(cs.cache.AllNewsIDs, id)
}

// =============================================================================
// Member Operations
// =============================================================================

func (cs *ContentStore) GetMember(id string) (*content.MemberNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	member, exists := cs.cache.Members[id]
	return member, exists
}

func (cs *ContentStore) SetMember(member *content.MemberNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Members[member.ID] = member
	cs.cache.MemberEmailToID[member.Email] = member.ID
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetMemberIDByEmail(email string) (string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	id, exists := cs.cache.MemberEmailToID[email]
	return id, exists
}

func (cs *ContentStore) GetAllMemberIDs() ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	if cs.cache.MembersLoadedAt.IsZero() {
		return nil, false
	}
	return append([]string(nil), cs.cache.AllMemberIDs...), true
}

func (cs *ContentStore) SetAllMemberIDs(ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllMemberIDs = append([]string(nil), ids...)
	cs.cache.MembersLoadedAt = time.Now().UTC()
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidateMember(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if member, exists := cs.cache.Members[id]; exists {
		delete(cs.cache.MemberEmailToID, member.Email)
	}
	delete(cs.cache.Members, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) AddMemberID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if cs.cache.MembersLoadedAt.IsZero() {
		return
	}
	for _, existing := range cs.cache.AllMemberIDs {
		if existing == id {
			return
		}
	}
	cs.cache.AllMemberIDs = append(cs.cache.AllMemberIDs, id)
}

func (cs *ContentStore) RemoveMemberID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllMemberIDs = removeID(cs.cache.AllMemberIDs, id)
}

// =============================================================================
// File Operations
// =============================================================================

func (cs *ContentStore) GetFile(id string) (*content.ImageFileNode, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	file, exists := cs.cache.Files[id]
	return file, exists
}

func (cs *ContentStore) SetFile(file *content.ImageFileNode) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.Files[file.ID] = file
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) GetAllFileIDs() ([]string, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	if cs.cache.FilesLoadedAt.IsZero() {
		return nil, false
	}
	return append([]string(nil), cs.cache.AllFileIDs...), true
}

func (cs *ContentStore) SetAllFileIDs(ids []string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllFileIDs = append([]string(nil), ids...)
	cs.cache.FilesLoadedAt = time.Now().UTC()
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) InvalidateFile(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	delete(cs.cache.Files, id)
	cs.cache.LastUpdated = time.Now().UTC()
}

func (cs *ContentStore) AddFileID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	if cs.cache.FilesLoadedAt.IsZero() {
		return
	}
	for _, existing := range cs.cache.AllFileIDs {
		if existing == id {
			return
		}
	}
	cs.cache.AllFileIDs = append(cs.cache.AllFileIDs, id)
}

func (cs *ContentStore) RemoveFileID(id string) {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.cache.AllFileIDs = removeID(cs.cache.AllFileIDs, id)
}

// =============================================================================
// Maintenance
// =============================================================================

// InvalidateContentCache clears everything
func (cs *ContentStore) InvalidateContentCache() {
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()
	cs.resetLocked()
}

// EvictExpired drops cache sections older than their TTL wholesale. The
// next repository read repopulates from the database.
func (cs *ContentStore) EvictExpired() int {
	now := time.Now().UTC()
	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()

	evicted := 0

	if !cs.cache.PagesLoadedAt.IsZero() && now.Sub(cs.cache.PagesLoadedAt) > config.ContentCacheTTL {
		evicted += len(cs.cache.Pages)
		cs.cache.Pages = make(map[string]*content.PageNode)
		cs.cache.PageSlugToID = make(map[string]string)
		cs.cache.AllPageIDs = nil
		cs.cache.PagesLoadedAt = time.Time{}
	}
	if !cs.cache.NewsLoadedAt.IsZero() && now.Sub(cs.cache.NewsLoadedAt) > config.ContentCacheTTL {
		evicted += len(cs.cache.News)
		cs.cache.News = make(map[string]*content.NewsNode)
		cs.cache.NewsSlugToID = make(map[string]string)
		cs.cache.AllNewsIDs = nil
		cs.cache.NewsLoadedAt = time.Time{}
	}
	if !cs.cache.MembersLoadedAt.IsZero() && now.Sub(cs.cache.MembersLoadedAt) > config.ContentCacheTTL {
		evicted += len(cs.cache.Members)
		cs.cache.Members = make(map[string]*content.MemberNode)
		cs.cache.MemberEmailToID = make(map[string]string)
		cs.cache.AllMemberIDs = nil
		cs.cache.MembersLoadedAt = time.Time{}
	}
	if !cs.cache.FilesLoadedAt.IsZero() && now.Sub(cs.cache.FilesLoadedAt) > config.FileCacheTTL {
		evicted += len(cs.cache.Files)
		cs.cache.Files = make(map[string]*content.ImageFileNode)
		cs.cache.AllFileIDs = nil
		cs.cache.FilesLoadedAt = time.Time{}
	}

	if evicted > 0 {
		cs.cache.LastUpdated = now
	}
	return evicted
}

func (cs *ContentStore) resetLocked() {
	cs.cache.Pages = make(map[string]*content.PageNode)
	cs.cache.News = make(map[string]*content.NewsNode)
	cs.cache.Members = make(map[string]*content.MemberNode)
	cs.cache.Files = make(map[string]*content.ImageFileNode)
	cs.cache.PageSlugToID = make(map[string]string)
	cs.cache.NewsSlugToID = make(map[string]string)
	cs.cache.MemberEmailToID = make(map[string]string)
	cs.cache.AllPageIDs = nil
	cs.cache.AllNewsIDs = nil
	cs.cache.AllMemberIDs = nil
	cs.cache.AllFileIDs = nil
	cs.cache.PagesLoadedAt = time.Time{}
	cs.cache.NewsLoadedAt = time.Time{}
	cs.cache.MembersLoadedAt = time.Time{}
	cs.cache.FilesLoadedAt = time.Time{}
	cs.cache.LastUpdated = time.Now().UTC()
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
