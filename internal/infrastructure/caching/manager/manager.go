// Package manager provides centralized cache operations by delegating to
// specialized stores.
package manager

import (
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/interfaces"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/stores"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/monitoring"
)

// Interface assertion to ensure Manager implements the cache contract.
var _ interfaces.Cache = (*Manager)(nil)

// Manager fronts the cache stores and adds hit/miss observability.
type Manager struct {
	contentStore *stores.ContentStore
	monitor      *monitoring.CacheMonitor
	logger       *logging.ChanneledLogger
}

func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"content"})
	}

	return &Manager{
		contentStore: stores.NewContentStore(),
		monitor:      monitoring.NewCacheMonitor(),
		logger:       logger,
	}
}

func (m *Manager) logOp(operation, section, key string, hit bool) {
	m.monitor.RecordAccess(section, hit)
	if m.logger != nil {
		m.logger.LogCacheOperation(operation, key, hit)
	}
}

// Monitor exposes the hit/miss statistics for the status endpoint.
func (m *Manager) Monitor() *monitoring.CacheMonitor {
	return m.monitor
}

// Page operations

func (m *Manager) GetPage(id string) (*content.PageNode, bool) {
	page, hit := m.contentStore.GetPage(id)
	m.logOp("get_page", "pages", id, hit)
	return page, hit
}

func (m *Manager) SetPage(page *content.PageNode) { m.contentStore.SetPage(page) }
func (m *Manager) GetPageIDBySlug(slug string) (string, bool) {
	return m.contentStore.GetPageIDBySlug(slug)
}
func (m *Manager) GetAllPageIDs() ([]string, bool) {
	ids, hit := m.contentStore.GetAllPageIDs()
	m.logOp("get_all_page_ids", "pages", "all", hit)
	return ids, hit
}
func (m *Manager) SetAllPageIDs(ids []string) { m.contentStore.SetAllPageIDs(ids) }
func (m *Manager) InvalidatePage(id string) { m.contentStore.InvalidatePage(id) }
func (m *Manager) AddPageID(id string) { m.contentStore.AddPageID(id) }
func (m *Manager) RemovePageID(id string) { m.contentStore.RemovePageID(id) }

// News operations

func (m *Manager) GetNews(id string) (*content.NewsNode, bool) {
	item, hit := m.contentStore.GetNews(id)
	m.logOp("get_news", "news", id, hit)
	return item, hit
}

func (m *Manager) SetNews(news *content.NewsNode) { m.contentStore.SetNews(news) }
func (m *Manager) GetNewsIDBySlug(slug string) (string, bool) {
	return m.contentStore.GetNewsIDBySlug(slug)
}
func (m *Manager) GetAllNewsIDs() ([]string, bool) {
	ids, hit := m.contentStore.GetAllNewsIDs()
	m.logOp("get_all_news_ids", "news", "all", hit)
	return ids, hit
}
func (m *Manager) SetAllNewsIDs(ids []string) { m.contentStore.SetAllNewsIDs(ids) }
func (m *Manager) InvalidateNews(id string) { m.contentStore.InvalidateNews(id) }
func (m *Manager) AddNewsID(id string) { m.contentStore.AddNewsID(id) }
func (m *Manager) RemoveNewsID(id string) { m.contentStore.RemoveNewsID(id) }

// Member operations

func (m *Manager) GetMember(id string) (*content.MemberNode, bool) {
	member, hit := m.contentStore.GetMember(id)
	m.logOp("get_member", "members", id, hit)
	return member, hit
}

func (m *Manager) SetMember(member *content.MemberNode) { m.contentStore.SetMember(member) }
func (m *Manager) GetMemberIDByEmail(email string) (string, bool) {
	return m.contentStore.GetMemberIDByEmail(email)
}
func (m *Manager) GetAllMemberIDs() ([]string, bool) {
	ids, hit := m.contentStore.GetAllMemberIDs()
	m.logOp("get_all_member_ids", "members", "all", hit)
	return ids, hit
}
func (m *Manager) SetAllMemberIDs(ids []string) { m.contentStore.SetAllMemberIDs(ids) }
func (m *Manager) InvalidateMember(id string) { m.contentStore.InvalidateMember(id) }
func (m *Manager) AddMemberID(id string) { m.contentStore.AddMemberID(id) }
func (m *Manager) RemoveMemberID(id string) { m.contentStore.RemoveMemberID(id) }

// File operations

func (m *Manager) GetFile(id string) (*content.ImageFileNode, bool) {
	file, hit := m.contentStore.GetFile(id)
	m.logOp("get_file", "files", id, hit)
	return file, hit
}

func (m *Manager) SetFile(file *content.ImageFileNode) { m.contentStore.SetFile(file) }
func (m *Manager) GetAllFileIDs() ([]string, bool) {
	ids, hit := m.contentStore.GetAllFileIDs()
	m.logOp("get_all_file_ids", "files", "all", hit)
	return ids, hit
}
func (m *Manager) SetAllFileIDs(ids []string) { m.contentStore.SetAllFileIDs(ids) }
func (m *Manager) InvalidateFile(id string) { m.contentStore.InvalidateFile(id) }
func (m *Manager) AddFileID(id string) { m.contentStore.AddFileID(id) }
func (m *Manager) RemoveFileID(id string) { m.contentStore.RemoveFileID(id) }

// Maintenance

func (m *Manager) InvalidateContentCache() {
	m.contentStore.InvalidateContentCache()
	if m.logger != nil {
		m.logger.Cache().Info("Content cache invalidated")
	}
}

func (m *Manager) EvictExpired() int {
	return m.contentStore.EvictExpired()
}
