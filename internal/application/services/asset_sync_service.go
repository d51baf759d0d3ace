package services

import (
	"fmt"
	"sync"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

// MediaCatalog is the engine's view of the external media service.
type MediaCatalog interface {
	ListAssets(filter string) ([]*content.ImageFileNode, error)
	DeleteAsset(catalogID string) error
}

// AssetSyncService keeps the surface's asset placeholders consistent with
// the media catalog and blocks inline-embedded payloads from ever entering
// the tree.
type AssetSyncService struct {
	catalog  MediaCatalog
	logger   *logging.ChanneledLogger
	notifier Notifier

	mu         sync.Mutex
	generation uint64
	urlIndex   map[string]string // url → catalogId from the last refresh
}

// NewAssetSyncService creates a new asset synchronizer.
func NewAssetSyncService(catalog MediaCatalog, logger *logging.ChanneledLogger, notifier Notifier) *AssetSyncService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &AssetSyncService{
		catalog:  catalog,
		logger:   logger,
		notifier: notifier,
		urlIndex: make(map[string]string),
	}
}

// SetNotifier swaps the notification sink. Used when an editing client
// attaches or detaches; nil restores the discarding notifier.
func (s *AssetSyncService) SetNotifier(notifier Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notifier == nil {
		notifier = NopNotifier()
	}
	s.notifier = notifier
}

// OnAssetObserved vets a newly-registered asset reference. Inline-embedded
// payloads are removed from the surface and the author is warned; accepted
// assets are linked to their catalog entry when the URL is known. Returns
// the possibly-linked asset and whether it was accepted.
func (s *AssetSyncService) OnAssetObserved(surface composer.EditingSurface, asset composer.AssetRef) (composer.AssetRef, bool) {
	if composer.IsInlinePayload(asset.URL) {
		surface.RemoveAsset(asset.URL)
		s.logger.Media().Warn("Rejected inline-embedded asset payload",
			"displayName", asset.DisplayName, "urlBytes", len(asset.URL))
		s.notifier.Warn("embedded image data is not allowed; upload the file to the media library instead")
		return asset, false
	}

	if asset.CatalogID == "" {
		s.mu.Lock()
		if id, ok := s.urlIndex[asset.URL]; ok {
			asset.CatalogID = id
		}
		s.mu.Unlock()
	}
	return asset, true
}

// BeginCatalogRefresh opens a refresh and returns its generation. Overlapping
// refreshes are sequenced: a slow response that completes after a newer
// refresh was requested is dropped instead of overwriting newer data.
func (s *AssetSyncService) BeginCatalogRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// CompleteCatalogRefresh applies a fetched catalog page to the surface. On
// fetch error the previous asset list is left untouched; clearing it would
// strand in-use references.
func (s *AssetSyncService) CompleteCatalogRefresh(surface composer.EditingSurface, generation uint64, entries []*content.ImageFileNode, fetchErr error) error {
	if fetchErr != nil {
		s.logger.Media().Error("Catalog fetch failed", "error", fetchErr.Error())
		s.notifier.Error(fmt.Sprintf("failed to load media library: %v", fetchErr))
		return fetchErr
	}

	s.mu.Lock()
	if generation != s.generation {
		s.logger.Media().Debug("Dropping stale catalog response",
			"generation", generation, "current", s.generation)
		s.mu.Unlock()
		return nil
	}

	assets := make([]composer.AssetRef, 0, len(entries))
	index := make(map[string]string, len(entries))
	for _, entry := range entries {
		assets = append(assets, composer.AssetRef{
			URL:         entry.URL,
			CatalogID:   entry.ID,
			DisplayName: entry.Filename,
		})
		index[entry.URL] = entry.ID
	}
	s.urlIndex = index

	// The surface application stays inside the critical section: once the
	// generation check passes, no later response may slip its SetAssets in
	// between ours and the index swap above.
	surface.SetAssets(assets)
	s.mu.Unlock()

	s.logger.Media().Debug("Catalog applied to surface", "count", len(assets))
	return nil
}

// OnCatalogOpened refreshes the surface's asset list from the catalog in one
// step, for callers without an async fetch of their own.
func (s *AssetSyncService) OnCatalogOpened(surface composer.EditingSurface) error {
	generation := s.BeginCatalogRefresh()
	entries, err := s.catalog.ListAssets("")
	return s.CompleteCatalogRefresh(surface, generation, entries, err)
}

// OnAssetRemoved handles an asset removed from the surface. Local removal is
// authoritative for the editing session; catalog cleanup is best-effort and
// a delete failure never rolls it back.
func (s *AssetSyncService) OnAssetRemoved(asset composer.AssetRef) {
	if asset.CatalogID == "" {
		return
	}
	if err := s.catalog.DeleteAsset(asset.CatalogID); err != nil {
		s.logger.Media().Warn("Best-effort catalog delete failed",
			"catalogId", asset.CatalogID, "error", err.Error())
	}
}
