package services

import (
	"encoding/json"
	"fmt"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

// SurfaceSessionService coordinates one live editing connection: it routes
// surface readiness and client requests into the content loader, the asset
// synchronizer and the save pipeline. The surface is always passed in as the
// interface; the service holds no connection state of its own beyond what
// the loader tracks.
type SurfaceSessionService struct {
	loader    *LoaderService
	assetSync *AssetSyncService
	payloads  *PayloadService
	pages     *PageService
	logger    *logging.ChanneledLogger
}

func NewSurfaceSessionService(loader *LoaderService, assetSync *AssetSyncService, payloads *PayloadService, pages *PageService, logger *logging.ChanneledLogger) *SurfaceSessionService {
	return &SurfaceSessionService{
		loader:    loader,
		assetSync: assetSync,
		payloads:  payloads,
		pages:     pages,
		logger:    logger,
	}
}

// AttachNotifier points engine notifications at a connected editing client.
func (s *SurfaceSessionService) AttachNotifier(notifier Notifier) {
	s.loader.SetNotifier(notifier)
	s.assetSync.SetNotifier(notifier)
}

// DetachNotifier restores the discarding notifier after a disconnect.
func (s *SurfaceSessionService) DetachNotifier() {
	s.loader.SetNotifier(nil)
	s.assetSync.SetNotifier(nil)
}

// OpenPage starts an editing session for a page: it re-arms the loader,
// fetches the persisted artifact and delivers it under the session's fetch
// generation. A fetch that loses to a newer OpenPage is dropped inside the
// loader rather than here.
func (s *SurfaceSessionService) OpenPage(pageID string, surface composer.EditingSurface) error {
	if pageID == "" {
		return fmt.Errorf("page ID cannot be empty")
	}

	generation := s.loader.SetPage(pageID)

	artifact, err := s.pages.FetchArtifact(pageID)
	if err != nil {
		return fmt.Errorf("failed to fetch artifact for page %s: %w", pageID, err)
	}

	s.loader.DeliverArtifact(generation, artifact, surface)
	return nil
}

// ClosePage ends the current editing session.
func (s *SurfaceSessionService) ClosePage() {
	s.loader.SetPage("")
}

// SurfaceReady is the readiness tick from the connection.
func (s *SurfaceSessionService) SurfaceReady(surface composer.EditingSurface) {
	s.loader.OnSurfaceReady(surface)
}

// Save runs the save pipeline against the current surface state and persists
// the resulting payload. An empty pageID saves a brand-new draft; the minted
// id comes back in the returned page.
func (s *SurfaceSessionService) Save(pageID string, surface composer.EditingSurface, meta PayloadMeta) (*SavePayload, error) {
	payload, err := s.payloads.BuildPayload(surface, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to build save payload: %w", err)
	}

	stored, err := s.pages.SaveArtifact(pageID, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Sync().Info("Page saved from surface",
		"pageId", stored.ID, "encoding", payload.Artifact.EncodingKind)
	return payload, nil
}

// OpenCatalog refreshes the surface's asset list from the media catalog.
func (s *SurfaceSessionService) OpenCatalog(surface composer.EditingSurface) error {
	return s.assetSync.OnCatalogOpened(surface)
}

// AssetObserved vets a newly-registered asset reference.
func (s *SurfaceSessionService) AssetObserved(surface composer.EditingSurface, asset composer.AssetRef) (composer.AssetRef, bool) {
	return s.assetSync.OnAssetObserved(surface, asset)
}

// AssetRemoved handles an asset removal from the surface.
func (s *SurfaceSessionService) AssetRemoved(asset composer.AssetRef) {
	s.assetSync.OnAssetRemoved(asset)
}

// Snapshot reports the loader's session state for the status endpoint.
func (s *SurfaceSessionService) Snapshot() json.RawMessage {
	return s.loader.Snapshot()
}
