package services

// Exercises the asset synchronizer: inline payload rejection, catalog
// refresh sequencing, and best-effort catalog deletes.

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

type fakeCatalog struct {
	mu      sync.Mutex
	entries []*content.ImageFileNode
	listErr error
	delErr  error
	deleted []string
}

func (c *fakeCatalog) ListAssets(filter string) ([]*content.ImageFileNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.entries, nil
}

func (c *fakeCatalog) DeleteAsset(catalogID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.delErr != nil {
		return c.delErr
	}
	c.deleted = append(c.deleted, catalogID)
	return nil
}

func newAssetSync(catalog MediaCatalog, notifier Notifier) *AssetSyncService {
	return NewAssetSyncService(catalog, logging.NewTestLogger(), notifier)
}

func imageEntry(id, filename, url string) *content.ImageFileNode {
	return &content.ImageFileNode{ID: id, Filename: filename, NodeType: "File", URL: url}
}

func TestAssetSyncRejectsInlinePayload(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newAssetSync(&fakeCatalog{}, notifier)
	surface := newFakeSurface()

	inline := composer.AssetRef{
		URL:         "data:image/png;base64,iVBORw0KGgo=",
		DisplayName: "pasted.png",
	}
	_, ok := svc.OnAssetObserved(surface, inline)
	if ok {
		t.Fatal("inline payload was accepted")
	}
	if len(surface.removedURLs) != 1 || surface.removedURLs[0] != inline.URL {
		t.Fatalf("inline payload not removed from surface: %v", surface.removedURLs)
	}
	if len(notifier.warns) != 1 {
		t.Fatalf("notifier warns = %d, want 1", len(notifier.warns))
	}

	// Case and leading whitespace must not bypass the check.
	_, ok = svc.OnAssetObserved(surface, composer.AssetRef{URL: "  DATA:image/gif;base64,R0lGOD"})
	if ok {
		t.Fatal("uppercase inline payload was accepted")
	}
}

func TestAssetSyncLinksKnownURLs(t *testing.T) {
	catalog := &fakeCatalog{entries: []*content.ImageFileNode{
		imageEntry("file-1", "hero.webp", "/media/images/hero.webp"),
	}}
	svc := newAssetSync(catalog, nil)
	surface := newFakeSurface()

	if err := svc.OnCatalogOpened(surface); err != nil {
		t.Fatalf("OnCatalogOpened: %v", err)
	}
	if surface.setAssetsCalls != 1 || len(surface.assets) != 1 {
		t.Fatalf("catalog not applied: calls=%d assets=%v", surface.setAssetsCalls, surface.assets)
	}

	got, ok := svc.OnAssetObserved(surface, composer.AssetRef{URL: "/media/images/hero.webp"})
	if !ok {
		t.Fatal("known asset was rejected")
	}
	if got.CatalogID != "file-1" {
		t.Fatalf("CatalogID = %q, want file-1", got.CatalogID)
	}

	// Unknown URLs stay unlinked but are still accepted.
	got, ok = svc.OnAssetObserved(surface, composer.AssetRef{URL: "/media/images/other.png"})
	if !ok || got.CatalogID != "" {
		t.Fatalf("unknown asset mishandled: ok=%v id=%q", ok, got.CatalogID)
	}
}

func TestAssetSyncDropsStaleCatalogResponse(t *testing.T) {
	svc := newAssetSync(&fakeCatalog{}, nil)
	surface := newFakeSurface()

	genOld := svc.BeginCatalogRefresh()
	genNew := svc.BeginCatalogRefresh()

	// The newer response lands first and wins.
	newEntries := []*content.ImageFileNode{imageEntry("file-2", "new.webp", "/media/images/new.webp")}
	if err := svc.CompleteCatalogRefresh(surface, genNew, newEntries, nil); err != nil {
		t.Fatalf("CompleteCatalogRefresh(new): %v", err)
	}

	// The older response lands second and must be dropped silently.
	oldEntries := []*content.ImageFileNode{imageEntry("file-1", "old.webp", "/media/images/old.webp")}
	if err := svc.CompleteCatalogRefresh(surface, genOld, oldEntries, nil); err != nil {
		t.Fatalf("CompleteCatalogRefresh(old): %v", err)
	}

	if surface.setAssetsCalls != 1 {
		t.Fatalf("stale response overwrote surface assets: %d SetAssets calls", surface.setAssetsCalls)
	}
	if surface.assets[0].CatalogID != "file-2" {
		t.Fatalf("surface holds %q, want file-2", surface.assets[0].CatalogID)
	}
}

// gatedSurface blocks inside SetAssets until released, to pin a refresh
// mid-application.
type gatedSurface struct {
	*fakeSurface
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSurface) SetAssets(assets []composer.AssetRef) {
	g.entered <- struct{}{}
	<-g.release
	g.fakeSurface.SetAssets(assets)
}

func TestAssetSyncSerializesCatalogApplication(t *testing.T) {
	// WHAT: a newer refresh cannot apply its asset list while an older,
	// already-validated response is still mid-application; the two land in
	// sequence with the newer one last.
	// WHY: an interleaving between the generation check and the surface
	// application would let the older list overwrite the newer one.
	svc := newAssetSync(&fakeCatalog{}, nil)
	surface := &gatedSurface{
		fakeSurface: newFakeSurface(),
		entered:     make(chan struct{}, 2),
		release:     make(chan struct{}),
	}

	genOld := svc.BeginCatalogRefresh()
	oldEntries := []*content.ImageFileNode{imageEntry("file-1", "old.webp", "/media/images/old.webp")}
	oldDone := make(chan struct{})
	go func() {
		svc.CompleteCatalogRefresh(surface, genOld, oldEntries, nil)
		close(oldDone)
	}()
	<-surface.entered // the old response passed its check and is applying

	newEntries := []*content.ImageFileNode{imageEntry("file-2", "new.webp", "/media/images/new.webp")}
	newDone := make(chan struct{})
	go func() {
		genNew := svc.BeginCatalogRefresh()
		svc.CompleteCatalogRefresh(surface, genNew, newEntries, nil)
		close(newDone)
	}()

	select {
	case <-newDone:
		t.Fatal("newer refresh applied while the older one was mid-application")
	case <-time.After(30 * time.Millisecond):
	}

	close(surface.release)
	<-oldDone
	<-newDone

	if surface.setAssetsCalls != 2 {
		t.Fatalf("expected both responses applied in sequence, got %d SetAssets calls", surface.setAssetsCalls)
	}
	if surface.assets[0].CatalogID != "file-2" {
		t.Fatalf("surface holds %q after both refreshes, want file-2", surface.assets[0].CatalogID)
	}
}

func TestAssetSyncFetchErrorKeepsExistingList(t *testing.T) {
	catalog := &fakeCatalog{entries: []*content.ImageFileNode{
		imageEntry("file-1", "hero.webp", "/media/images/hero.webp"),
	}}
	notifier := &recordingNotifier{}
	svc := newAssetSync(catalog, notifier)
	surface := newFakeSurface()

	if err := svc.OnCatalogOpened(surface); err != nil {
		t.Fatalf("OnCatalogOpened: %v", err)
	}

	catalog.mu.Lock()
	catalog.listErr = errors.New("connection refused")
	catalog.mu.Unlock()

	if err := svc.OnCatalogOpened(surface); err == nil {
		t.Fatal("fetch error was swallowed")
	}
	if surface.setAssetsCalls != 1 {
		t.Fatalf("fetch error cleared the asset list: %d SetAssets calls", surface.setAssetsCalls)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("notifier errors = %d, want 1", len(notifier.errors))
	}
}

func TestAssetSyncRemovalIsBestEffort(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newAssetSync(catalog, nil)

	// Unlinked assets have nothing to clean up.
	svc.OnAssetRemoved(composer.AssetRef{URL: "/media/images/loose.png"})
	if len(catalog.deleted) != 0 {
		t.Fatalf("unlinked removal hit the catalog: %v", catalog.deleted)
	}

	svc.OnAssetRemoved(composer.AssetRef{URL: "/media/images/hero.webp", CatalogID: "file-1"})
	if len(catalog.deleted) != 1 || catalog.deleted[0] != "file-1" {
		t.Fatalf("linked removal not forwarded: %v", catalog.deleted)
	}

	// A failing delete is logged, never surfaced.
	catalog.delErr = errors.New("storage offline")
	svc.OnAssetRemoved(composer.AssetRef{URL: "/media/images/hero.webp", CatalogID: "file-1"})
}
