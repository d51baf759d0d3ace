package services

// Exercises the at-most-once content injection guard: readiness ticks fire
// repeatedly and out of order relative to artifact arrival, and the guard,
// not event order, decides whether injection happens.

import (
	"testing"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

func newLoader() *LoaderService {
	s := NewLoaderService(logging.NewTestLogger(), nil)
	s.settleDelay = 0
	return s
}

func structuredArtifact() *composer.Artifact {
	node := &composer.ComponentNode{
		NodeID:     "sf-01ARZ3NDEKTSV4RRFFQ69G5FAV",
		NodeType:   "text",
		ClassNames: []string{"b2"},
	}
	return &composer.Artifact{
		Markup:     `<p class="b2">Hi</p>`,
		Stylesheet: ".b2 { color: blue; }\n",
		StructuredTree: &composer.StructuredTree{
			Components: []*composer.ComponentNode{node},
			Rules: []*composer.StyleRule{{
				Selectors:    []composer.Selector{{Kind: composer.SelectorID, Name: node.NodeID}},
				Declarations: []composer.Declaration{{Property: "color", Value: "blue"}},
			}},
		},
		EncodingKind: composer.EncodingStructured,
	}
}

func TestLoaderInjectsOncePerSession(t *testing.T) {
	loader := newLoader()
	surface := newFakeSurface()

	gen := loader.SetPage("page-1")
	if loader.State() != LoadWaiting {
		t.Fatalf("state after SetPage = %v, want waiting", loader.State())
	}

	// Readiness before the artifact arrives must be absorbed.
	loader.OnSurfaceReady(surface)
	if surface.imports() != 0 {
		t.Fatalf("premature readiness caused %d imports", surface.imports())
	}

	loader.DeliverArtifact(gen, structuredArtifact(), surface)
	if surface.imports() != 1 {
		t.Fatalf("imports after delivery = %d, want 1", surface.imports())
	}
	if !loader.ContentLoaded() || loader.State() != LoadLoaded {
		t.Fatalf("guard not set after injection: loaded=%v state=%v", loader.ContentLoaded(), loader.State())
	}

	// Late readiness ticks must not re-inject.
	loader.OnSurfaceReady(surface)
	loader.OnSurfaceReady(surface)
	if surface.imports() != 1 {
		t.Fatalf("duplicate readiness re-injected: %d imports", surface.imports())
	}
}

func TestLoaderGuardResetsOnPageChange(t *testing.T) {
	loader := newLoader()
	surface := newFakeSurface()

	gen := loader.SetPage("page-1")
	loader.DeliverArtifact(gen, structuredArtifact(), surface)
	if surface.imports() != 1 {
		t.Fatalf("imports = %d, want 1", surface.imports())
	}

	// Same page again keeps the session; the guard stays set.
	if loader.SetPage("page-1") != gen {
		t.Fatal("SetPage for the current page bumped the generation")
	}
	loader.OnSurfaceReady(surface)
	if surface.imports() != 1 {
		t.Fatalf("same-page reset re-injected: %d imports", surface.imports())
	}

	// A different page re-arms the guard for a second injection.
	gen2 := loader.SetPage("page-2")
	if gen2 == gen {
		t.Fatal("generation did not advance on page change")
	}
	loader.DeliverArtifact(gen2, structuredArtifact(), surface)
	if surface.imports() != 2 {
		t.Fatalf("imports after page change = %d, want 2", surface.imports())
	}
}

func TestLoaderDropsStaleArtifact(t *testing.T) {
	loader := newLoader()
	surface := newFakeSurface()

	gen1 := loader.SetPage("page-1")
	gen2 := loader.SetPage("page-2")

	// The page-1 response lands after the switch to page-2: dropped.
	loader.DeliverArtifact(gen1, structuredArtifact(), surface)
	if surface.imports() != 0 {
		t.Fatalf("stale artifact was injected: %d imports", surface.imports())
	}
	if loader.ContentLoaded() {
		t.Fatal("stale artifact set the guard")
	}

	loader.DeliverArtifact(gen2, structuredArtifact(), surface)
	if surface.imports() != 1 {
		t.Fatalf("imports after current delivery = %d, want 1", surface.imports())
	}
}

func TestLoaderRetriesAfterFailedInjection(t *testing.T) {
	loader := newLoader()
	notifier := &recordingNotifier{}
	loader.notifier = notifier
	surface := newFakeSurface()
	surface.failImports = true

	gen := loader.SetPage("page-1")
	loader.DeliverArtifact(gen, structuredArtifact(), surface)

	if loader.ContentLoaded() {
		t.Fatal("guard set despite failed injection")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("notifier errors = %d, want 1", len(notifier.errors))
	}

	// The next readiness tick retries and succeeds.
	surface.failImports = false
	loader.OnSurfaceReady(surface)
	if !loader.ContentLoaded() {
		t.Fatal("retry after failure did not inject")
	}
	if surface.imports() != 2 {
		t.Fatalf("imports = %d, want 2 (one failed, one retried)", surface.imports())
	}
}

func TestLoaderEmptyArtifactMarksLoadedWithoutInjection(t *testing.T) {
	loader := newLoader()
	surface := newFakeSurface()

	gen := loader.SetPage("page-new")
	loader.DeliverArtifact(gen, &composer.Artifact{}, surface)

	if surface.imports() != 0 {
		t.Fatalf("empty artifact was injected: %d imports", surface.imports())
	}
	if !loader.ContentLoaded() || loader.State() != LoadLoaded {
		t.Fatalf("empty artifact did not mark session loaded: loaded=%v state=%v",
			loader.ContentLoaded(), loader.State())
	}
}

func TestLoaderWaitsForSurfaceReadiness(t *testing.T) {
	loader := newLoader()
	surface := newFakeSurface()
	surface.ready = false

	gen := loader.SetPage("page-1")
	loader.DeliverArtifact(gen, structuredArtifact(), surface)
	if surface.imports() != 0 {
		t.Fatalf("injected into a surface that is not ready: %d imports", surface.imports())
	}

	surface.mu.Lock()
	surface.ready = true
	surface.mu.Unlock()
	loader.OnSurfaceReady(surface)
	if surface.imports() != 1 {
		t.Fatalf("imports once ready = %d, want 1", surface.imports())
	}
}

func TestLoaderMarkupFallbackSplitsEmbeddedStyles(t *testing.T) {
	loader := newLoader()
	surface := newFakeSurface()

	art := &composer.Artifact{
		Markup:       `<p class="b2">Hi</p><style>.b2 { color: blue; }</style>`,
		EncodingKind: composer.EncodingMarkupOnly,
	}
	gen := loader.SetPage("page-1")
	loader.DeliverArtifact(gen, art, surface)

	if surface.imports() != 1 {
		t.Fatalf("imports = %d, want 1", surface.imports())
	}
	if surface.markup == "" || surface.stylesheet == "" {
		t.Fatalf("markup import did not split embedded styles: markup=%q stylesheet=%q",
			surface.markup, surface.stylesheet)
	}
	if surface.tree != nil {
		t.Fatal("markup-only artifact took the structural path")
	}
}

func TestLoaderSettleDelayDoesNotBlockPageChange(t *testing.T) {
	// WHAT: a page change landing during the settling window aborts the
	// pending injection, and the change itself is not held up by the window.
	// WHY: the settle wait is a suspension point, not a critical section;
	// stale content must never land in the next page's session.
	loader := newLoader()
	loader.settleDelay = 150 * time.Millisecond
	surface := newFakeSurface()

	gen := loader.SetPage("page-1")
	loader.DeliverArtifact(gen, structuredArtifact(), surface)

	done := make(chan struct{})
	go func() {
		loader.OnSurfaceReady(surface)
		close(done)
	}()

	// Give the readiness tick time to enter the settling window, then
	// switch pages while it sleeps.
	time.Sleep(30 * time.Millisecond)
	start := time.Now()
	loader.SetPage("page-2")
	if blocked := time.Since(start); blocked > 100*time.Millisecond {
		t.Fatalf("SetPage blocked for %v during the settling window", blocked)
	}

	<-done
	if surface.imports() != 0 {
		t.Fatalf("stale injection landed after page change: %d imports", surface.imports())
	}
	if loader.ContentLoaded() {
		t.Fatal("guard set for a session whose injection was aborted")
	}
}

func TestLoaderClearPageGoesIdle(t *testing.T) {
	loader := newLoader()
	gen := loader.SetPage("page-1")
	loader.DeliverArtifact(gen, structuredArtifact(), newFakeSurface())

	loader.SetPage("")
	if loader.State() != LoadIdle {
		t.Fatalf("state after clearing page = %v, want idle", loader.State())
	}
	if loader.ContentLoaded() {
		t.Fatal("guard survived clearing the page")
	}
}
