package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// LoadState is the Content Loader's position in its per-page lifecycle.
type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadWaiting LoadState = "waiting"
	LoadLoaded  LoadState = "loaded"
)

// LoaderService injects exactly one persisted artifact into a
// freshly-initialized editing surface per page session, tolerating the
// surface's asynchronous, multi-step startup. The load guard, not event
// arrival order, decides whether an injection proceeds: readiness and
// data-arrival events may fire repeatedly and out of order.
type LoaderService struct {
	logger      *logging.ChanneledLogger
	notifier    Notifier
	settleDelay time.Duration

	mu              sync.Mutex
	pageID          string
	state           LoadState
	contentLoaded   bool // the load guard
	artifact        *composer.Artifact
	artifactArrived bool
	generation      uint64
}

// NewLoaderService creates a new content loader session manager.
func NewLoaderService(logger *logging.ChanneledLogger, notifier Notifier) *LoaderService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &LoaderService{
		logger:      logger,
		notifier:    notifier,
		settleDelay: config.LoaderSettleDelay,
		state:       LoadIdle,
	}
}

// SetNotifier swaps the notification sink. Used when an editing client
// attaches or detaches; nil restores the discarding notifier.
func (s *LoaderService) SetNotifier(notifier Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notifier == nil {
		notifier = NopNotifier()
	}
	s.notifier = notifier
}

// SetPage starts (or restarts) an editing session for a page identifier and
// returns the fetch generation for this session. The load guard resets only
// here: switching to a different page re-arms the at-most-once injection.
// Setting the same page again is a no-op and keeps the current session.
func (s *LoaderService) SetPage(pageID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pageID == s.pageID && s.state != LoadIdle {
		return s.generation
	}

	s.pageID = pageID
	s.contentLoaded = false
	s.artifact = nil
	s.artifactArrived = false
	s.generation++

	if pageID == "" {
		s.state = LoadIdle
	} else {
		s.state = LoadWaiting
	}

	s.logger.Sync().Debug("Loader session reset",
		"pageId", pageID, "generation", s.generation)
	return s.generation
}

// DeliverArtifact hands a fetched artifact to the session. Responses whose
// generation is stale (the page changed while the fetch was in flight) are
// dropped rather than trusted to incidental arrival order.
func (s *LoaderService) DeliverArtifact(generation uint64, artifact *composer.Artifact, surface composer.EditingSurface) {
	s.mu.Lock()
	if generation != s.generation {
		s.logger.Sync().Debug("Dropping stale artifact response",
			"generation", generation, "current", s.generation)
		s.mu.Unlock()
		return
	}
	s.artifact = artifact
	s.artifactArrived = true
	s.mu.Unlock()

	s.OnSurfaceReady(surface)
}

// OnSurfaceReady is the readiness tick. It may fire any number of times;
// every call re-evaluates the guard and injects at most once per session.
// Duplicate or premature ticks are absorbed silently; they are a scheduling
// detail, not a content problem.
func (s *LoaderService) OnSurfaceReady(surface composer.EditingSurface) {
	s.mu.Lock()

	if s.state != LoadWaiting || s.contentLoaded || !s.artifactArrived {
		s.mu.Unlock()
		return
	}
	if surface == nil || !surface.Ready() {
		s.mu.Unlock()
		return
	}

	if s.artifact.IsEmpty() {
		// New or empty page: nothing to inject, mark loaded immediately.
		s.contentLoaded = true
		s.state = LoadLoaded
		s.logger.Sync().Info("Empty artifact, session marked loaded", "pageId", s.pageID)
		s.mu.Unlock()
		return
	}

	// Let the surface's internal plugins finish mounting. Injecting too
	// early silently drops content. The sleep runs unlocked so page changes
	// and state reads are not held up by it; the session is re-validated
	// afterwards since anything may have happened in the meantime.
	generation := s.generation
	settle := s.settleDelay
	s.mu.Unlock()

	if settle > 0 {
		time.Sleep(settle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != LoadWaiting || s.contentLoaded || !s.artifactArrived {
		return
	}
	if !surface.Ready() {
		return
	}

	if err := s.inject(surface); err != nil {
		// Guard stays unset so the next readiness tick can retry instead of
		// wedging the editor in an empty state.
		s.logger.Sync().Error("Content injection failed",
			"pageId", s.pageID, "error", err.Error())
		s.notifier.Error(fmt.Sprintf("failed to load page content: %v", err))
		return
	}

	s.contentLoaded = true
	s.state = LoadLoaded
	s.logger.Sync().Info("Content injected", "pageId", s.pageID)
}

// inject pushes the artifact into the surface, preferring the structural
// path when the artifact carries one.
func (s *LoaderService) inject(surface composer.EditingSurface) error {
	art := s.artifact

	if art.StructuredTree != nil && len(art.StructuredTree.Components) > 0 {
		tree := &composer.Tree{Roots: art.StructuredTree.Components}
		if err := surface.ImportStructure(tree, art.StructuredTree.Rules); err != nil {
			return fmt.Errorf("structural import failed: %w", err)
		}
		return nil
	}

	body, stylesheet, err := composer.SplitStyleBlock(art.Markup)
	if err != nil {
		return fmt.Errorf("failed to split style block: %w", err)
	}
	if stylesheet == "" {
		stylesheet = art.Stylesheet
	}
	if err := surface.ImportMarkup(body, stylesheet); err != nil {
		return fmt.Errorf("markup import failed: %w", err)
	}
	return nil
}

// State returns the loader's current state.
func (s *LoaderService) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ContentLoaded reports the load guard.
func (s *LoaderService) ContentLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentLoaded
}

// Snapshot returns a JSON-friendly view of the session for diagnostics.
func (s *LoaderService) Snapshot() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, _ := json.Marshal(map[string]any{
		"pageId":        s.pageID,
		"state":         s.state,
		"contentLoaded": s.contentLoaded,
		"generation":    s.generation,
	})
	return raw
}
