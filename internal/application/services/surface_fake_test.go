package services

import (
	"errors"
	"sync"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
)

// fakeSurface is an in-memory EditingSurface for exercising the engine
// services without a websocket peer.
type fakeSurface struct {
	mu sync.Mutex

	ready      bool
	markup     string
	stylesheet string
	tree       *composer.Tree
	rules      []*composer.StyleRule
	assets     []composer.AssetRef

	failImports     bool
	importCalls     int
	removedURLs     []string
	setAssetsCalls  int
	structureExport bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{ready: true, structureExport: true}
}

func (f *fakeSurface) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeSurface) ExportMarkup() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markup, nil
}

func (f *fakeSurface) ExportStylesheet() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stylesheet, nil
}

func (f *fakeSurface) ExportStructure() (*composer.Tree, []*composer.StyleRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.structureExport {
		return nil, nil, nil
	}
	return f.tree, f.rules, nil
}

func (f *fakeSurface) ImportMarkup(markup, stylesheet string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importCalls++
	if f.failImports {
		return errors.New("surface not accepting content")
	}
	f.markup = markup
	f.stylesheet = stylesheet
	return nil
}

func (f *fakeSurface) ImportStructure(tree *composer.Tree, rules []*composer.StyleRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importCalls++
	if f.failImports {
		return errors.New("surface not accepting content")
	}
	f.tree = tree
	f.rules = rules
	return nil
}

func (f *fakeSurface) Assets() []composer.AssetRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assets
}

func (f *fakeSurface) SetAssets(assets []composer.AssetRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setAssetsCalls++
	f.assets = assets
}

func (f *fakeSurface) RemoveAsset(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedURLs = append(f.removedURLs, url)
}

func (f *fakeSurface) imports() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.importCalls
}

// recordingNotifier captures user-facing notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (n *recordingNotifier) Warn(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}
