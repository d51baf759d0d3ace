package services

// Exercises the save pipeline: every build re-resolves rule identity and the
// three encodings of the resulting artifact agree with each other.

import (
	"strings"
	"testing"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	domainservices "github.com/StackForgeHQ/stackforge-go/internal/domain/services"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

func newPayloadService() *PayloadService {
	logger := logging.NewTestLogger()
	return NewPayloadService(domainservices.NewStyleIdentityResolver(logger.Content()), logger)
}

func TestBuildPayloadEmptySurface(t *testing.T) {
	svc := newPayloadService()
	surface := newFakeSurface()
	surface.structureExport = false

	payload, err := svc.BuildPayload(surface, PayloadMeta{Status: "draft"})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if !payload.Artifact.IsEmpty() {
		t.Fatalf("empty surface produced non-empty artifact: %+v", payload.Artifact)
	}
	if payload.Artifact.EncodingKind != composer.EncodingMarkupOnly {
		t.Fatalf("encoding = %v, want markup-only", payload.Artifact.EncodingKind)
	}
	if payload.Meta.Status != "draft" {
		t.Fatalf("meta status = %q, want draft", payload.Meta.Status)
	}
}

func TestBuildPayloadResolvesClassRulesToIdentity(t *testing.T) {
	svc := newPayloadService()
	surface := newFakeSurface()
	surface.markup = `<p class="b2">Hi</p>`
	surface.stylesheet = ".b2 { color: red; }\n"
	surface.tree = &composer.Tree{Roots: []*composer.ComponentNode{{
		NodeType:   "text",
		ClassNames: []string{"b2"},
	}}}
	surface.rules = []*composer.StyleRule{{
		Selectors:    []composer.Selector{{Kind: composer.SelectorClass, Name: "b2"}},
		Declarations: []composer.Declaration{{Property: "color", Value: "red"}},
	}}

	payload, err := svc.BuildPayload(surface, PayloadMeta{})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	art := payload.Artifact

	if art.EncodingKind != composer.EncodingStructured {
		t.Fatalf("encoding = %v, want structured", art.EncodingKind)
	}
	if art.StructuredTree == nil || len(art.StructuredTree.Rules) != 1 {
		t.Fatalf("structured tree missing or wrong rule count: %+v", art.StructuredTree)
	}

	rule := art.StructuredTree.Rules[0]
	if rule.Selectors[0].Kind != composer.SelectorID {
		t.Fatalf("rule selector kind = %v, want id", rule.Selectors[0].Kind)
	}
	nodeID := art.StructuredTree.Components[0].NodeID
	if nodeID == "" || rule.Selectors[0].Name != nodeID {
		t.Fatalf("rule targets %q but node id is %q", rule.Selectors[0].Name, nodeID)
	}

	// The textual stylesheet carries the same resolved selector.
	if !strings.Contains(art.Stylesheet, "#"+nodeID) {
		t.Fatalf("stylesheet %q does not reference node id %s", art.Stylesheet, nodeID)
	}
	// The embedded copy in markup matches the standalone stylesheet.
	_, embedded, err := composer.SplitStyleBlock(art.Markup)
	if err != nil {
		t.Fatalf("SplitStyleBlock: %v", err)
	}
	if strings.TrimSpace(embedded) != strings.TrimSpace(art.Stylesheet) {
		t.Fatalf("embedded styles %q differ from stylesheet %q", embedded, art.Stylesheet)
	}
}

func TestBuildPayloadStableAcrossSaveLoadSave(t *testing.T) {
	svc := newPayloadService()
	surface := newFakeSurface()
	surface.markup = `<p class="b2">Hi</p>`
	surface.tree = &composer.Tree{Roots: []*composer.ComponentNode{{
		NodeType:   "text",
		ClassNames: []string{"b2"},
	}}}
	surface.rules = []*composer.StyleRule{{
		Selectors:    []composer.Selector{{Kind: composer.SelectorClass, Name: "b2"}},
		Declarations: []composer.Declaration{{Property: "color", Value: "red"}},
	}}

	first, err := svc.BuildPayload(surface, PayloadMeta{})
	if err != nil {
		t.Fatalf("first BuildPayload: %v", err)
	}

	// Simulate load: the surface now holds the resolved tree and rules.
	surface.tree = &composer.Tree{Roots: first.Artifact.StructuredTree.Components}
	surface.rules = first.Artifact.StructuredTree.Rules

	second, err := svc.BuildPayload(surface, PayloadMeta{})
	if err != nil {
		t.Fatalf("second BuildPayload: %v", err)
	}

	if first.Artifact.Stylesheet != second.Artifact.Stylesheet {
		t.Fatalf("stylesheet drifted across save/load/save:\nfirst:  %q\nsecond: %q",
			first.Artifact.Stylesheet, second.Artifact.Stylesheet)
	}
	firstID := first.Artifact.StructuredTree.Components[0].NodeID
	secondID := second.Artifact.StructuredTree.Components[0].NodeID
	if firstID != secondID {
		t.Fatalf("node identity changed across saves: %s vs %s", firstID, secondID)
	}
}

func TestBuildPayloadSanitizesMarkup(t *testing.T) {
	svc := newPayloadService()
	surface := newFakeSurface()
	surface.structureExport = false
	surface.markup = `<p class="b2" id="sf-x">Hi</p><script>alert(1)</script>`

	payload, err := svc.BuildPayload(surface, PayloadMeta{})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if strings.Contains(payload.Artifact.Markup, "<script") {
		t.Fatalf("script survived sanitation: %q", payload.Artifact.Markup)
	}
	if !strings.Contains(payload.Artifact.Markup, `class="b2"`) ||
		!strings.Contains(payload.Artifact.Markup, `id="sf-x"`) {
		t.Fatalf("sanitation stripped editor attributes: %q", payload.Artifact.Markup)
	}
}
