package composer

import (
	"strings"
	"testing"
)

func TestSplitStyleBlock(t *testing.T) {
	// WHAT: an embedded <style> block is separated from body markup.
	// WHY: stylesheet and body markup are injected through separate surface
	// APIs on the markup-only load path.
	body, css, err := SplitStyleBlock(`<p>Hi</p><style>.b2{color:blue}</style>`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if body != "<p>Hi</p>" {
		t.Fatalf("unexpected body: %q", body)
	}
	if css != ".b2{color:blue}" {
		t.Fatalf("unexpected stylesheet: %q", css)
	}
}

func TestSplitStyleBlock_MultipleBlocks(t *testing.T) {
	body, css, err := SplitStyleBlock(`<style>.a{color:red}</style><div>x</div><style>.b{color:blue}</style>`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if strings.Contains(body, "style") {
		t.Fatalf("style block leaked into body: %q", body)
	}
	if !strings.Contains(css, ".a{color:red}") || !strings.Contains(css, ".b{color:blue}") {
		t.Fatalf("stylesheet incomplete: %q", css)
	}
}

func TestSplitStyleBlock_NoStyles(t *testing.T) {
	body, css, err := SplitStyleBlock(`<div><p>plain</p></div>`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if css != "" {
		t.Fatalf("expected empty stylesheet, got %q", css)
	}
	if body != "<div><p>plain</p></div>" {
		t.Fatalf("body altered: %q", body)
	}
}

func TestEmbedSplitRoundTrip(t *testing.T) {
	markup := "<p>Hello</p>"
	css := ".x { color: red; }"

	embedded := EmbedStyleBlock(markup, css)
	body, gotCSS, err := SplitStyleBlock(embedded)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if body != markup {
		t.Fatalf("markup drifted: %q", body)
	}
	if gotCSS != css {
		t.Fatalf("stylesheet drifted: %q", gotCSS)
	}
}

func TestEmbedStyleBlock_EmptyStylesheet(t *testing.T) {
	if got := EmbedStyleBlock("<p>x</p>", "  "); got != "<p>x</p>" {
		t.Fatalf("empty stylesheet must not add a style block: %q", got)
	}
}

func TestArtifactIsEmpty(t *testing.T) {
	cases := []struct {
		name string
		art  *Artifact
		want bool
	}{
		{"nil", nil, true},
		{"zero", &Artifact{}, true},
		{"whitespace", &Artifact{Markup: "  \n"}, true},
		{"markup", &Artifact{Markup: "<p>x</p>"}, false},
		{"stylesheet", &Artifact{Stylesheet: ".a{color:red}"}, false},
		{"structured", &Artifact{StructuredTree: &StructuredTree{
			Components: []*ComponentNode{{NodeType: "text"}},
		}}, false},
		{"emptyStructured", &Artifact{StructuredTree: &StructuredTree{}}, true},
	}
	for _, tc := range cases {
		if got := tc.art.IsEmpty(); got != tc.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTreeWalkDocumentOrder(t *testing.T) {
	// WHAT: Walk visits parent before children, siblings in order.
	// WHY: the collision tie-break depends on a stable document-order walk.
	tree := &Tree{Roots: []*ComponentNode{
		{NodeID: "1", Children: []*ComponentNode{{NodeID: "2"}, {NodeID: "3", Children: []*ComponentNode{{NodeID: "4"}}}}},
		{NodeID: "5"},
	}}
	var order []string
	tree.Walk(func(n *ComponentNode) bool {
		order = append(order, n.NodeID)
		return true
	})
	if strings.Join(order, "") != "12345" {
		t.Fatalf("unexpected walk order: %v", order)
	}
	if tree.Count() != 5 {
		t.Fatalf("Count() = %d", tree.Count())
	}
}

func TestTreeCloneIsDeep(t *testing.T) {
	node := &ComponentNode{NodeType: "image", Attributes: map[string]string{"src": "/a.png"}}
	tree := &Tree{Roots: []*ComponentNode{node}}
	clone := tree.Clone()

	clone.Roots[0].Attributes["src"] = "/b.png"
	clone.Roots[0].NodeID = "changed"
	if node.Attributes["src"] != "/a.png" || node.NodeID != "" {
		t.Fatal("clone shares state with the original")
	}
}

func TestIsInlinePayload(t *testing.T) {
	cases := map[string]bool{
		"data:image/png;base64,iVBORw0KGgo=": true,
		"DATA:image/svg+xml;base64,PHN2Zz4=": true,
		"  data:text/plain,hello":            true,
		"https://cdn.example.com/a.png":      false,
		"/media/images/a.webp":               false,
		"":                                   false,
	}
	for url, want := range cases {
		if got := IsInlinePayload(url); got != want {
			t.Errorf("IsInlinePayload(%q) = %v, want %v", url, got, want)
		}
	}
}
