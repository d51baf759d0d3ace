package composer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EncodingKind tells a consumer which encodings of an artifact are
// authoritative.
type EncodingKind string

const (
	EncodingStructured EncodingKind = "structured"
	EncodingMarkupOnly EncodingKind = "markup-only"
)

// StructuredTree is the optional parallel JSON encoding of the node tree,
// used by editors that support structural re-hydration.
type StructuredTree struct {
	Components []*ComponentNode `json:"components"`
	Rules      []*StyleRule     `json:"rules"`
}

// Artifact is the durable unit written to storage for one page.
type Artifact struct {
	Markup         string          `json:"markup"`
	Stylesheet     string          `json:"stylesheet"`
	StructuredTree *StructuredTree `json:"structuredTree,omitempty"`
	EncodingKind   EncodingKind    `json:"encodingKind"`
}

// IsEmpty reports whether the artifact carries no content at all.
func (a *Artifact) IsEmpty() bool {
	if a == nil {
		return true
	}
	if strings.TrimSpace(a.Markup) != "" || strings.TrimSpace(a.Stylesheet) != "" {
		return false
	}
	return a.StructuredTree == nil || len(a.StructuredTree.Components) == 0
}

// SplitStyleBlock separates embedded <style> blocks from markup. The body
// markup and the concatenated stylesheet text are returned separately; the
// surface imports them through different APIs.
func SplitStyleBlock(markup string) (string, string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse markup: %w", err)
	}

	var styles []string
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			styles = append(styles, text)
		}
		s.Remove()
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize markup body: %w", err)
	}

	return strings.TrimSpace(body), strings.Join(styles, "\n"), nil
}

// EmbedStyleBlock appends the stylesheet to the markup as a single embedded
// <style> block, the redundant copy kept for markup-only consumers.
func EmbedStyleBlock(markup, stylesheet string) string {
	if strings.TrimSpace(stylesheet) == "" {
		return markup
	}
	return markup + "<style>" + stylesheet + "</style>"
}
