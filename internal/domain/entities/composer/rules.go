package composer

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// SelectorKind distinguishes class-typed from id-typed selectors. The
// resolver only ever rewrites class selectors; everything persisted ends up
// id-typed.
type SelectorKind string

const (
	SelectorClass SelectorKind = "class"
	SelectorID    SelectorKind = "id"
)

// Selector is one typed selector of a style rule.
type Selector struct {
	Kind SelectorKind `json:"type"`
	Name string       `json:"name"`
}

// Declaration is a single property/value pair. Order is preserved so a
// parse/format cycle is stable.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// StyleRule is one selector-plus-declarations unit extracted from the
// surface's style model.
type StyleRule struct {
	Selectors    []Selector    `json:"selectors"`
	Declarations []Declaration `json:"declarations"`
}

// Clone returns a deep copy of the rule.
func (r *StyleRule) Clone() *StyleRule {
	if r == nil {
		return nil
	}
	out := &StyleRule{}
	out.Selectors = append(out.Selectors, r.Selectors...)
	out.Declarations = append(out.Declarations, r.Declarations...)
	return out
}

// Equal reports selector-for-selector, declaration-for-declaration equality.
func (r *StyleRule) Equal(other *StyleRule) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.Selectors) != len(other.Selectors) || len(r.Declarations) != len(other.Declarations) {
		return false
	}
	for i, sel := range r.Selectors {
		if other.Selectors[i] != sel {
			return false
		}
	}
	for i, decl := range r.Declarations {
		if other.Declarations[i] != decl {
			return false
		}
	}
	return true
}

// String renders the selector as CSS text.
func (s Selector) String() string {
	switch s.Kind {
	case SelectorID:
		return "#" + s.Name
	default:
		return "." + s.Name
	}
}

// FormatStylesheet renders rules as CSS text. This is the only place the
// typed representation becomes text on the way out.
func FormatStylesheet(rules []*StyleRule) string {
	var sb strings.Builder
	for _, rule := range rules {
		if rule == nil || len(rule.Selectors) == 0 {
			continue
		}
		parts := make([]string, len(rule.Selectors))
		for i, sel := range rule.Selectors {
			parts[i] = sel.String()
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(" { ")
		for _, decl := range rule.Declarations {
			sb.WriteString(decl.Property)
			sb.WriteString(": ")
			sb.WriteString(decl.Value)
			sb.WriteString("; ")
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

// ParseStylesheet tokenizes CSS text into typed rules. Selectors that are
// neither a single class nor a single id (element selectors, descendant
// combinators, at-rules) are skipped: the engine only manages per-component
// rules and must not invent semantics for anything else.
func ParseStylesheet(stylesheet string) []*StyleRule {
	var rules []*StyleRule
	parser := css.NewParser(parse.NewInputString(stylesheet), false)

	var current *StyleRule
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return rules

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			current = &StyleRule{}
			for _, sel := range splitSelectorList(data, parser.Values()) {
				if typed, ok := parseSelector(sel); ok {
					current.Selectors = append(current.Selectors, typed)
				}
			}
			if len(current.Selectors) == 0 {
				current = nil
			}

		case css.DeclarationGrammar:
			if current == nil {
				continue
			}
			current.Declarations = append(current.Declarations, Declaration{
				Property: string(data),
				Value:    joinTokens(parser.Values()),
			})

		case css.EndRulesetGrammar:
			if current != nil && len(current.Declarations) > 0 {
				rules = append(rules, current)
			}
			current = nil
		}
	}
}

// splitSelectorList rebuilds the raw selector text and splits grouped
// selectors on commas.
func splitSelectorList(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	var out []string
	for _, part := range strings.Split(sb.String(), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseSelector types a raw simple selector. Only bare ".name" and "#name"
// forms qualify.
func parseSelector(raw string) (Selector, bool) {
	if len(raw) < 2 {
		return Selector{}, false
	}
	name := raw[1:]
	if strings.ContainsAny(name, " .#>+~:[") {
		return Selector{}, false
	}
	switch raw[0] {
	case '.':
		return Selector{Kind: SelectorClass, Name: name}, true
	case '#':
		return Selector{Kind: SelectorID, Name: name}, true
	}
	return Selector{}, false
}

// joinTokens renders declaration value tokens back to text, collapsing
// whitespace runs to single spaces.
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	lastSpace := true
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		sb.Write(t.Data)
		lastSpace = false
	}
	return strings.TrimSpace(sb.String())
}
