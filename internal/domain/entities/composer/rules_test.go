package composer

import (
	"strings"
	"testing"
)

func TestParseStylesheet_ClassAndID(t *testing.T) {
	// WHAT: class and id selectors parse into typed rules with ordered
	// declarations.
	rules := ParseStylesheet(".b2 { color: blue; margin: 0 auto; }\n#sf-x { color: red; }")
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	first := rules[0]
	if first.Selectors[0] != (Selector{Kind: SelectorClass, Name: "b2"}) {
		t.Fatalf("unexpected first selector: %+v", first.Selectors[0])
	}
	if len(first.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(first.Declarations))
	}
	if first.Declarations[1].Property != "margin" || first.Declarations[1].Value != "0 auto" {
		t.Fatalf("unexpected declaration: %+v", first.Declarations[1])
	}

	second := rules[1]
	if second.Selectors[0] != (Selector{Kind: SelectorID, Name: "sf-x"}) {
		t.Fatalf("unexpected second selector: %+v", second.Selectors[0])
	}
}

func TestParseStylesheet_SkipsUnmanagedSelectors(t *testing.T) {
	// WHAT: element selectors, combinators and at-rules are skipped.
	// WHY: the engine only manages per-component rules; inventing semantics
	// for anything else would corrupt round-trips.
	rules := ParseStylesheet(`
		p { color: green; }
		.a .b { color: red; }
		@media (min-width: 600px) { .c { color: blue; } }
		.keep { color: black; }
	`)
	if len(rules) != 1 {
		t.Fatalf("expected only the managed rule, got %d", len(rules))
	}
	if rules[0].Selectors[0].Name != "keep" {
		t.Fatalf("wrong rule survived: %+v", rules[0].Selectors[0])
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	// WHAT: format→parse preserves rules selector-for-selector and
	// declaration-for-declaration.
	// WHY: saves must round-trip through another load without drift.
	in := []*StyleRule{
		{
			Selectors:    []Selector{{Kind: SelectorID, Name: "sf-a"}},
			Declarations: []Declaration{{Property: "color", Value: "red"}, {Property: "padding", Value: "1px 2px"}},
		},
		{
			Selectors:    []Selector{{Kind: SelectorClass, Name: "orphan"}},
			Declarations: []Declaration{{Property: "color", Value: "blue"}},
		},
	}

	text := FormatStylesheet(in)
	out := ParseStylesheet(text)

	if len(out) != len(in) {
		t.Fatalf("rule count drifted: %d != %d", len(out), len(in))
	}
	for i := range in {
		if !in[i].Equal(out[i]) {
			t.Fatalf("rule %d drifted:\n in: %+v\nout: %+v", i, in[i], out[i])
		}
	}

	// Formatting the reparsed rules is byte-stable.
	if again := FormatStylesheet(out); again != text {
		t.Fatalf("formatting is not stable:\n%q\n%q", text, again)
	}
}

func TestSelectorString(t *testing.T) {
	if got := (Selector{Kind: SelectorClass, Name: "a1"}).String(); got != ".a1" {
		t.Fatalf("class selector rendered as %q", got)
	}
	if got := (Selector{Kind: SelectorID, Name: "sf-1"}).String(); got != "#sf-1" {
		t.Fatalf("id selector rendered as %q", got)
	}
}

func TestParseStylesheet_Empty(t *testing.T) {
	if rules := ParseStylesheet("   \n"); len(rules) != 0 {
		t.Fatalf("expected no rules, got %d", len(rules))
	}
}

func TestFormatStylesheet_SkipsSelectorlessRules(t *testing.T) {
	text := FormatStylesheet([]*StyleRule{nil, {Declarations: []Declaration{{Property: "color", Value: "red"}}}})
	if strings.TrimSpace(text) != "" {
		t.Fatalf("expected empty output, got %q", text)
	}
}
