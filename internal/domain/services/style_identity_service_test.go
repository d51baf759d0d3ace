package services

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
)

func newResolver() *StyleIdentityResolver {
	return NewStyleIdentityResolver(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func classRule(class string, decls ...composer.Declaration) *composer.StyleRule {
	return &composer.StyleRule{
		Selectors:    []composer.Selector{{Kind: composer.SelectorClass, Name: class}},
		Declarations: decls,
	}
}

func TestEnsureIdentity_Idempotent(t *testing.T) {
	// WHAT: assigning identity twice yields the same id and no further mutation.
	// WHY: identity must be stable for the lifetime of the editing session.
	r := newResolver()
	node := &composer.ComponentNode{NodeType: "text", ClassNames: []string{"a1"}}
	tree := &composer.Tree{Roots: []*composer.ComponentNode{node}}

	first := r.EnsureIdentity(node, tree)
	if first == "" {
		t.Fatal("expected a generated identity")
	}
	if !strings.HasPrefix(first, "sf-") {
		t.Fatalf("identity %q should carry the sf- prefix", first)
	}
	second := r.EnsureIdentity(node, tree)
	if second != first {
		t.Fatalf("identity changed on second call: %q != %q", second, first)
	}
}

func TestEnsureIdentity_UniqueWithinTree(t *testing.T) {
	// WHAT: every assigned identity is unique within the tree.
	// WHY: colliding ids would silently merge unrelated style rules.
	r := newResolver()
	tree := &composer.Tree{}
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		node := &composer.ComponentNode{NodeType: "text"}
		tree.Roots = append(tree.Roots, node)
		id := r.EnsureIdentity(node, tree)
		if seen[id] {
			t.Fatalf("duplicate identity %q", id)
		}
		seen[id] = true
	}
}

func TestRewriteRuleToIdentity_Basic(t *testing.T) {
	// WHAT: a class-typed rule is rewritten to a single id selector pointing
	// at the node carrying the class.
	r := newResolver()
	node := &composer.ComponentNode{NodeType: "text", ClassNames: []string{"a1"}}
	tree := &composer.Tree{Roots: []*composer.ComponentNode{node}}

	rule := classRule("a1", composer.Declaration{Property: "color", Value: "red"})
	out := r.RewriteRuleToIdentity(rule, tree)

	if len(out.Selectors) != 1 {
		t.Fatalf("expected exactly one selector, got %d", len(out.Selectors))
	}
	sel := out.Selectors[0]
	if sel.Kind != composer.SelectorID {
		t.Fatalf("expected id selector, got %q", sel.Kind)
	}
	if sel.Name != node.NodeID {
		t.Fatalf("selector %q does not reference node identity %q", sel.Name, node.NodeID)
	}
	if len(out.Declarations) != 1 || out.Declarations[0].Value != "red" {
		t.Fatal("declarations must survive the rewrite")
	}
	// Original rule is not mutated.
	if rule.Selectors[0].Kind != composer.SelectorClass {
		t.Fatal("rewrite mutated the input rule")
	}
}

func TestRewriteRuleToIdentity_OrphanPreserved(t *testing.T) {
	// WHAT: a rule whose class matches no node passes through unchanged.
	// WHY: the referencing node may be temporarily detached mid-edit; a save
	// must never drop or block on such rules.
	r := newResolver()
	tree := &composer.Tree{Roots: []*composer.ComponentNode{
		{NodeType: "text", ClassNames: []string{"present"}},
	}}

	rule := classRule("missing", composer.Declaration{Property: "color", Value: "blue"})
	out := r.RewriteRuleToIdentity(rule, tree)

	if out != rule {
		t.Fatal("orphaned rule should be returned verbatim")
	}
	if out.Selectors[0].Kind != composer.SelectorClass || out.Selectors[0].Name != "missing" {
		t.Fatal("orphaned rule was modified")
	}
}

func TestRewriteRuleToIdentity_CollisionFirstInDocumentOrder(t *testing.T) {
	// WHAT: when two nodes share a class, the first in document order wins.
	// WHY: documented tie-break; classes are expected unique but not enforced.
	r := newResolver()
	first := &composer.ComponentNode{NodeType: "text", ClassNames: []string{"dup"}}
	second := &composer.ComponentNode{NodeType: "text", ClassNames: []string{"dup"}}
	parent := &composer.ComponentNode{NodeType: "container", Children: []*composer.ComponentNode{first}}
	tree := &composer.Tree{Roots: []*composer.ComponentNode{parent, second}}

	out := r.RewriteRuleToIdentity(classRule("dup"), tree)
	if out.Selectors[0].Name != first.NodeID {
		t.Fatalf("expected first node in document order to win, got %q want %q",
			out.Selectors[0].Name, first.NodeID)
	}
	if second.NodeID != "" {
		t.Fatal("losing node must not receive an identity")
	}
}

func TestRewriteAllRules_AlreadyResolvedUntouched(t *testing.T) {
	// WHAT: id-typed rules pass through unchanged; the rewrite is idempotent
	// across repeated save cycles.
	r := newResolver()
	node := &composer.ComponentNode{NodeType: "text", ClassNames: []string{"a1"}}
	tree := &composer.Tree{Roots: []*composer.ComponentNode{node}}

	rules := []*composer.StyleRule{classRule("a1", composer.Declaration{Property: "color", Value: "red"})}
	firstPass := r.RewriteAllRules(rules, tree)
	secondPass := r.RewriteAllRules(firstPass, tree)

	if len(firstPass) != 1 || len(secondPass) != 1 {
		t.Fatalf("rule count changed: %d then %d", len(firstPass), len(secondPass))
	}
	if !firstPass[0].Equal(secondPass[0]) {
		t.Fatal("second rewrite changed an already-resolved rule")
	}
	if secondPass[0] != firstPass[0] {
		t.Fatal("already-resolved rule should be passed through, not cloned")
	}
}
