// Package services provides domain services that enforce invariants on the
// editor content-synchronization engine's entities.
package services

import (
	"log/slog"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/oklog/ulid/v2"
)

// nodeIDPrefix keeps generated identities valid as bare CSS identifiers;
// a ULID may start with a digit.
const nodeIDPrefix = "sf-"

// StyleIdentityResolver guarantees stable, collision-free addressing of
// style rules across repeated edit/save cycles. Live class names are
// ephemeral; persisted rules are anchored to node identities instead.
type StyleIdentityResolver struct {
	logger *slog.Logger
}

// NewStyleIdentityResolver creates a new resolver.
func NewStyleIdentityResolver(logger *slog.Logger) *StyleIdentityResolver {
	return &StyleIdentityResolver{logger: logger}
}

// EnsureIdentity assigns a fresh identity to the node if it has none,
// unique within the tree, and returns it. Calling twice on the same node
// yields the same id with no further mutation.
func (r *StyleIdentityResolver) EnsureIdentity(node *composer.ComponentNode, tree *composer.Tree) string {
	if node.NodeID != "" {
		return node.NodeID
	}
	id := nodeIDPrefix + ulid.Make().String()
	for tree.HasID(id) {
		id = nodeIDPrefix + ulid.Make().String()
	}
	node.NodeID = id
	return id
}

// RewriteRuleToIdentity replaces a class-typed selector with a single
// id-typed selector referencing the node that carries the class. Rules
// whose class matches no node pass through unchanged: the author may be
// mid-edit with the referencing node temporarily detached, and a save must
// never be blocked by a styling inconsistency.
//
// When several nodes share the class, the first in document order wins.
// Classes are expected to be unique per styled node; the tie-break is
// logged rather than enforced.
func (r *StyleIdentityResolver) RewriteRuleToIdentity(rule *composer.StyleRule, tree *composer.Tree) *composer.StyleRule {
	if rule == nil || len(rule.Selectors) == 0 {
		return rule
	}
	first := rule.Selectors[0]
	if first.Kind != composer.SelectorClass {
		return rule
	}

	matches := tree.FindByClass(first.Name)
	if len(matches) == 0 {
		return rule
	}
	if len(matches) > 1 && r.logger != nil {
		r.logger.Warn("Class name shared by multiple nodes, resolving to first in document order",
			"class", first.Name, "matches", len(matches))
	}

	node := matches[0]
	id := r.EnsureIdentity(node, tree)

	rewritten := rule.Clone()
	rewritten.Selectors = []composer.Selector{{Kind: composer.SelectorID, Name: id}}
	return rewritten
}

// RewriteAllRules applies RewriteRuleToIdentity to every rule and returns a
// new rule list. Already-resolved and orphaned rules are carried through
// untouched.
func (r *StyleIdentityResolver) RewriteAllRules(rules []*composer.StyleRule, tree *composer.Tree) []*composer.StyleRule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]*composer.StyleRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, r.RewriteRuleToIdentity(rule, tree))
	}
	return out
}
