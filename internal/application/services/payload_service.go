package services

import (
	"fmt"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	domainservices "github.com/StackForgeHQ/stackforge-go/internal/domain/services"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/microcosm-cc/bluemonday"
)

// PayloadMeta is the out-of-band metadata attached to a save from the
// surrounding form state, never from the surface itself.
type PayloadMeta struct {
	Title    string         `json:"title,omitempty"`
	Slug     string         `json:"slug,omitempty"`
	Status   string         `json:"status"`
	Weight   int            `json:"weight"`
	ParentID *string        `json:"parentId,omitempty"`
	Flags    map[string]any `json:"flags,omitempty"`
}

// SavePayload is the complete unit handed to the persistence collaborator:
// the three-encoding artifact plus form metadata.
type SavePayload struct {
	Artifact composer.Artifact `json:"artifact"`
	Meta     PayloadMeta       `json:"meta"`
}

// PayloadService assembles a self-consistent persisted artifact from the
// current surface state. It performs no I/O of its own; the caller owns
// transmission to the persistence collaborator.
type PayloadService struct {
	resolver  *domainservices.StyleIdentityResolver
	sanitizer *bluemonday.Policy
	logger    *logging.ChanneledLogger
}

// NewPayloadService creates a new save pipeline.
func NewPayloadService(resolver *domainservices.StyleIdentityResolver, logger *logging.ChanneledLogger) *PayloadService {
	return &PayloadService{
		resolver:  resolver,
		sanitizer: newMarkupPolicy(),
		logger:    logger,
	}
}

// newMarkupPolicy builds the sanitation policy for persisted markup. It
// keeps the editor's class/id/style attributes but drops inline-embedded
// payloads and script vectors.
func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id", "style").Globally()
	p.AllowAttrs("data-node-id", "data-node-type").Globally()
	p.AllowRelativeURLs(true)
	return p
}

// BuildPayload reads the live surface, re-applies identity resolution and
// composes the three redundant encodings. A surface with no content at all
// still yields a well-formed empty artifact so drafts can be created before
// anything is authored.
func (s *PayloadService) BuildPayload(surface composer.EditingSurface, meta PayloadMeta) (*SavePayload, error) {
	markup, err := surface.ExportMarkup()
	if err != nil {
		return nil, fmt.Errorf("failed to export markup: %w", err)
	}
	stylesheet, err := surface.ExportStylesheet()
	if err != nil {
		return nil, fmt.Errorf("failed to export stylesheet: %w", err)
	}
	tree, rules, err := surface.ExportStructure()
	if err != nil {
		return nil, fmt.Errorf("failed to export structure: %w", err)
	}

	markup = s.sanitizer.Sanitize(markup)

	artifact := composer.Artifact{
		Stylesheet:   stylesheet,
		EncodingKind: composer.EncodingMarkupOnly,
	}

	if tree != nil {
		rewritten := s.resolver.RewriteAllRules(rules, tree)
		artifact.StructuredTree = &composer.StructuredTree{
			Components: tree.Roots,
			Rules:      rewritten,
		}
		artifact.EncodingKind = composer.EncodingStructured
		// Keep the textual stylesheet consistent with the rewritten rules so
		// every persisted selector resolves against the persisted tree.
		artifact.Stylesheet = composer.FormatStylesheet(rewritten)
	}

	// Single redundant embedded copy for markup-only consumers.
	artifact.Markup = composer.EmbedStyleBlock(markup, artifact.Stylesheet)

	if s.logger != nil {
		s.logger.Sync().Debug("Payload built",
			"encoding", artifact.EncodingKind,
			"markupBytes", len(artifact.Markup),
			"ruleCount", ruleCount(artifact.StructuredTree))
	}

	return &SavePayload{Artifact: artifact, Meta: meta}, nil
}

func ruleCount(tree *composer.StructuredTree) int {
	if tree == nil {
		return 0
	}
	return len(tree.Rules)
}
