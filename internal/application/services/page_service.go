package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/repositories"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/security"
)

// PageService orchestrates page operations with cache-first repository pattern.
// It owns the mapping between persisted page rows and the artifact handed to
// the content loader and save pipeline.
type PageService struct {
	pageRepo repositories.PageRepository
}

// NewPageService creates a new page application service
func NewPageService(pageRepo repositories.PageRepository) *PageService {
	return &PageService{
		pageRepo: pageRepo,
	}
}

// GetAllIDs returns all page IDs (cache-first)
func (s *PageService) GetAllIDs() ([]string, error) {
	pages, err := s.pageRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all pages: %w", err)
	}

	ids := make([]string, len(pages))
	for i, page := range pages {
		ids[i] = page.ID
	}

	return ids, nil
}

// GetByID returns a page by ID (cache-first)
func (s *PageService) GetByID(id string) (*content.PageNode, error) {
	if id == "" {
		return nil, fmt.Errorf("page ID cannot be empty")
	}

	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", id, err)
	}

	return page, nil
}

// GetByIDs returns multiple pages by IDs (cache-first with bulk loading)
func (s *PageService) GetByIDs(ids []string) ([]*content.PageNode, error) {
	if len(ids) == 0 {
		return []*content.PageNode{}, nil
	}

	pages, err := s.pageRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages by IDs: %w", err)
	}

	return pages, nil
}

// GetBySlug returns a page by slug (cache-first)
func (s *PageService) GetBySlug(slug string) (*content.PageNode, error) {
	if slug == "" {
		return nil, fmt.Errorf("page slug cannot be empty")
	}

	page, err := s.pageRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get page by slug %s: %w", slug, err)
	}

	return page, nil
}

// Create stores a new page
func (s *PageService) Create(page *content.PageNode) error {
	if page == nil {
		return fmt.Errorf("page cannot be nil")
	}
	if page.ID == "" {
		page.ID = security.GenerateULID()
	}
	if page.Title == "" {
		return fmt.Errorf("page title cannot be empty")
	}
	if page.Slug == "" {
		return fmt.Errorf("page slug cannot be empty")
	}
	if page.Status == "" {
		page.Status = content.StatusDraft
	}
	now := time.Now().UTC()
	page.Created = now
	page.Changed = &now

	if err := s.pageRepo.Store(page); err != nil {
		return fmt.Errorf("failed to create page %s: %w", page.ID, err)
	}

	return nil
}

// Update updates an existing page
func (s *PageService) Update(page *content.PageNode) error {
	if page == nil {
		return fmt.Errorf("page cannot be nil")
	}
	if page.ID == "" {
		return fmt.Errorf("page ID cannot be empty")
	}
	if page.Title == "" {
		return fmt.Errorf("page title cannot be empty")
	}
	if page.Slug == "" {
		return fmt.Errorf("page slug cannot be empty")
	}

	existing, err := s.pageRepo.FindByID(page.ID)
	if err != nil {
		return fmt.Errorf("failed to verify page %s exists: %w", page.ID, err)
	}
	if existing == nil {
		return fmt.Errorf("page %s not found", page.ID)
	}

	page.Created = existing.Created
	now := time.Now().UTC()
	page.Changed = &now

	if err := s.pageRepo.Update(page); err != nil {
		return fmt.Errorf("failed to update page %s: %w", page.ID, err)
	}

	return nil
}

// Delete deletes a page
func (s *PageService) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("page ID cannot be empty")
	}

	existing, err := s.pageRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("failed to verify page %s exists: %w", id, err)
	}
	if existing == nil {
		return fmt.Errorf("page %s not found", id)
	}

	if err := s.pageRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}

	return nil
}

// FetchArtifact loads a page's persisted content as an artifact for the
// content loader. A page with no authored content yields an empty artifact.
func (s *PageService) FetchArtifact(id string) (*composer.Artifact, error) {
	page, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("page %s not found", id)
	}

	artifact := &composer.Artifact{
		Markup:       page.Markup,
		Stylesheet:   page.Stylesheet,
		EncodingKind: composer.EncodingMarkupOnly,
	}

	if tree, err := decodeStructuredTree(page.OptionsPayload); err != nil {
		// A corrupt structural encoding must not hide the page: fall back
		// to the markup encoding and let the loader take the split path.
		return artifact, nil
	} else if tree != nil {
		artifact.StructuredTree = tree
		artifact.EncodingKind = composer.EncodingStructured
	}

	return artifact, nil
}

// SaveArtifact applies a save payload to a page, creating the row when the
// page does not exist yet. The first save of a brand-new draft may omit the
// id; a fresh one is minted. Returns the stored page.
func (s *PageService) SaveArtifact(id string, payload *SavePayload) (*content.PageNode, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload cannot be nil")
	}

	var page *content.PageNode
	if id == "" {
		id = security.GenerateULID()
	} else {
		existing, err := s.pageRepo.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %s: %w", id, err)
		}
		page = existing
	}

	now := time.Now().UTC()
	creating := page == nil
	if creating {
		page = &content.PageNode{
			ID:       id,
			NodeType: "Page",
			Title:    payload.Meta.Title,
			Slug:     payload.Meta.Slug,
			Status:   content.StatusDraft,
			Created:  now,
		}
		if page.Title == "" {
			page.Title = "Untitled"
		}
		if page.Slug == "" {
			page.Slug = strings.ToLower(id)
		}
	} else {
		if payload.Meta.Title != "" {
			page.Title = payload.Meta.Title
		}
		if payload.Meta.Slug != "" {
			page.Slug = payload.Meta.Slug
		}
	}

	page.Markup = payload.Artifact.Markup
	page.Stylesheet = payload.Artifact.Stylesheet
	page.OptionsPayload = encodeStructuredTree(payload.Artifact.StructuredTree, payload.Meta.Flags)
	if payload.Meta.Status != "" {
		page.Status = payload.Meta.Status
	}
	page.Weight = payload.Meta.Weight
	page.ParentID = payload.Meta.ParentID
	page.Changed = &now

	if creating {
		if err := s.pageRepo.Store(page); err != nil {
			return nil, fmt.Errorf("failed to create page %s: %w", id, err)
		}
		return page, nil
	}

	if err := s.pageRepo.Update(page); err != nil {
		return nil, fmt.Errorf("failed to save page %s: %w", id, err)
	}

	return page, nil
}

// Publish transitions a page to published status
func (s *PageService) Publish(id string) (*content.PageNode, error) {
	return s.setStatus(id, content.StatusPublished)
}

// Archive transitions a page to archived status
func (s *PageService) Archive(id string) (*content.PageNode, error) {
	return s.setStatus(id, content.StatusArchived)
}

func (s *PageService) setStatus(id, status string) (*content.PageNode, error) {
	page, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("page %s not found", id)
	}

	page.Status = status
	now := time.Now().UTC()
	page.Changed = &now

	if err := s.pageRepo.Update(page); err != nil {
		return nil, fmt.Errorf("failed to set page %s status: %w", id, err)
	}

	return page, nil
}

// Duplicate clones a page's content into a new draft under a new identifier
// and slug. The clone starts as a draft regardless of the source's status.
func (s *PageService) Duplicate(id, newTitle, newSlug string) (*content.PageNode, error) {
	source, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("page %s not found", id)
	}
	if newSlug == "" {
		newSlug = source.Slug + "-copy"
	}
	if newTitle == "" {
		newTitle = source.Title + " (copy)"
	}

	now := time.Now().UTC()
	clone := &content.PageNode{
		ID:             security.GenerateULID(),
		Title:          newTitle,
		NodeType:       source.NodeType,
		Slug:           newSlug,
		Status:         content.StatusDraft,
		Weight:         source.Weight,
		ParentID:       source.ParentID,
		Markup:         source.Markup,
		Stylesheet:     source.Stylesheet,
		OptionsPayload: cloneOptionsPayload(source.OptionsPayload),
		Created:        now,
		Changed:        &now,
	}

	if err := s.pageRepo.Store(clone); err != nil {
		return nil, fmt.Errorf("failed to duplicate page %s: %w", id, err)
	}

	return clone, nil
}

const structuredTreeKey = "structuredTree"

// encodeStructuredTree folds the structural encoding and form flags into a
// page's options payload.
func encodeStructuredTree(tree *composer.StructuredTree, flags map[string]any) map[string]any {
	payload := make(map[string]any, len(flags)+1)
	for k, v := range flags {
		payload[k] = v
	}
	if tree != nil && len(tree.Components) > 0 {
		payload[structuredTreeKey] = tree
	}
	return payload
}

// decodeStructuredTree recovers the structural encoding from an options
// payload. Returns nil when the page carries no structural copy.
func decodeStructuredTree(payload map[string]any) (*composer.StructuredTree, error) {
	raw, ok := payload[structuredTreeKey]
	if !ok || raw == nil {
		return nil, nil
	}

	// The value is a typed tree right after a save and generic JSON after a
	// round-trip through storage; normalize through JSON either way.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structured tree: %w", err)
	}
	var tree composer.StructuredTree
	if err := json.Unmarshal(encoded, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode structured tree: %w", err)
	}
	if len(tree.Components) == 0 {
		return nil, nil
	}
	return &tree, nil
}

func cloneOptionsPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	clone := make(map[string]any, len(payload))
	for k, v := range payload {
		clone[k] = v
	}
	return clone
}
