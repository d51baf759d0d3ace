package services

import (
	"fmt"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/repositories"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/security"
)

// NewsService orchestrates news item operations with cache-first repository pattern
type NewsService struct {
	newsRepo repositories.NewsRepository
}

// NewNewsService creates a new news application service
func NewNewsService(newsRepo repositories.NewsRepository) *NewsService {
	return &NewsService{
		newsRepo: newsRepo,
	}
}

// GetAll returns all news items (cache-first)
func (s *NewsService) GetAll() ([]*content.NewsNode, error) {
	items, err := s.newsRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all news items: %w", err)
	}

	return items, nil
}

// GetByID returns a news item by ID (cache-first)
func (s *NewsService) GetByID(id string) (*content.NewsNode, error) {
	if id == "" {
		return nil, fmt.Errorf("news item ID cannot be empty")
	}

	item, err := s.newsRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get news item %s: %w", id, err)
	}

	return item, nil
}

// GetBySlug returns a news item by slug (cache-first)
func (s *NewsService) GetBySlug(slug string) (*content.NewsNode, error) {
	if slug == "" {
		return nil, fmt.Errorf("news item slug cannot be empty")
	}

	item, err := s.newsRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get news item by slug %s: %w", slug, err)
	}

	return item, nil
}

// Create stores a new news item as an unpublished draft
func (s *NewsService) Create(item *content.NewsNode) error {
	if item == nil {
		return fmt.Errorf("news item cannot be nil")
	}
	if item.ID == "" {
		item.ID = security.GenerateULID()
	}
	if item.Title == "" {
		return fmt.Errorf("news item title cannot be empty")
	}
	if item.Slug == "" {
		return fmt.Errorf("news item slug cannot be empty")
	}
	now := time.Now().UTC()
	item.Created = now
	item.Changed = &now

	if err := s.newsRepo.Store(item); err != nil {
		return fmt.Errorf("failed to create news item %s: %w", item.ID, err)
	}

	return nil
}

// Update updates an existing news item
func (s *NewsService) Update(item *content.NewsNode) error {
	if item == nil {
		return fmt.Errorf("news item cannot be nil")
	}
	if item.ID == "" {
		return fmt.Errorf("news item ID cannot be empty")
	}
	if item.Title == "" {
		return fmt.Errorf("news item title cannot be empty")
	}
	if item.Slug == "" {
		return fmt.Errorf("news item slug cannot be empty")
	}

	existing, err := s.newsRepo.FindByID(item.ID)
	if err != nil {
		return fmt.Errorf("failed to verify news item %s exists: %w", item.ID, err)
	}
	if existing == nil {
		return fmt.Errorf("news item %s not found", item.ID)
	}

	item.Created = existing.Created
	now := time.Now().UTC()
	item.Changed = &now

	if err := s.newsRepo.Update(item); err != nil {
		return fmt.Errorf("failed to update news item %s: %w", item.ID, err)
	}

	return nil
}

// Publish stamps a news item as published now
func (s *NewsService) Publish(id string) (*content.NewsNode, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("news item %s not found", id)
	}

	now := time.Now().UTC()
	item.PublishedAt = &now
	item.Changed = &now

	if err := s.newsRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to publish news item %s: %w", id, err)
	}

	return item, nil
}

// Delete deletes a news item
func (s *NewsService) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("news item ID cannot be empty")
	}

	existing, err := s.newsRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("failed to verify news item %s exists: %w", id, err)
	}
	if existing == nil {
		return fmt.Errorf("news item %s not found", id)
	}

	if err := s.newsRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete news item %s: %w", id, err)
	}

	return nil
}
