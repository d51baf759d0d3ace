package services

import (
	"fmt"
	"strings"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/repositories"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/media"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/security"
)

// ImageFileService orchestrates the media catalog: validated uploads, listing
// and deletion. It is the asset synchronizer's MediaCatalog.
type ImageFileService struct {
	imageFileRepo repositories.ImageFileRepository
	processor     *media.ImageProcessor
	logger        *logging.ChanneledLogger
}

// NewImageFileService creates a new imagefile application service
func NewImageFileService(imageFileRepo repositories.ImageFileRepository, processor *media.ImageProcessor, logger *logging.ChanneledLogger) *ImageFileService {
	return &ImageFileService{
		imageFileRepo: imageFileRepo,
		processor:     processor,
		logger:        logger,
	}
}

// GetAllIDs returns all imagefile IDs (cache-first)
func (s *ImageFileService) GetAllIDs() ([]string, error) {
	imageFiles, err := s.imageFileRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all imagefiles: %w", err)
	}

	ids := make([]string, len(imageFiles))
	for i, imageFile := range imageFiles {
		ids[i] = imageFile.ID
	}

	return ids, nil
}

// GetByID returns an imagefile by ID (cache-first)
func (s *ImageFileService) GetByID(id string) (*content.ImageFileNode, error) {
	if id == "" {
		return nil, fmt.Errorf("imagefile ID cannot be empty")
	}

	imageFile, err := s.imageFileRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get imagefile %s: %w", id, err)
	}

	return imageFile, nil
}

// GetByIDs returns multiple imagefiles by IDs (cache-first with bulk loading)
func (s *ImageFileService) GetByIDs(ids []string) ([]*content.ImageFileNode, error) {
	if len(ids) == 0 {
		return []*content.ImageFileNode{}, nil
	}

	imageFiles, err := s.imageFileRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get imagefiles by IDs: %w", err)
	}

	return imageFiles, nil
}

// ListAssets returns catalog entries whose filename or alt text contains the
// filter, or everything when the filter is empty.
func (s *ImageFileService) ListAssets(filter string) ([]*content.ImageFileNode, error) {
	imageFiles, err := s.imageFileRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list media catalog: %w", err)
	}
	if filter == "" {
		return imageFiles, nil
	}

	needle := strings.ToLower(filter)
	matched := make([]*content.ImageFileNode, 0, len(imageFiles))
	for _, imageFile := range imageFiles {
		if strings.Contains(strings.ToLower(imageFile.Filename), needle) ||
			strings.Contains(strings.ToLower(imageFile.AltDescription), needle) {
			matched = append(matched, imageFile)
		}
	}
	return matched, nil
}

// Upload validates raw upload bytes against the size cap and magic-byte
// allow-list, stores the file with WebP thumbnails, and catalogs it.
func (s *ImageFileService) Upload(data []byte, altDescription string) (*content.ImageFileNode, error) {
	id := security.GenerateULID()

	processed, err := s.processor.SaveImage(data, id)
	if err != nil {
		return nil, fmt.Errorf("failed to process upload: %w", err)
	}

	node := &content.ImageFileNode{
		ID:             id,
		Filename:       processed.Filename,
		NodeType:       "File",
		AltDescription: altDescription,
		URL:            processed.URL,
		Width:          processed.Width,
		Height:         processed.Height,
	}
	if processed.SrcSet != "" {
		node.SrcSet = &processed.SrcSet
	}

	if err := s.imageFileRepo.Store(node); err != nil {
		// Keep disk and catalog consistent when the row fails.
		if cleanupErr := s.processor.DeleteImageAndThumbnails(processed.URL); cleanupErr != nil {
			s.logger.Media().Warn("Failed to clean up orphaned upload",
				"url", processed.URL, "error", cleanupErr.Error())
		}
		return nil, fmt.Errorf("failed to catalog upload: %w", err)
	}

	s.logger.Media().Info("Upload cataloged",
		"id", node.ID, "filename", node.Filename, "bytes", len(data))
	return node, nil
}

// UpdateAlt updates an imagefile's alt text
func (s *ImageFileService) UpdateAlt(id, altDescription string) (*content.ImageFileNode, error) {
	imageFile, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if imageFile == nil {
		return nil, fmt.Errorf("imagefile %s not found", id)
	}

	imageFile.AltDescription = altDescription
	if err := s.imageFileRepo.Update(imageFile); err != nil {
		return nil, fmt.Errorf("failed to update imagefile %s: %w", id, err)
	}

	return imageFile, nil
}

// DeleteAsset removes a catalog entry and its files on disk.
func (s *ImageFileService) DeleteAsset(catalogID string) error {
	if catalogID == "" {
		return fmt.Errorf("imagefile ID cannot be empty")
	}

	imageFile, err := s.imageFileRepo.FindByID(catalogID)
	if err != nil {
		return fmt.Errorf("failed to verify imagefile %s exists: %w", catalogID, err)
	}
	if imageFile == nil {
		return fmt.Errorf("imagefile %s not found", catalogID)
	}

	if err := s.imageFileRepo.Delete(catalogID); err != nil {
		return fmt.Errorf("failed to delete imagefile %s: %w", catalogID, err)
	}

	if err := s.processor.DeleteImageAndThumbnails(imageFile.URL); err != nil {
		// The catalog row is gone; leftover files are logged, not fatal.
		s.logger.Media().Warn("Failed to remove files for deleted imagefile",
			"id", catalogID, "error", err.Error())
	}

	return nil
}
