// Package media provides image processing utilities
package media

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/StackForgeHQ/stackforge-go/pkg/config"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// ImageProcessor handles media uploads under the configured base path.
// Originals go to images/, generated WebP thumbnails to images/thumbs/.
type ImageProcessor struct {
	basePath string
}

// ProcessedImage describes a stored upload and its serving paths.
type ProcessedImage struct {
	Filename string
	URL      string
	SrcSet   string
	Width    int
	Height   int
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath string) *ImageProcessor {
	return &ImageProcessor{
		basePath: basePath,
	}
}

// SniffExtension determines the canonical file extension from the upload's
// leading bytes. The declared filename and Content-Type are never trusted.
func SniffExtension(data []byte) (string, error) {
	if isSVG(data) {
		return "svg", nil
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("failed to sniff upload type: %w", err)
	}

	ext := kind.Extension
	if ext == "jpeg" {
		ext = "jpg"
	}
	for _, allowed := range config.UploadAllowedExts {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unsupported upload type %q", kind.MIME.Value)
}

// isSVG detects an SVG document, optionally behind an XML declaration or
// leading whitespace. filetype only matches binary signatures.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	text := strings.TrimSpace(string(head))
	if strings.HasPrefix(text, "<?xml") {
		if idx := strings.Index(text, "?>"); idx >= 0 {
			text = strings.TrimSpace(text[idx+2:])
		}
	}
	for strings.HasPrefix(text, "<!--") {
		idx := strings.Index(text, "-->")
		if idx < 0 {
			return false
		}
		text = strings.TrimSpace(text[idx+3:])
	}
	return strings.HasPrefix(text, "<svg")
}

// ValidateUpload enforces the size cap and the magic-byte allow-list,
// returning the canonical extension for storage.
func (p *ImageProcessor) ValidateUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > config.MaxUploadBytes {
		return "", fmt.Errorf("upload exceeds maximum size of %d bytes", config.MaxUploadBytes)
	}
	return SniffExtension(data)
}

// SaveImage validates and stores an upload, generating WebP thumbnails for
// raster formats. nodeID becomes the on-disk base name.
func (p *ImageProcessor) SaveImage(data []byte, nodeID string) (*ProcessedImage, error) {
	ext, err := p.ValidateUpload(data)
	if err != nil {
		return nil, err
	}

	imagesDir := filepath.Join(p.basePath, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", nodeID, ext)
	originalPath := filepath.Join(imagesDir, filename)
	if err := os.WriteFile(originalPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	result := &ProcessedImage{
		Filename: filename,
		URL:      "/media/images/" + filename,
	}

	// SVGs are served as-is; no raster decode, no thumbnails.
	if ext == "svg" {
		return result, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		os.Remove(originalPath)
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	result.Width = bounds.Dx()
	result.Height = bounds.Dy()

	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		os.Remove(originalPath)
		return nil, fmt.Errorf("failed to create thumbs directory: %w", err)
	}

	// Upscaling is pointless: only widths below the original get a
	// thumbnail, with the original width as a floor so small images still
	// get one WebP rendition.
	widths := make([]int, 0, len(config.ThumbnailWidths))
	for _, width := range config.ThumbnailWidths {
		if width < result.Width {
			widths = append(widths, width)
		}
	}
	if len(widths) == 0 {
		widths = append(widths, result.Width)
	}

	var srcSet []string
	var written []string
	for _, width := range widths {
		resized := img
		if width < result.Width {
			resized = imaging.Resize(img, width, 0, imaging.Lanczos)
		}

		thumbFilename := fmt.Sprintf("%s_%dpx.webp", nodeID, width)
		thumbPath := filepath.Join(thumbsDir, thumbFilename)
		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: float32(config.ThumbnailQuality)}); err != nil {
			for _, path := range written {
				os.Remove(path)
			}
			os.Remove(originalPath)
			return nil, fmt.Errorf("failed to save WebP thumbnail %s: %w", thumbFilename, err)
		}
		written = append(written, thumbPath)
		srcSet = append(srcSet, fmt.Sprintf("/media/images/thumbs/%s %dw", thumbFilename, width))
	}
	result.SrcSet = strings.Join(srcSet, ", ")

	return result, nil
}

// DeleteImageAndThumbnails removes a stored image and any thumbnails that
// were generated for it. Missing files are not an error.
func (p *ImageProcessor) DeleteImageAndThumbnails(url string) error {
	if url == "" {
		return fmt.Errorf("empty image path")
	}

	filename := filepath.Base(url)
	basename := strings.TrimSuffix(filename, filepath.Ext(filename))

	originalPath := filepath.Join(p.basePath, strings.TrimPrefix(url, "/media/"))
	if err := os.Remove(originalPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove original image: %w", err)
	}

	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")
	matches, err := filepath.Glob(filepath.Join(thumbsDir, basename+"_*px.webp"))
	if err != nil {
		return fmt.Errorf("failed to list thumbnails: %w", err)
	}
	for _, thumbPath := range matches {
		if err := os.Remove(thumbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove thumbnail %s: %w", thumbPath, err)
		}
	}

	return nil
}
