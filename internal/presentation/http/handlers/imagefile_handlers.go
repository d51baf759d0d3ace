package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/application/services"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// UpdateAltRequest is the body for alt-text updates.
type UpdateAltRequest struct {
	AltDescription string `json:"altDescription"`
}

// ImageFileHandlers contains the media catalog endpoints.
type ImageFileHandlers struct {
	imageFileService *services.ImageFileService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

func NewImageFileHandlers(imageFileService *services.ImageFileService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ImageFileHandlers {
	return &ImageFileHandlers{
		imageFileService: imageFileService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// ListFiles returns catalog entries, optionally filtered by the "filter"
// query parameter (case-insensitive substring on filename and alt text).
func (h *ImageFileHandlers) ListFiles(c *gin.Context) {
	marker := h.perfTracker.StartOperation("list_files_request")
	defer marker.Complete()

	files, err := h.imageFileService.ListAssets(c.Query("filter"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"count": len(files),
	})
}

// GetFileByID returns one catalog entry.
func (h *ImageFileHandlers) GetFileByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_file_by_id_request")
	defer marker.Complete()

	file, err := h.imageFileService.GetByID(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, file)
}

// UploadFile accepts a multipart upload, sniffs and validates the payload,
// writes the original plus webp thumbnails and registers the catalog entry.
func (h *ImageFileHandlers) UploadFile(c *gin.Context) {
	marker := h.perfTracker.StartOperation("upload_file_request")
	defer marker.Complete()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required", "details": err.Error()})
		return
	}
	if fileHeader.Size > int64(config.MaxUploadBytes) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, int64(config.MaxUploadBytes)+1))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	entry, err := h.imageFileService.Upload(data, c.PostForm("altDescription"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Media().Info("File uploaded",
		"fileId", entry.ID, "filename", entry.Filename, "bytes", len(data))
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, entry)
}

// UpdateFileAlt updates the alt text of a catalog entry.
func (h *ImageFileHandlers) UpdateFileAlt(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_file_alt_request")
	defer marker.Complete()

	var req UpdateAltRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.imageFileService.UpdateAlt(c.Param("id"), req.AltDescription)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, entry)
}

// DeleteFile removes a catalog entry and its files on disk.
func (h *ImageFileHandlers) DeleteFile(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_file_request")
	defer marker.Complete()

	if err := h.imageFileService.DeleteAsset(c.Param("id")); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Media().Info("File deleted", "fileId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
