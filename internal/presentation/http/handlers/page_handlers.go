package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/application/services"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
)

// PageIDsRequest is the request body for bulk page loading.
type PageIDsRequest struct {
	PageIDs []string `json:"pageIds" binding:"required"`
}

// DuplicatePageRequest carries optional overrides for a page duplicate.
type DuplicatePageRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// PageHandlers contains all page-related HTTP handlers.
type PageHandlers struct {
	pageService *services.PageService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewPageHandlers(pageService *services.PageService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PageHandlers {
	return &PageHandlers{
		pageService: pageService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetAllPageIDs returns all page IDs using the cache-first pattern.
func (h *PageHandlers) GetAllPageIDs(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_all_page_ids_request")
	defer marker.Complete()

	pageIDs, err := h.pageService.GetAllIDs()
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"pageIds": pageIDs,
		"count":   len(pageIDs),
	})
}

// GetPagesByIDs returns multiple pages by IDs.
func (h *PageHandlers) GetPagesByIDs(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_pages_by_ids_request")
	defer marker.Complete()

	var req PageIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if len(req.PageIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageIds array cannot be empty"})
		return
	}

	pages, err := h.pageService.GetByIDs(req.PageIDs)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Debug("Bulk page load",
		"requested", len(req.PageIDs), "found", len(pages), "duration", time.Since(start))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"pages": pages,
		"count": len(pages),
	})
}

// GetPageByID returns a specific page by ID.
func (h *PageHandlers) GetPageByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_page_by_id_request")
	defer marker.Complete()

	page, err := h.pageService.GetByID(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, page)
}

// CreatePage creates a new page.
func (h *PageHandlers) CreatePage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_page_request")
	defer marker.Complete()

	var page content.PageNode
	if err := c.ShouldBindJSON(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.pageService.Create(&page); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Page created", "pageId", page.ID, "slug", page.Slug)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, page)
}

// UpdatePage updates an existing page.
func (h *PageHandlers) UpdatePage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_page_request")
	defer marker.Complete()

	var page content.PageNode
	if err := c.ShouldBindJSON(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	page.ID = c.Param("id")

	if err := h.pageService.Update(&page); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, page)
}

// DeletePage deletes a page.
func (h *PageHandlers) DeletePage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_page_request")
	defer marker.Complete()

	if err := h.pageService.Delete(c.Param("id")); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Page deleted", "pageId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// FetchArtifact returns the persisted content artifact for a page.
func (h *PageHandlers) FetchArtifact(c *gin.Context) {
	marker := h.perfTracker.StartOperation("fetch_artifact_request")
	defer marker.Complete()

	artifact, err := h.pageService.FetchArtifact(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, artifact)
}

// SaveArtifact applies a client-built save payload to a page.
func (h *PageHandlers) SaveArtifact(c *gin.Context) {
	marker := h.perfTracker.StartOperation("save_artifact_request")
	defer marker.Complete()

	var payload services.SavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	page, err := h.pageService.SaveArtifact(c.Param("id"), &payload)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Artifact saved",
		"pageId", page.ID, "encoding", payload.Artifact.EncodingKind)
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, page)
}

// PublishPage transitions a page to published.
func (h *PageHandlers) PublishPage(c *gin.Context) {
	h.setStatus(c, h.pageService.Publish, "publish_page_request")
}

// ArchivePage transitions a page to archived.
func (h *PageHandlers) ArchivePage(c *gin.Context) {
	h.setStatus(c, h.pageService.Archive, "archive_page_request")
}

func (h *PageHandlers) setStatus(c *gin.Context, transition func(string) (*content.PageNode, error), operation string) {
	marker := h.perfTracker.StartOperation(operation)
	defer marker.Complete()

	page, err := transition(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Page status changed", "pageId", page.ID, "status", page.Status)
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, page)
}

// DuplicatePage clones a page under a fresh ID and draft status.
func (h *PageHandlers) DuplicatePage(c *gin.Context) {
	marker := h.perfTracker.StartOperation("duplicate_page_request")
	defer marker.Complete()

	var req DuplicatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	clone, err := h.pageService.Duplicate(c.Param("id"), req.Title, req.Slug)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Page duplicated", "sourceId", c.Param("id"), "cloneId", clone.ID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, clone)
}
