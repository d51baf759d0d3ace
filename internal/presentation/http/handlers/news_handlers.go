package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/application/services"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
)

// NewsHandlers contains the news CRUD endpoints.
type NewsHandlers struct {
	newsService *services.NewsService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewNewsHandlers(newsService *services.NewsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *NewsHandlers {
	return &NewsHandlers{
		newsService: newsService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetAllNews returns every news entry.
func (h *NewsHandlers) GetAllNews(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_all_news_request")
	defer marker.Complete()

	entries, err := h.newsService.GetAll()
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"news":  entries,
		"count": len(entries),
	})
}

// GetNewsByID returns one news entry.
func (h *NewsHandlers) GetNewsByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_news_by_id_request")
	defer marker.Complete()

	entry, err := h.newsService.GetByID(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "news entry not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, entry)
}

// CreateNews creates a news entry.
func (h *NewsHandlers) CreateNews(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_news_request")
	defer marker.Complete()

	var entry content.NewsNode
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.newsService.Create(&entry); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("News entry created", "newsId", entry.ID, "slug", entry.Slug)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, entry)
}

// UpdateNews updates a news entry.
func (h *NewsHandlers) UpdateNews(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_news_request")
	defer marker.Complete()

	var entry content.NewsNode
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	entry.ID = c.Param("id")

	if err := h.newsService.Update(&entry); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, entry)
}

// PublishNews stamps a news entry's publication time.
func (h *NewsHandlers) PublishNews(c *gin.Context) {
	marker := h.perfTracker.StartOperation("publish_news_request")
	defer marker.Complete()

	entry, err := h.newsService.Publish(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("News entry published", "newsId", entry.ID)
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, entry)
}

// DeleteNews deletes a news entry.
func (h *NewsHandlers) DeleteNews(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_news_request")
	defer marker.Complete()

	if err := h.newsService.Delete(c.Param("id")); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("News entry deleted", "newsId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
