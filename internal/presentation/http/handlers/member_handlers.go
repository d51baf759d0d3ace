package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/application/services"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
)

// MemberHandlers contains the member CRUD endpoints.
type MemberHandlers struct {
	memberService *services.MemberService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

func NewMemberHandlers(memberService *services.MemberService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *MemberHandlers {
	return &MemberHandlers{
		memberService: memberService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetAllMembers returns every member record.
func (h *MemberHandlers) GetAllMembers(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_all_members_request")
	defer marker.Complete()

	members, err := h.memberService.GetAll()
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"count":   len(members),
	})
}

// GetMemberByID returns one member.
func (h *MemberHandlers) GetMemberByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_member_by_id_request")
	defer marker.Complete()

	member, err := h.memberService.GetByID(c.Param("id"))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, member)
}

// CreateMember creates a member and sends the welcome email.
func (h *MemberHandlers) CreateMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_member_request")
	defer marker.Complete()

	var member content.MemberNode
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.memberService.Create(&member); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Member created", "memberId", member.ID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, member)
}

// UpdateMember updates a member record.
func (h *MemberHandlers) UpdateMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_member_request")
	defer marker.Complete()

	var member content.MemberNode
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	member.ID = c.Param("id")

	if err := h.memberService.Update(&member); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, member)
}

// DeleteMember deletes a member record.
func (h *MemberHandlers) DeleteMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_member_request")
	defer marker.Complete()

	if err := h.memberService.Delete(c.Param("id")); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Content().Info("Member deleted", "memberId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
