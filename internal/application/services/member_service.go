package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/repositories"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/email"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/security"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// MemberService orchestrates member account operations. Creation optionally
// sends a welcome email; email failures never fail the account creation.
type MemberService struct {
	memberRepo repositories.MemberRepository
	mailer     email.Service
	logger     *logging.ChanneledLogger
}

// NewMemberService creates a new member application service. The mailer may
// be nil when email is not configured.
func NewMemberService(memberRepo repositories.MemberRepository, mailer email.Service, logger *logging.ChanneledLogger) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		mailer:     mailer,
		logger:     logger,
	}
}

// GetAll returns all members (cache-first)
func (s *MemberService) GetAll() ([]*content.MemberNode, error) {
	members, err := s.memberRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all members: %w", err)
	}

	return members, nil
}

// GetByID returns a member by ID (cache-first)
func (s *MemberService) GetByID(id string) (*content.MemberNode, error) {
	if id == "" {
		return nil, fmt.Errorf("member ID cannot be empty")
	}

	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", id, err)
	}

	return member, nil
}

// GetByEmail returns a member by email address (cache-first)
func (s *MemberService) GetByEmail(address string) (*content.MemberNode, error) {
	if address == "" {
		return nil, fmt.Errorf("member email cannot be empty")
	}

	member, err := s.memberRepo.FindByEmail(normalizeEmail(address))
	if err != nil {
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return member, nil
}

// Create stores a new member and sends the welcome email when configured.
func (s *MemberService) Create(member *content.MemberNode) error {
	if member == nil {
		return fmt.Errorf("member cannot be nil")
	}
	member.Email = normalizeEmail(member.Email)
	if member.Email == "" || !strings.Contains(member.Email, "@") {
		return fmt.Errorf("member email is invalid")
	}

	existing, err := s.memberRepo.FindByEmail(member.Email)
	if err != nil {
		return fmt.Errorf("failed to check member email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("member with email %s already exists", member.Email)
	}

	if member.ID == "" {
		member.ID = security.GenerateULID()
	}
	if member.Role == "" {
		member.Role = "member"
	}
	now := time.Now().UTC()
	member.Created = now
	member.Changed = &now

	if err := s.memberRepo.Store(member); err != nil {
		return fmt.Errorf("failed to create member %s: %w", member.ID, err)
	}

	s.sendWelcomeEmail(member)
	return nil
}

// sendWelcomeEmail is best-effort: the member row already exists.
func (s *MemberService) sendWelcomeEmail(member *content.MemberNode) {
	if s.mailer == nil || !config.WelcomeEmailOn {
		return
	}
	if err := s.mailer.SendMemberWelcomeEmail(member.Email, member.FirstName, config.SiteName, config.SiteURL); err != nil {
		s.logger.System().Warn("Welcome email failed",
			"memberId", member.ID, "error", err.Error())
	}
}

// Update updates an existing member
func (s *MemberService) Update(member *content.MemberNode) error {
	if member == nil {
		return fmt.Errorf("member cannot be nil")
	}
	if member.ID == "" {
		return fmt.Errorf("member ID cannot be empty")
	}
	member.Email = normalizeEmail(member.Email)
	if member.Email == "" || !strings.Contains(member.Email, "@") {
		return fmt.Errorf("member email is invalid")
	}

	existing, err := s.memberRepo.FindByID(member.ID)
	if err != nil {
		return fmt.Errorf("failed to verify member %s exists: %w", member.ID, err)
	}
	if existing == nil {
		return fmt.Errorf("member %s not found", member.ID)
	}

	member.Created = existing.Created
	now := time.Now().UTC()
	member.Changed = &now

	if err := s.memberRepo.Update(member); err != nil {
		return fmt.Errorf("failed to update member %s: %w", member.ID, err)
	}

	return nil
}

// Delete deletes a member
func (s *MemberService) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("member ID cannot be empty")
	}

	existing, err := s.memberRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("failed to verify member %s exists: %w", id, err)
	}
	if existing == nil {
		return fmt.Errorf("member %s not found", id)
	}

	if err := s.memberRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete member %s: %w", id, err)
	}

	return nil
}

func normalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
