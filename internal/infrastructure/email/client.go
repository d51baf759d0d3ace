// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/email/templates"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendMemberWelcomeEmail(toEmail, name, siteName, siteURL string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
	}, nil
}

// SendMemberWelcomeEmail composes and sends the welcome email for a newly
// created member account.
func (c *ResendClient) SendMemberWelcomeEmail(toEmail, name, siteName, siteURL string) error {
	subject := "Welcome to " + siteName
	if siteName == "" {
		subject = "Your account is ready"
	}

	content := templates.GetWelcomeEmailContent(templates.WelcomeEmailProps{
		Name:     name,
		SiteName: siteName,
		SiteURL:  siteURL,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send welcome email via Resend: %w", err)
	}

	return nil
}
