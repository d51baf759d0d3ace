// Package templates provides the member welcome email template
package templates

import "fmt"

type WelcomeEmailProps struct {
	Name     string
	SiteName string
	SiteURL  string
}

func GetWelcomeEmailContent(props WelcomeEmailProps) string {
	name := props.Name
	if name == "" {
		name = "there"
	}
	siteName := props.SiteName
	if siteName == "" {
		siteName = "our site"
	}

	content := GetParagraph(fmt.Sprintf("Hello %s,", name)) +
		GetParagraph(fmt.Sprintf("Your member account at %s has been created.", siteName))

	if props.SiteURL != "" {
		content += GetButton(ButtonProps{
			Text: "Visit the site",
			URL:  props.SiteURL,
		})
	}

	content += GetParagraph("If you did not expect this email, you can safely ignore it.")

	return content
}
