package composer

import "regexp"

// AssetRef is a placeholder inside a node's attributes pointing at a media
// catalog entry. URL must always be an external, fetchable address.
type AssetRef struct {
	URL         string `json:"url"`
	CatalogID   string `json:"catalogId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// inlinePayloadPattern matches data: URIs of any media type. Inline payloads
// bloat stored markup unboundedly and bypass catalog bookkeeping, so they
// are rejected at the boundary.
var inlinePayloadPattern = regexp.MustCompile(`(?i)^\s*data:`)

// IsInlinePayload reports whether the URL embeds its payload inline.
func IsInlinePayload(url string) bool {
	return inlinePayloadPattern.MatchString(url)
}
