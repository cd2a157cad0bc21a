package config

import "time"

const (
	// Reference numbers
	ReferencePrefix       = "LDCU"
	ReferenceRandomLength = 4

	// Rate limiting defaults (used until a config row overrides them)
	DefaultSubmitLimit  = 5
	DefaultSubmitWindow = 15 * time.Minute

	// Attachments
	MaxAttachmentBytes = 5 << 20

	// Resolution follow-up
	ResolutionActionWindow = 7 * 24 * time.Hour

	// DisplayNameAnonymous replaces the submitter name on anonymous
	// complaints. Email and student ID are kept as-is.
	DisplayNameAnonymous = "Anonymous"
)

// Categories a complaint can be filed under. Fixed set, validated at intake.
var Categories = map[string]bool{
	"academic":   true,
	"facilities": true,
	"finance":    true,
	"staff":      true,
	"security":   true,
	"other":      true,
}

// AllowedAttachmentTypes maps accepted upload MIME types to file extensions.
var AllowedAttachmentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}
