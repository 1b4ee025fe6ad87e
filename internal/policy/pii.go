package policy

import "regexp"

// Maintenance descriptions regularly carry tenant contact details. Anything
// sent to a hosted model is masked first; the persisted description is left
// untouched.

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(?:\+?\d[\d()\-\s.]{7,}\d)`)
	unitPattern  = regexp.MustCompile(`(?i)\b(apt|apartment|unit|suite)\s*#?\s*[0-9]+[a-z]?\b`)
)

func MaskPII(value string) string {
	masked := emailPattern.ReplaceAllString(value, "[email_redacted]")
	masked = phonePattern.ReplaceAllString(masked, "[phone_redacted]")
	masked = unitPattern.ReplaceAllString(masked, "[unit_redacted]")
	return masked
}
