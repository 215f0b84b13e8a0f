// Package plan holds the documentation plan data model: the static fallback
// template, best-effort parsing of model output, the total Normalize function,
// and the Fetcher that asks the active provider for an AI-drafted plan.
//
// The plan drives all four rendered artifacts (report, slides, patent draft,
// certificates), so after Normalize every field is guaranteed non-empty.
package plan

// Plan is the normalized documentation content structure.
type Plan struct {
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	Sections        []Section `json:"sections"`
	Claims          []string  `json:"claims"`
	CertificateNote string    `json:"certificate_note"`
}

// Section is one heading with its bullet points.
type Section struct {
	Heading string   `json:"heading"`
	Bullets []string `json:"bullets"`
}

// Default values substituted by Normalize and used by the fallback template.
const (
	DefaultTitle           = "ASTHRA Project Documentation"
	DefaultHeading         = "Section"
	DefaultBullet          = "Details pending."
	DefaultClaim           = "Automated documentation generation based on user input."
	DefaultCertificateNote = "Generated via ASTHRA."
)

// SummaryFor returns the deterministic summary line embedding the seed message.
func SummaryFor(message string) string {
	return "Generated documentation for: " + message
}
