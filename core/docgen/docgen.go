// Package docgen renders a normalized documentation plan into the four
// artifact files: a report PDF, a slide deck, a patent-style draft PDF, and a
// ZIP of certificate PDFs.
//
// Artifacts live at fixed well-known filenames inside one directory and are
// overwritten on every render; there is no per-request file isolation, so
// concurrent renders are last-writer-wins.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/asthralabs/asthra/core/plan"
)

// Fixed artifact filenames, keyed by the names used in the /chat response.
const (
	ReportFile       = "report.pdf"
	SlidesFile       = "slides.pptx"
	PatentFile       = "patent.pdf"
	CertificatesFile = "certificates.zip"
)

// CertificateCount is the number of certificate PDFs in the ZIP, regardless
// of plan content.
const CertificateCount = 3

// ArtifactFiles maps response artifact names to their filenames.
var ArtifactFiles = map[string]string{
	"report":       ReportFile,
	"ppt":          SlidesFile,
	"patent":       PatentFile,
	"certificates": CertificatesFile,
}

// Renderer writes artifacts into a single output directory.
type Renderer struct {
	dir string
}

// NewRenderer creates the output directory if needed and returns a renderer
// bound to it.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Renderer{dir: dir}, nil
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// Path returns the on-disk path for an artifact filename.
func (r *Renderer) Path(filename string) string {
	return filepath.Join(r.dir, filename)
}

// Render writes all four artifacts for the given plan, overwriting any
// previous files.
func (r *Renderer) Render(p plan.Plan, message string) error {
	if err := buildReportPDF(p, r.Path(ReportFile)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := buildSlides(p, r.Path(SlidesFile)); err != nil {
		return fmt.Errorf("rendering slides: %w", err)
	}
	if err := buildPatentPDF(p, message, r.Path(PatentFile)); err != nil {
		return fmt.Errorf("rendering patent draft: %w", err)
	}
	if err := buildCertificatesZip(p, message, r.Path(CertificatesFile)); err != nil {
		return fmt.Errorf("rendering certificates: %w", err)
	}
	return nil
}
