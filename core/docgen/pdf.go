package docgen

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/asthralabs/asthra/core/plan"
)

func newLetterPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(60, 50, 60)
	pdf.SetAutoPageBreak(true, 60)
	return pdf
}

func drawTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 24, title, "", "L", false)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
}

// buildReportPDF writes the main report: title, summary paragraph, then each
// section heading with its bullets. Continuation pages repeat a short header.
func buildReportPDF(p plan.Plan, path string) error {
	pdf := newLetterPDF()
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 18, "ASTHRA Report (cont.)", "", "L", false)
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "", 11)
		}
	})
	pdf.AddPage()

	drawTitle(pdf, p.Title)
	pdf.MultiCell(0, 16, p.Summary, "", "L", false)
	pdf.Ln(8)

	for _, section := range p.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 18, section.Heading, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		for _, bullet := range section.Bullets {
			pdf.SetX(70)
			pdf.MultiCell(0, 14, "- "+bullet, "", "L", false)
		}
		pdf.Ln(6)
	}

	return pdf.OutputFileAndClose(path)
}

// buildPatentPDF writes the patent-style draft: fixed header, the originating
// message, then numbered claims.
func buildPatentPDF(p plan.Plan, message, path string) error {
	pdf := newLetterPDF()
	pdf.AddPage()

	drawTitle(pdf, "ASTHRA Patent Draft")
	pdf.MultiCell(0, 16, "Based on: "+message, "", "L", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 18, "Claims", "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	for idx, claim := range p.Claims {
		pdf.SetX(70)
		pdf.MultiCell(0, 14, fmt.Sprintf("%d. %s", idx+1, claim), "", "L", false)
	}

	return pdf.OutputFileAndClose(path)
}

// buildCertificatesZip writes a ZIP holding exactly CertificateCount
// certificate PDFs, each generated in memory and streamed into the archive.
func buildCertificatesZip(p plan.Plan, message, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for i := 1; i <= CertificateCount; i++ {
		entry, err := zw.Create(fmt.Sprintf("certificate_%d.pdf", i))
		if err != nil {
			return err
		}

		pdf := newLetterPDF()
		pdf.AddPage()
		pdf.SetXY(120, 60)
		pdf.SetFont("Helvetica", "B", 20)
		pdf.MultiCell(0, 24, fmt.Sprintf("Certificate #%d", i), "", "L", false)
		pdf.Ln(8)
		pdf.SetX(120)
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 16, "For project: "+message, "", "L", false)
		pdf.SetX(120)
		pdf.MultiCell(0, 16, p.CertificateNote, "", "L", false)

		if err := pdf.Output(entry); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}
