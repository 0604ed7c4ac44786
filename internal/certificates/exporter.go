package certificates

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

// ExportPDF renders the certificate and wraps it in a single-page landscape
// A4 document. The image keeps its 4:3 aspect ratio, centered on the page.
func (s *Service) ExportPDF(cert *domain.Certificate) ([]byte, error) {
	png, err := s.RenderPNG(cert)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetAuthor("TechTerview", true)
	pdf.AddPage()

	pdf.RegisterImageOptionsReader("certificate", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

	// A4 landscape is 297x210mm. Fit a 4:3 image with a margin on each side.
	const imgW, imgH = 260.0, 195.0
	pdf.ImageOptions("certificate", (297-imgW)/2, (210-imgH)/2, imgW, imgH, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename is the suggested download name for a certificate PDF.
// Whitespace in the track title collapses to single hyphens.
func ExportFilename(cert *domain.Certificate) string {
	return strings.Join(strings.Fields(cert.TrackTitle), "-") + "-Certificate.pdf"
}
