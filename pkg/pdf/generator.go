package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData holds the fields printed on an adoption certificate.
type CertificateData struct {
	DogName      string
	AdopterName  string
	Organization string
	AdoptedAt    time.Time
}

// Generator renders adoption certificates.
type Generator interface {
	AdoptionCertificate(data CertificateData) ([]byte, error)
}

type gofpdfGenerator struct{}

// NewGenerator returns a gofpdf-backed certificate generator.
func NewGenerator() Generator {
	return &gofpdfGenerator{}
}

func (g *gofpdfGenerator) AdoptionCertificate(data CertificateData) ([]byte, error) {
	doc := gofpdf.New("L", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 28)
	doc.SetTextColor(33, 66, 99)
	doc.CellFormat(0, 30, "Certificate of Adoption", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.SetTextColor(0, 0, 0)
	doc.Ln(8)
	doc.CellFormat(0, 10, "This certifies that", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 14, data.AdopterName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.CellFormat(0, 10, "has adopted", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 14, data.DogName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.Ln(6)
	line := fmt.Sprintf("on %s", data.AdoptedAt.Format("January 2, 2006"))
	if data.Organization != "" {
		line = fmt.Sprintf("%s, through %s", line, data.Organization)
	}
	doc.CellFormat(0, 10, line, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
