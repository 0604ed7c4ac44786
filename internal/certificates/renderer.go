package certificates

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

// Canvas dimensions of the rendered certificate.
const (
	canvasWidth  = 800
	canvasHeight = 600
	qrSize       = 120
)

var (
	fontOnce    sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	fontErr     error
)

// loadFonts parses the embedded typefaces once. Embedding keeps rendering
// byte-identical across hosts; there is no font-path configuration.
func loadFonts() error {
	fontOnce.Do(func() {
		regularFont, fontErr = truetype.Parse(goregular.TTF)
		if fontErr != nil {
			return
		}
		boldFont, fontErr = truetype.Parse(gobold.TTF)
	})
	return fontErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// RenderPNG draws the certificate and returns encoded PNG bytes. Rendering
// is a pure function of the certificate row: the same row always produces
// the same bytes, so exports can be regenerated instead of stored.
func (s *Service) RenderPNG(cert *domain.Certificate) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load certificate fonts: %w", err)
	}

	dc := gg.NewContext(canvasWidth, canvasHeight)

	// Background and double border.
	dc.SetHexColor("#fdfbf7")
	dc.Clear()
	dc.SetHexColor("#1d3557")
	dc.SetLineWidth(6)
	dc.DrawRectangle(20, 20, canvasWidth-40, canvasHeight-40)
	dc.Stroke()
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(32, 32, canvasWidth-64, canvasHeight-64)
	dc.Stroke()

	cx := float64(canvasWidth) / 2

	dc.SetFontFace(face(boldFont, 34))
	dc.SetHexColor("#1d3557")
	dc.DrawStringAnchored("Certificate of Completion", cx, 110, 0.5, 0.5)

	dc.SetFontFace(face(regularFont, 18))
	dc.SetHexColor("#495057")
	dc.DrawStringAnchored("This certifies that", cx, 185, 0.5, 0.5)

	dc.SetFontFace(face(boldFont, 40))
	dc.SetHexColor("#212529")
	dc.DrawStringAnchored(cert.UserName, cx, 245, 0.5, 0.5)

	dc.SetFontFace(face(regularFont, 18))
	dc.SetHexColor("#495057")
	dc.DrawStringAnchored("has successfully completed the track", cx, 305, 0.5, 0.5)

	dc.SetFontFace(face(boldFont, 28))
	dc.SetHexColor("#1d3557")
	dc.DrawStringAnchored(cert.TrackTitle, cx, 355, 0.5, 0.5)

	dc.SetFontFace(face(regularFont, 16))
	dc.SetHexColor("#495057")
	issued := "Issued on " + cert.IssuedAt.UTC().Format("January 2, 2006")
	dc.DrawStringAnchored(issued, cx, 420, 0.5, 0.5)

	dc.SetFontFace(face(regularFont, 12))
	dc.SetHexColor("#868e96")
	dc.DrawStringAnchored("Certificate ID: "+cert.ID.String(), cx, 530, 0.5, 0.5)

	// Verification QR in the lower right.
	qr, err := qrcode.New(s.VerificationURL(cert.ID), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode verification qr: %w", err)
	}
	qr.DisableBorder = true
	dc.DrawImage(qr.Image(qrSize), canvasWidth-qrSize-52, canvasHeight-qrSize-70)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode certificate png: %w", err)
	}
	return buf.Bytes(), nil
}
