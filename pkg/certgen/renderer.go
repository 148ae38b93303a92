package certgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
)

/*
 * Attention: tdewolff/canvas uses mm as the unit of measurement, sizes in this file are given in pt (1/72 inch) and converted when drawing.
 */

const (
	DPI      = 72
	MarginPt = 50

	titleFontSize  = 24.0
	detailFontSize = 10.0
	footerFontSize = 10.0

	textColor   = "#000000"
	footerColor = "#cccccc"
	footerText  = "This certificate is digitally signed and verifiable"
	dateLayout  = "January 2, 2006"
)

// Page sizes in mm
var (
	pageA4              = Rect{Width: 210, Height: 297}
	pageLetterLandscape = Rect{Width: 279.4, Height: 215.9}
)

type Rect struct {
	Width  float64
	Height float64
}

type TextAlign int

const (
	TextAlignCenter TextAlign = iota
	TextAlignLeft
	TextAlignRight
)

func (a TextAlign) canvasAlign() canvas.TextAlign {
	switch a {
	case TextAlignLeft:
		return canvas.Left
	case TextAlignRight:
		return canvas.Right
	default:
		return canvas.Center
	}
}

// Converts points to millimeters
func ptToMM(pt float64) float64 {
	return (pt * 25.4) / DPI
}

// ErrOutputExists is returned when a file for the certificate number is already on disk.
var ErrOutputExists = errors.New("certificate file already exists")

type Renderer struct {
	cfg        *Config
	fontFamily *canvas.FontFamily
}

// NewRenderer loads fonts and creates the output directories once.
func NewRenderer(cfg *Config) (*Renderer, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if cfg.Now == nil {
		cfg.Now = NewDefaultConfig().Now
	}
	if cfg.QRCodeSize <= 0 {
		cfg.QRCodeSize = NewDefaultConfig().QRCodeSize
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("certificate output directory is required")
	}

	family, err := loadFontFamily()
	if err != nil {
		return nil, err
	}

	// 0755 mean owner can read, write and execute
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if cfg.EmbedQRCode {
		if cfg.TmpDir == "" {
			cfg.TmpDir = NewDefaultConfig().TmpDir
		}
		if err := os.MkdirAll(cfg.TmpDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create tmp directory: %w", err)
		}
	}

	return &Renderer{cfg: cfg, fontFamily: family}, nil
}

// OutputPath is where the certificate with the given number is written.
func (r *Renderer) OutputPath(certificateNumber string) string {
	return filepath.Join(r.cfg.OutputDir, filepath.Base(certificateNumber)+".pdf")
}

// Render draws the certificate and returns the path of the written file.
// It returns only once the file is fully written, a failed render leaves no file behind.
func (r *Renderer) Render(ctx context.Context, tpl Template, data map[string]any, certificateNumber, verificationToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if certificateNumber == "" {
		return "", errors.New("certificate number is required")
	}

	out := r.OutputPath(certificateNumber)
	if _, err := os.Stat(out); err == nil {
		return "", ErrOutputExists
	}

	c := r.draw(tpl, data, certificateNumber)

	if !r.cfg.EmbedQRCode {
		if err := renderers.Write(out, c); err != nil {
			os.Remove(out)
			return "", fmt.Errorf("failed to write PDF: %w", err)
		}
		return out, nil
	}

	if err := r.writeWithQRCode(c, out, verificationToken); err != nil {
		os.Remove(out)
		return "", err
	}

	return out, nil
}

func (r *Renderer) writeWithQRCode(c *canvas.Canvas, out, verificationToken string) error {
	tmpPdf, err := createTemp(r.cfg.TmpDir, "cert_*.pdf")
	if err != nil {
		return err
	}
	defer os.Remove(tmpPdf)

	if err := renderers.Write(tmpPdf, c); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	qrPath, err := createTemp(r.cfg.TmpDir, "qr_*.png")
	if err != nil {
		return err
	}
	defer os.Remove(qrPath)

	if err := GenerateQRCode(r.cfg.verifyURL(verificationToken), qrPath, r.cfg.QRCodeSize); err != nil {
		return err
	}

	return EmbedQRCodeToPdf(tmpPdf, out, qrPath, MarginPt/2)
}

func createTemp(dir, pattern string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func (r *Renderer) pageSize(tpl Template) Rect {
	if tpl.IsLandscape() {
		return pageLetterLandscape
	}
	return pageA4
}

func (r *Renderer) draw(tpl Template, data map[string]any, certificateNumber string) *canvas.Canvas {
	page := r.pageSize(tpl)
	margin := ptToMM(MarginPt)
	width := page.Width - 2*margin

	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	// Change coordination from bottom-left to top-left
	ctx.SetCoordSystem(canvas.CartesianIV)

	y := margin
	y += r.drawText(ctx, margin, y, width, page.Height-y-margin, TextAlignCenter,
		textSpan{tpl.title(), Font{Size: titleFontSize, Color: textColor, Weight: FontWeightBold}})
	y += ptToMM(30)

	fieldSize := tpl.fontSize()
	for _, f := range tpl.Fields {
		y += r.drawText(ctx, margin, y, width, page.Height-y-margin, TextAlignLeft,
			textSpan{f.Label + ": ", Font{Size: fieldSize, Color: textColor, Weight: FontWeightBold}},
			textSpan{FieldValue(data, f.Key), Font{Size: fieldSize, Color: textColor, Weight: FontWeightRegular}},
		)
		y += ptToMM(fieldSize)
	}

	y += ptToMM(20)
	detail := Font{Size: detailFontSize, Color: textColor, Weight: FontWeightRegular}
	y += r.drawText(ctx, margin, y, width, page.Height-y-margin, TextAlignCenter,
		textSpan{"Certificate Number: " + certificateNumber, detail})
	y += ptToMM(6)
	r.drawText(ctx, margin, y, width, page.Height-y-margin, TextAlignCenter,
		textSpan{"Generated on: " + r.cfg.Now().Format(dateLayout), detail})

	footerY := page.Height - margin - ptToMM(footerFontSize)
	r.drawText(ctx, margin, footerY, width, ptToMM(footerFontSize*2), TextAlignCenter,
		textSpan{footerText, Font{Size: footerFontSize, Color: footerColor, Weight: FontWeightRegular}})

	return c
}

type textSpan struct {
	text string
	font Font
}

// drawText draws the spans as one wrapped paragraph with its top-left corner at (x, y) and returns its height in mm.
func (r *Renderer) drawText(ctx *canvas.Context, x, y, width, height float64, align TextAlign, spans ...textSpan) float64 {
	if len(spans) == 0 || height <= 0 {
		return 0
	}

	rt := canvas.NewRichText(r.face(spans[0].font))
	for _, s := range spans {
		rt.SetFace(r.face(s.font))
		rt.WriteString(s.text)
	}

	text := rt.ToText(width, height, align.canvasAlign(), canvas.Top, 0.0, 0.0)
	ctx.DrawText(x, y, text)

	return text.Bounds().H()
}

func (r *Renderer) face(f Font) *canvas.FontFace {
	return r.fontFamily.Face(f.Size, canvas.Hex(f.Color), f.GetFontStyle(), canvas.FontNormal)
}
