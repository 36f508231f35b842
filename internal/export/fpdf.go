package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pdfCanvas adapts an fpdf document to Canvas
type pdfCanvas struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
	images int
}

func newPDFCanvas(fonts *fontSet) *pdfCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(MarginLeft, MarginTop, MarginLeft)
	pdf.SetAutoPageBreak(false, 0)

	c := &pdfCanvas{pdf: pdf, family: fonts.family, tr: func(s string) string { return s }}
	if fonts.utf8 {
		pdf.AddUTF8FontFromBytes(fonts.family, string(Regular), fonts.regular)
		pdf.AddUTF8FontFromBytes(fonts.family, string(Bold), fonts.bold)
		pdf.AddUTF8FontFromBytes(fonts.family, string(Italic), fonts.italic)
	} else {
		// Core fonts are cp1252; translate so "·" and "—" survive
		c.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	return c
}

func (c *pdfCanvas) AddPage() { c.pdf.AddPage() }

func (c *pdfCanvas) PageHeight() float64 {
	_, h := c.pdf.GetPageSize()
	return h
}

func (c *pdfCanvas) SetFont(style FontStyle, size float64) {
	c.pdf.SetFont(c.family, string(style), size)
}

func (c *pdfCanvas) SetTextColor(col Color) { c.pdf.SetTextColor(col.R, col.G, col.B) }
func (c *pdfCanvas) SetDrawColor(col Color) { c.pdf.SetDrawColor(col.R, col.G, col.B) }
func (c *pdfCanvas) SetFillColor(col Color) { c.pdf.SetFillColor(col.R, col.G, col.B) }
func (c *pdfCanvas) SetLineWidth(w float64) { c.pdf.SetLineWidth(w) }

func (c *pdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) Rect(x, y, w, h float64) {
	c.pdf.Rect(x, y, w, h, "FD")
}

func (c *pdfCanvas) Image(data []byte, x, y, maxW, h float64) error {
	c.images++
	name := fmt.Sprintf("image-%d", c.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	info := c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if c.pdf.Err() {
		err := c.pdf.Error()
		// A bad image must not poison the rest of the document
		c.pdf.ClearError()
		return err
	}
	if info == nil || info.Height() == 0 {
		return fmt.Errorf("image has no size")
	}

	w := h * info.Width() / info.Height()
	if w > maxW {
		w = maxW
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}
