package export

// Color is an RGB triple
type Color struct {
	R, G, B int
}

// Palette used by the summary
var (
	Gold    = Color{171, 137, 0}
	Black   = Color{0, 0, 0}
	Muted   = Color{125, 117, 103}
	Faint   = Color{184, 173, 154}
	LineClr = Color{230, 224, 212}
	TintBg  = Color{250, 248, 243}
)

// FontStyle selects the face within the document family
type FontStyle string

const (
	Regular FontStyle = ""
	Bold    FontStyle = "B"
	Italic  FontStyle = "I"
)

// Canvas is the drawing surface the layout writes to. Units are millimetres,
// y grows downwards and text is placed at its baseline.
type Canvas interface {
	AddPage()
	PageHeight() float64
	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	SetFillColor(c Color)
	SetLineWidth(w float64)
	StringWidth(s string) float64
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	// Rect draws a filled and stroked rectangle
	Rect(x, y, w, h float64)
	// Image draws a PNG h tall, keeping its aspect ratio up to maxW wide
	Image(data []byte, x, y, maxW, h float64) error
}
