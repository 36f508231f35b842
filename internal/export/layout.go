package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terra-clan/closet-profile/internal/models"
)

// Page geometry in millimetres
const (
	MarginLeft   = 15.0
	MarginRight  = 195.0
	MarginTop    = 15.0
	SectionBreak = 265.0
	RowBreak     = 270.0
	FooterOffset = 14.0

	logoHeight   = 50.0
	logoMaxWidth = 160.0
	valueWidth   = 90.0
	rowLine      = 3.5
	noteLine     = 3.8
)

// Fixed copy printed on every summary
const (
	Heading      = "CLOSET PROFILE"
	ThankYou     = "Thank you for sharing your vision!"
	InspireYes   = "Yes — will send separately"
	dash         = "—"
	defaultPulls = "pulls_handles"
	defaultRods  = "hanging_rods"
)

// Options carries everything the layout needs besides the answers
type Options struct {
	Date      time.Time
	Logo      []byte // PNG; nil or unreadable skips the logo
	Signature string
	// Hardware rows, in order; ID selects the answer, Heading is the row label
	Hardware [2]models.Category
}

// DefaultHardware matches the built-in hardware step
var DefaultHardware = [2]models.Category{
	{ID: defaultPulls, Heading: "Pulls / Handles"},
	{ID: defaultRods, Heading: "Hanging Rods"},
}

// SpaceRatio splits the stored shelving share into hanging and shelving
func SpaceRatio(form *models.FormState) (hanging, shelving int) {
	return form.Hanging(), form.Shelving()
}

// Layout draws the summary for form onto c
func Layout(c Canvas, form *models.FormState, opts Options) {
	if opts.Hardware[0].ID == "" {
		opts.Hardware = DefaultHardware
	}
	l := &layout{c: c, y: MarginTop}
	c.AddPage()

	l.header(opts.Logo)
	l.client(form.Contact, opts.Date)

	l.section("Storage Priorities")
	for i, label := range []string{"1st Priority", "2nd Priority", "3rd Priority"} {
		value := dash
		if i < len(form.Ranked) {
			value = form.Ranked[i]
		}
		l.row(label, value)
	}
	l.y += 3

	hanging, shelving := SpaceRatio(form)
	l.section("Space Ratio")
	l.row("Hanging", fmt.Sprintf("%d%%", hanging))
	l.row("Shelving", fmt.Sprintf("%d%%", shelving))
	l.y += 3

	l.section("Special Features")
	features := dash
	if len(form.Multi) > 0 {
		features = strings.Join(form.Multi, ", ")
	}
	l.row("Selected", features)
	l.y += 3

	l.section("Material & Hardware")
	l.row("Material Finish", orDash(form.Single))
	for _, cat := range opts.Hardware {
		l.row(cat.Heading, orDash(form.DualValue(cat.ID)))
	}
	l.y += 3

	l.section("Additional Notes")
	l.notes(orDash(form.Text))

	l.section("Inspiration")
	l.row("Has Inspiration Photos", inspiration(form.Binary))

	l.footer(opts.Signature)
}

func inspiration(b models.Binary) string {
	switch b {
	case models.BinaryYes:
		return InspireYes
	case models.BinaryNo:
		return string(models.BinaryNo)
	}
	return dash
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return dash
	}
	return s
}

type layout struct {
	c Canvas
	y float64
}

func (l *layout) textRight(x, y float64, s string) {
	l.c.Text(x-l.c.StringWidth(s), y, s)
}

func (l *layout) textCenter(x, y float64, s string) {
	l.c.Text(x-l.c.StringWidth(s)/2, y, s)
}

func (l *layout) header(logo []byte) {
	top := l.y
	if len(logo) > 0 {
		if err := l.c.Image(logo, MarginLeft, top, logoMaxWidth, logoHeight); err != nil {
			slog.Warn("logo not added to summary", "error", err)
		}
	}

	l.c.SetFont(Regular, 7)
	l.c.SetTextColor(Black)
	l.textRight(MarginRight, top+5, Heading)

	l.y = top + logoHeight + 4
	l.c.SetDrawColor(Gold)
	l.c.SetLineWidth(0.5)
	l.c.Line(MarginLeft, l.y, MarginRight, l.y)
	l.y += 8
}

func (l *layout) client(contact models.Contact, date time.Time) {
	l.c.SetFont(Bold, 7)
	l.c.SetTextColor(Black)
	l.c.Text(MarginLeft, l.y, "CLIENT")
	l.textRight(MarginRight, l.y, "DATE")
	l.y += 4

	l.c.SetFont(Regular, 8.5)
	l.c.Text(MarginLeft, l.y, orDash(contact.Name))
	l.textRight(MarginRight, l.y, date.Format("1/2/2006"))
	l.y += 4

	l.c.SetFont(Regular, 7.5)
	l.c.SetTextColor(Muted)
	prefY := l.y
	for _, line := range []string{contact.Address, contact.Phone, contact.Email} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.c.Text(MarginLeft, l.y, line)
		l.y += rowLine
	}

	l.c.SetFont(Bold, 7)
	l.c.SetTextColor(Black)
	l.textRight(MarginRight, prefY, "CONTACT PREF")
	l.c.SetFont(Regular, 7.5)
	l.c.SetTextColor(Muted)
	l.textRight(MarginRight, prefY+4, orDash(contact.Method))

	l.y += 6
	l.c.SetDrawColor(LineClr)
	l.c.SetLineWidth(0.3)
	l.c.Line(MarginLeft, l.y, MarginRight, l.y)
	l.y += 8
}

func (l *layout) breakPage(limit float64) {
	if l.y > limit {
		l.c.AddPage()
		l.y = MarginTop
	}
}

func (l *layout) section(title string) {
	l.breakPage(SectionBreak)
	l.c.SetFont(Bold, 6.5)
	l.c.SetTextColor(Black)
	l.c.Text(MarginLeft, l.y, strings.ToUpper(title))
	l.y += 1.5
	l.c.SetDrawColor(Gold)
	l.c.SetLineWidth(0.5)
	l.c.Line(MarginLeft, l.y, MarginRight, l.y)
	l.y += 5
}

func (l *layout) row(label, value string) {
	l.breakPage(RowBreak)
	l.c.SetFont(Regular, 8)
	l.c.SetTextColor(Black)
	l.c.Text(MarginLeft, l.y, label)

	lines := Wrap(l.c, value, valueWidth)
	l.c.SetTextColor(Gold)
	for i, line := range lines {
		l.textRight(MarginRight, l.y+float64(i)*rowLine, line)
	}

	l.c.SetDrawColor(LineClr)
	l.c.SetLineWidth(0.2)
	l.c.Line(MarginLeft, l.y+2, MarginRight, l.y+2)
	l.y += float64(max(len(lines), 1))*rowLine + rowLine
}

func (l *layout) notes(text string) {
	l.c.SetFont(Italic, 7.5)
	lines := Wrap(l.c, text, MarginRight-MarginLeft-6)
	boxH := float64(len(lines))*noteLine + 6

	l.c.SetFillColor(TintBg)
	l.c.SetDrawColor(LineClr)
	l.c.SetLineWidth(0.3)
	l.c.Rect(MarginLeft, l.y-2, MarginRight-MarginLeft, boxH)

	l.c.SetTextColor(Muted)
	for i, line := range lines {
		l.c.Text(MarginLeft+3, l.y+3+float64(i)*noteLine, line)
	}
	l.y += boxH + 5
}

func (l *layout) footer(signature string) {
	footerY := l.c.PageHeight() - FooterOffset
	if l.y > footerY-8 {
		l.c.AddPage()
	}
	mid := (MarginLeft + MarginRight) / 2

	l.c.SetDrawColor(LineClr)
	l.c.SetLineWidth(0.3)
	l.c.Line(MarginLeft, footerY-6, MarginRight, footerY-6)

	l.c.SetFont(Italic, 8)
	l.c.SetTextColor(Gold)
	l.textCenter(mid, footerY-1, ThankYou)

	if signature != "" {
		l.c.SetFont(Regular, 6.5)
		l.c.SetTextColor(Faint)
		l.textCenter(mid, footerY+4, signature)
	}
}

// Wrap breaks s into lines no wider than width using the canvas' current font.
// Explicit newlines are kept; words wider than a line are split by rune.
func Wrap(c Canvas, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			for c.StringWidth(w) > width && utf8.RuneCountInString(w) > 1 {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				head, tail := splitToWidth(c, w, width)
				lines = append(lines, head)
				w = tail
			}
			if cur == "" {
				cur = w
				continue
			}
			if next := cur + " " + w; c.StringWidth(next) <= width {
				cur = next
				continue
			}
			lines = append(lines, cur)
			cur = w
		}
		lines = append(lines, cur)
	}
	return lines
}

// splitToWidth returns the longest prefix of w that fits, at least one rune
func splitToWidth(c Canvas, w string, width float64) (string, string) {
	cut := 0
	for i := range w {
		if i > 0 && c.StringWidth(w[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(w)
		cut = size
	}
	return w[:cut], w[cut:]
}
