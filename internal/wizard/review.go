package wizard

import (
	"fmt"
	"strings"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/models"
)

// Dash marks an unanswered value
const Dash = "—"

// ReviewLine is one card on the review step
type ReviewLine struct {
	StepID  string `json:"step_id"`
	Section string `json:"section"`
	Value   string `json:"value"`
}

// ReviewLines returns one line per input step, in flow order
func ReviewLines(c *catalog.Catalog, form *models.FormState) []ReviewLine {
	lines := make([]ReviewLine, 0, c.Len())
	for _, step := range c.Steps() {
		if !step.Kind.IsInput() {
			continue
		}
		lines = append(lines, ReviewLine{
			StepID:  step.ID,
			Section: step.Section,
			Value:   DisplayValue(step, form),
		})
	}
	return lines
}

// DisplayValue formats the answer stored for step
func DisplayValue(step models.StepDescriptor, form *models.FormState) string {
	d := &displayer{form: form, out: Dash}
	step.Payload.Accept(d)
	return d.out
}

// FormatList joins items in order, Dash when empty
func FormatList(items []string) string {
	if len(items) == 0 {
		return Dash
	}
	return strings.Join(items, ", ")
}

// FormatBalance renders a shelving percentage as its two complementary shares
func FormatBalance(shelving int) string {
	v := models.ClampBalance(shelving)
	return fmt.Sprintf("%d%% Hanging · %d%% Shelving", models.BalanceMax-v, v)
}

// FormatDual renders both category choices with their review labels
func FormatDual(cats [2]models.Category, form *models.FormState) string {
	return fmt.Sprintf("%s: %s | %s: %s",
		cats[0].ReviewLabel, OrDash(form.DualValue(cats[0].ID)),
		cats[1].ReviewLabel, OrDash(form.DualValue(cats[1].ID)))
}

// FormatContact renders name, email, address and method
func FormatContact(c models.Contact) string {
	return strings.Join([]string{
		OrDash(c.Name),
		OrDash(c.Email),
		OrDash(c.Address),
		OrDash(c.Method),
	}, " · ")
}

// OrDash returns the trimmed value, or Dash when it is blank
func OrDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Dash
	}
	return s
}

type displayer struct {
	form *models.FormState
	out  string
}

func (d *displayer) VisitWelcome(*models.WelcomePayload) {}
func (d *displayer) VisitReview(*models.ReviewPayload)   {}

func (d *displayer) VisitRanked(*models.RankedPayload) {
	d.out = FormatList(d.form.Ranked)
}

func (d *displayer) VisitBalance(*models.BalancePayload) {
	d.out = FormatBalance(d.form.Balance)
}

func (d *displayer) VisitMultiSelect(*models.MultiSelectPayload) {
	d.out = FormatList(d.form.Multi)
}

func (d *displayer) VisitImageGrid(*models.ImageGridPayload) {
	d.out = OrDash(d.form.Single)
}

func (d *displayer) VisitDualGrid(p *models.DualGridPayload) {
	d.out = FormatDual(p.Categories, d.form)
}

func (d *displayer) VisitFreeText(*models.FreeTextPayload) {
	d.out = OrDash(d.form.Text)
}

func (d *displayer) VisitBinary(*models.BinaryPayload) {
	d.out = OrDash(string(d.form.Binary))
}

func (d *displayer) VisitContact(*models.ContactPayload) {
	d.out = FormatContact(d.form.Contact)
}
