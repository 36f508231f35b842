package wizard

import (
	"strings"

	"github.com/terra-clan/closet-profile/internal/models"
)

// Default messages, used when a step does not carry its own
const (
	MsgRanked    = "Please select at least one priority to continue."
	MsgImageGrid = "Please select a material finish to continue."
	MsgDualGrid  = "Please select both a pull/handle and hanging rod style to continue."
	MsgBinary    = "Please select Yes or No to continue."
	MsgContact   = "Please fill in your name, email, and address to continue."
)

// Validate evaluates the step's completion rule against form.
// The message is empty when the step passes.
func Validate(step models.StepDescriptor, form *models.FormState) (bool, string) {
	v := &validator{form: form, ok: true}
	step.Payload.Accept(v)
	if v.ok {
		return true, ""
	}
	if step.ValidationMessage != "" {
		return false, step.ValidationMessage
	}
	return false, v.msg
}

type validator struct {
	form *models.FormState
	ok   bool
	msg  string
}

func (v *validator) fail(msg string) {
	v.ok = false
	v.msg = msg
}

func (v *validator) VisitWelcome(*models.WelcomePayload)         {}
func (v *validator) VisitBalance(*models.BalancePayload)         {}
func (v *validator) VisitMultiSelect(*models.MultiSelectPayload) {}
func (v *validator) VisitFreeText(*models.FreeTextPayload)       {}
func (v *validator) VisitReview(*models.ReviewPayload)           {}

func (v *validator) VisitRanked(p *models.RankedPayload) {
	if n := len(v.form.Ranked); n < 1 || n > p.MaxPicks {
		v.fail(MsgRanked)
	}
}

func (v *validator) VisitImageGrid(*models.ImageGridPayload) {
	if v.form.Single == "" {
		v.fail(MsgImageGrid)
	}
}

func (v *validator) VisitDualGrid(p *models.DualGridPayload) {
	for _, c := range p.Categories {
		if v.form.DualValue(c.ID) == "" {
			v.fail(MsgDualGrid)
			return
		}
	}
}

func (v *validator) VisitBinary(*models.BinaryPayload) {
	if v.form.Binary != models.BinaryYes && v.form.Binary != models.BinaryNo {
		v.fail(MsgBinary)
	}
}

func (v *validator) VisitContact(*models.ContactPayload) {
	c := v.form.Contact
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Email) == "" ||
		strings.TrimSpace(c.Address) == "" ||
		c.Method == "" {
		v.fail(MsgContact)
	}
}
