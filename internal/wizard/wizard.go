package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/models"
)

// Wizard drives one session through the catalog.
// It is not safe for concurrent use; the Manager serialises access per session.
type Wizard struct {
	cat  *catalog.Catalog
	sess *models.Session
}

// New binds a session to a catalog, repairing decoded state first
func New(cat *catalog.Catalog, sess *models.Session) *Wizard {
	if sess.Form == nil {
		sess.Form = cat.NewFormState()
	}
	sess.Form.Normalize(cat.MaxPicks(), cat.TextMax())
	sess.Nav.Index = clamp(sess.Nav.Index, 0, cat.Len()-1)
	return &Wizard{cat: cat, sess: sess}
}

// Session returns the bound session
func (w *Wizard) Session() *models.Session {
	return w.sess
}

// Current returns the active step
func (w *Wizard) Current() models.StepDescriptor {
	step, _ := w.cat.Step(w.sess.Nav.Index)
	return step
}

// Message returns the active step's validation message while errors are shown
func (w *Wizard) Message() string {
	if !w.sess.Nav.ShowErrors {
		return ""
	}
	_, msg := Validate(w.Current(), w.sess.Form)
	return msg
}

// GoTo moves to step i (clamped) and hides validation errors
func (w *Wizard) GoTo(i int) {
	w.sess.Nav.Index = clamp(i, 0, w.cat.Len()-1)
	w.sess.Nav.ShowErrors = false
}

// Advance moves forward when the active step passes its rule.
// On failure the index stays put and errors are shown.
func (w *Wizard) Advance() bool {
	if ok, _ := Validate(w.Current(), w.sess.Form); !ok {
		w.sess.Nav.ShowErrors = true
		return false
	}
	w.GoTo(w.sess.Nav.Index + 1)
	return true
}

// Retreat moves back one step; a no-op on the first step
func (w *Wizard) Retreat() {
	if w.sess.Nav.Index == 0 {
		return
	}
	w.GoTo(w.sess.Nav.Index - 1)
}

// Edit jumps to the step with id without validating
func (w *Wizard) Edit(id string) error {
	i := w.cat.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrStepNotFound, id)
	}
	w.GoTo(i)
	return nil
}

// Finish confirms the review. If any step fails its rule, the wizard jumps to
// the first failing step with errors shown and ErrIncomplete is returned.
func (w *Wizard) Finish(now time.Time) error {
	for i, step := range w.cat.Steps() {
		if ok, _ := Validate(step, w.sess.Form); !ok {
			w.GoTo(i)
			w.sess.Nav.ShowErrors = true
			return fmt.Errorf("%w: %s", ErrIncomplete, step.ID)
		}
	}
	w.sess.Status = models.SessionCompleted
	w.sess.CompletedAt = &now
	return nil
}

// Apply performs one interaction. Answer-changing actions must target the
// active step; selections that satisfy a rule hide the validation message.
func (w *Wizard) Apply(a Action, now time.Time) error {
	if w.sess.IsCompleted() {
		return fmt.Errorf("%w: session already completed", ErrInvalidAction)
	}

	switch a.Kind {
	case ActionAdvance:
		w.Advance()
		return nil
	case ActionRetreat:
		w.Retreat()
		return nil
	case ActionEdit:
		return w.Edit(a.Value)
	case ActionFinish:
		if w.Current().Kind != models.KindReview {
			return fmt.Errorf("%w: finish outside the review step", ErrInvalidAction)
		}
		return w.Finish(now)
	}

	if !a.Kind.valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, a.Kind)
	}
	m := &mutator{form: w.sess.Form, action: a}
	w.Current().Payload.Accept(m)
	if m.err != nil {
		return m.err
	}
	if !m.handled {
		return fmt.Errorf("%w: %s does not apply to step %s", ErrInvalidAction, a.Kind, w.Current().ID)
	}
	if m.clearErrors {
		w.sess.Nav.ShowErrors = false
	}
	return nil
}

// mutator applies an answer-changing action to the payload of the active step
type mutator struct {
	form        *models.FormState
	action      Action
	handled     bool
	clearErrors bool
	err         error
}

func (m *mutator) invalid(format string, args ...interface{}) {
	m.err = fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidAction}, args...)...)
}

func (m *mutator) VisitWelcome(*models.WelcomePayload) {}
func (m *mutator) VisitReview(*models.ReviewPayload)   {}

func (m *mutator) VisitRanked(p *models.RankedPayload) {
	if m.action.Kind != ActionToggleRanked {
		return
	}
	m.handled = true
	if !contains(p.Options, m.action.Value) {
		m.invalid("unknown option %q", m.action.Value)
		return
	}
	// A full list ignores further picks, like a disabled row
	if m.form.ToggleRanked(m.action.Value, p.MaxPicks) {
		m.clearErrors = true
	}
}

func (m *mutator) VisitBalance(p *models.BalancePayload) {
	if m.action.Kind != ActionSetBalance {
		return
	}
	m.handled = true
	v, err := strconv.Atoi(strings.TrimSpace(m.action.Value))
	if err != nil {
		m.invalid("balance %q is not an integer", m.action.Value)
		return
	}
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	m.form.SetBalance(v)
}

func (m *mutator) VisitMultiSelect(p *models.MultiSelectPayload) {
	if m.action.Kind != ActionToggleMulti {
		return
	}
	m.handled = true
	if !contains(p.Options, m.action.Value) {
		m.invalid("unknown option %q", m.action.Value)
		return
	}
	m.form.ToggleMulti(m.action.Value)
}

func (m *mutator) VisitImageGrid(p *models.ImageGridPayload) {
	if m.action.Kind != ActionSelectSingle {
		return
	}
	m.handled = true
	for _, o := range p.Options {
		if o.Label == m.action.Value {
			m.form.SetSingle(o.Label)
			m.clearErrors = true
			return
		}
	}
	m.invalid("unknown option %q", m.action.Value)
}

func (m *mutator) VisitDualGrid(p *models.DualGridPayload) {
	if m.action.Kind != ActionSelectDual {
		return
	}
	m.handled = true
	catID, label, ok := splitPair(m.action.Value)
	if !ok {
		m.invalid("dual selection %q is not category=label", m.action.Value)
		return
	}
	for _, c := range p.Categories {
		if c.ID != catID {
			continue
		}
		if !c.HasOption(label) {
			m.invalid("unknown option %q in %s", label, catID)
			return
		}
		m.form.SetDual(catID, label)
		m.clearErrors = true
		return
	}
	m.invalid("unknown category %q", catID)
}

func (m *mutator) VisitFreeText(p *models.FreeTextPayload) {
	if m.action.Kind != ActionSetText {
		return
	}
	m.handled = true
	m.form.SetText(m.action.Value, p.Max)
}

func (m *mutator) VisitBinary(p *models.BinaryPayload) {
	if m.action.Kind != ActionSetBinary {
		return
	}
	m.handled = true
	var b models.Binary
	switch m.action.Value {
	case string(models.BinaryYes), p.YesLabel:
		b = models.BinaryYes
	case string(models.BinaryNo), p.NoLabel:
		b = models.BinaryNo
	default:
		m.invalid("binary answer %q", m.action.Value)
		return
	}
	m.form.SetBinary(b)
	m.clearErrors = true
}

func (m *mutator) VisitContact(p *models.ContactPayload) {
	switch m.action.Kind {
	case ActionSetContactField:
		m.handled = true
		field, value, ok := splitPair(m.action.Value)
		if !ok || !m.form.SetContactField(models.ContactField(field), value) {
			m.invalid("contact field %q", field)
		}
	case ActionSetContactMethod:
		m.handled = true
		if !m.form.SetContactMethod(m.action.Value, p.Methods) {
			m.invalid("contact method %q", m.action.Value)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
