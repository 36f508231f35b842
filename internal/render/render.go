package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

// Form field names submitted with every button press
const (
	ActionField  = "do"
	BalanceField = "balance"
	TextField    = "text"
)

// Brand assets served under AssetPrefix
const (
	AssetPrefix = "/assets/"
	IconPath    = AssetPrefix + "images/icons/Icon.png"
	LogoPath    = AssetPrefix + "images/icons/Logo.png"
	Tagline     = "inspired by her"
)

// Pseudo-kinds for screens that are not catalog steps
const (
	KindThankYou models.StepKind = "thank_you"
	KindNotice   models.StepKind = "notice"
	KindError    models.StepKind = "error"
)

var ordinals = []string{"1st", "2nd", "3rd"}

// View is everything a client needs to draw the active step
type View struct {
	StepID   string          `json:"step_id"`
	Kind     models.StepKind `json:"kind"`
	Section  string          `json:"section,omitempty"`
	Title    string          `json:"title,omitempty"`
	Subtitle string          `json:"subtitle,omitempty"`
	Number   int             `json:"number,omitempty"`
	Total    int             `json:"total"`
	Progress string          `json:"progress,omitempty"`
	Percent  int             `json:"percent"`
	Message  string          `json:"message,omitempty"`
	Body     *Node           `json:"body"`
	Actions  []wizard.Action `json:"actions"`
}

// Step renders the session's active step. It does not modify the session.
func Step(cat *catalog.Catalog, sess *models.Session) View {
	step, _ := cat.Step(sess.Nav.Index)

	v := View{
		StepID:   step.ID,
		Kind:     step.Kind,
		Section:  step.Section,
		Title:    step.Title,
		Subtitle: step.Subtitle,
		Number:   step.Number,
		Total:    cat.NumberedCount(),
		Actions:  []wizard.Action{},
	}
	if step.Number > 0 && v.Total > 0 {
		v.Progress = fmt.Sprintf("%d of %d", step.Number, v.Total)
		v.Percent = step.Number * 100 / v.Total
	}
	if sess.Nav.ShowErrors {
		_, v.Message = wizard.Validate(step, sess.Form)
	}

	b := &builder{cat: cat, form: sess.Form, view: &v}
	step.Payload.Accept(b)

	if b.page != nil {
		v.Body = b.page
		return v
	}

	v.Body = El("section", "page", El("div", "q-wrap",
		header(),
		stepMeta(v),
		El("div", "q-body",
			El("div", "q-head",
				El("div", "q-title", Txt(step.Title)),
				El("div", "q-subtitle", Txt(step.Subtitle)),
			),
		).Append(b.inner...),
		b.nav(step),
	)).Set("id", "page-"+step.ID)

	return v
}

// Thanks renders the screen shown once the session is completed. The button
// label depends on whether the client can use the share surface.
func Thanks(canShare bool) View {
	label := "Download Summary"
	if canShare {
		label = "Share Summary"
	}

	body := El("section", "page", El("div", "thankyou",
		El("div", "ty-icon", El("img", "").Set("src", IconPath).Set("alt", "Desire Cabinets")),
		El("div", "ty-title", Txt("Thank you for sharing your vision.")),
		El("div", "ty-divider"),
		El("div", "ty-body",
			Txt("A closet that is truly yours is on its way."),
			El("br", ""),
			Txt("We'll be in touch soon."),
		),
		El("div", "ty-divider"),
		El("div", "ty-actions",
			El("button", "btn-outline", Txt(label)).
				Set("type", "submit").
				Set("id", "ty-share-btn").
				Set("formaction", "deliver"),
		),
		El("div", "ty-note", Txt("Please share this summary with Desire Cabinets.")),
	)).Set("id", "page-thankyou")

	return View{StepID: string(KindThankYou), Kind: KindThankYou, Body: body, Actions: []wizard.Action{}}
}

// Failure renders an error screen. With retry set it offers to run the
// delivery again, otherwise it links back to a fresh session.
func Failure(message string, retry bool) View {
	v := Notice("Something went wrong.", message, !retry)
	v.StepID = string(KindError)
	v.Kind = KindError
	v.Message = message
	v.Body.Set("id", "page-error")
	if retry {
		v.Body.Children[0].Append(El("div", "ty-actions",
			El("button", "btn-outline", Txt("Try Again")).
				Set("type", "submit").
				Set("formaction", "deliver"),
		))
	}
	return v
}

// Notice renders a plain message screen
func Notice(title, message string, startOver bool) View {
	box := El("div", "thankyou",
		El("div", "ty-title", Txt(title)),
		El("div", "ty-body", Txt(message)),
	)
	if startOver {
		box.Append(El("div", "ty-actions",
			El("a", "btn-outline", Txt("Start Over")).Set("href", "/"),
		))
	}

	return View{
		StepID:  "notice",
		Kind:    KindNotice,
		Title:   title,
		Body:    El("section", "page", box).Set("id", "page-notice"),
		Actions: []wizard.Action{},
	}
}

// FieldActions turns the input fields submitted with a form into actions for
// step. Fields that do not belong to step are ignored.
func FieldActions(step models.StepDescriptor, values url.Values) []wizard.Action {
	var out []wizard.Action

	switch step.Kind {
	case models.KindBalance:
		if values.Has(BalanceField) {
			out = append(out, wizard.Action{Kind: wizard.ActionSetBalance, Value: values.Get(BalanceField)})
		}
	case models.KindFreeText:
		if values.Has(TextField) {
			out = append(out, wizard.Action{Kind: wizard.ActionSetText, Value: values.Get(TextField)})
		}
	case models.KindContact:
		for _, f := range []models.ContactField{models.FieldName, models.FieldEmail, models.FieldAddress, models.FieldPhone} {
			if values.Has(string(f)) {
				out = append(out, wizard.Action{
					Kind:  wizard.ActionSetContactField,
					Value: wizard.Pair(string(f), values.Get(string(f))),
				})
			}
		}
	}

	return out
}

func header() *Node {
	return El("div", "q-header",
		El("div", "q-brand", El("img", "").Set("src", IconPath).Set("alt", "DC icon")),
		El("div", "q-tagline", Txt(Tagline)),
	)
}

func stepMeta(v View) *Node {
	if v.Number == 0 {
		return nil
	}
	return El("div", "top-meta",
		El("div", "top-left",
			El("div", "top-k", Txt(v.Section)),
			El("div", "top-rule",
				El("div", "top-rule-fill").Set("style", fmt.Sprintf("width:%d%%", v.Percent)),
			),
		),
		El("div", "top-right", Txt(v.Progress)),
	)
}

// builder renders one payload kind. Every button it emits is recorded in
// the view's action list.
type builder struct {
	cat   *catalog.Catalog
	form  *models.FormState
	view  *View
	inner []*Node
	page  *Node
}

func (b *builder) button(class string, a wizard.Action, children ...*Node) *Node {
	b.view.Actions = append(b.view.Actions, a)
	return El("button", class, children...).
		Set("type", "submit").
		Set("name", ActionField).
		Set("value", a.Encode())
}

func (b *builder) nav(step models.StepDescriptor) *Node {
	back := b.button("btn-outline nav-back", wizard.Action{Kind: wizard.ActionRetreat}, Txt("Back"))

	var next *Node
	if p, ok := step.Payload.(*models.ReviewPayload); ok {
		next = b.button("btn-outline nav-next", wizard.Action{Kind: wizard.ActionFinish}, Txt(p.CTA))
	} else {
		next = b.button("btn-outline nav-next", wizard.Action{Kind: wizard.ActionAdvance}, Txt("Continue"))
	}

	wrap := El("div", "nav-wrap")
	if b.view.Message != "" {
		wrap.Append(El("div", "validation-msg", Txt(b.view.Message)).Set("role", "alert"))
	}
	return wrap.Append(El("div", "nav", back, next))
}

func classes(base string, extra ...string) string {
	return strings.TrimSpace(base + " " + strings.Join(extra, " "))
}

func when(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}

func pressed(selected bool) string {
	return strconv.FormatBool(selected)
}

func (b *builder) VisitWelcome(p *models.WelcomePayload) {
	headline := El("div", "welcome-title")
	for i, part := range p.Headline {
		class := "lower"
		if i == len(p.Headline)-1 && i > 0 {
			class = "gold"
		}
		headline.Append(El("span", class, Txt(part)))
	}

	b.page = El("section", "page", El("div", "welcome",
		El("div", "accent accent-top"),
		El("div", "logo", El("img", "").Set("src", LogoPath).Set("alt", "Desire Cabinets Logo")),
		headline,
		El("div", "welcome-desc", Txt(p.Subtext)),
		b.button("btn-outline cta", wizard.Action{Kind: wizard.ActionAdvance}, Txt(p.CTA)),
		El("div", "accent accent-bottom"),
	)).Set("id", "page-"+b.view.StepID)
}

func (b *builder) VisitRanked(p *models.RankedPayload) {
	slots := El("div", "tier-slots")
	for i := 0; i < p.MaxPicks; i++ {
		label := ordinal(i + 1)
		filled := i < len(b.form.Ranked)
		if filled {
			label = b.form.Ranked[i]
		}
		slots.Append(El("div", classes("tier-slot", when(filled, "filled")), Txt(label)).
			Set("data-slot", strconv.Itoa(i)))
	}

	full := len(b.form.Ranked) >= p.MaxPicks
	list := El("div", "list").Set("id", "ranked-list")
	for _, opt := range p.Options {
		rank := b.form.Rank(opt)
		pill := El("span", "pill")
		if rank > 0 {
			pill.Append(Txt(strconv.Itoa(rank)))
		}
		name := El("span", "row-name", Txt(opt))

		if rank == 0 && full {
			list.Append(El("button", "row rank disabled", name, pill).
				Set("type", "button").
				Set("disabled", ""))
			continue
		}
		list.Append(b.button(classes("row rank", when(rank > 0, "selected")),
			wizard.Action{Kind: wizard.ActionToggleRanked, Value: opt}, name, pill))
	}

	b.inner = append(b.inner,
		El("div", "tier-label", Txt(fmt.Sprintf("Your Top %d", p.MaxPicks))),
		slots,
		list,
	)
}

func (b *builder) VisitBalance(p *models.BalancePayload) {
	v := b.form.Shelving()

	presets := El("div", "preset-row")
	for _, preset := range p.Presets {
		label := make([]*Node, 0, 3)
		for i, line := range strings.Split(preset.Label, "\n") {
			if i > 0 {
				label = append(label, El("br", ""))
			}
			label = append(label, Txt(line))
		}
		presets.Append(b.button(classes("preset", when(preset.Shelving == v, "selected")),
			wizard.Action{Kind: wizard.ActionSetBalance, Value: strconv.Itoa(preset.Shelving)}, label...))
	}

	b.inner = append(b.inner, El("div", "ratio",
		El("div", "ratio-head",
			El("div", "ratio-end", Txt("MOSTLY HANGING")),
			El("div", "ratio-end right", Txt("MOSTLY SHELVING")),
		),
		El("div", "slider-wrap",
			El("div", "slider-track").Set("aria-hidden", "true"),
			El("div", "slider-fill").
				Set("id", "balance-fill").
				Set("style", fmt.Sprintf("width:%d%%", v)).
				Set("aria-hidden", "true"),
			El("input", "slider").
				Set("id", "balance-slider").
				Set("type", "range").
				Set("name", BalanceField).
				Set("min", strconv.Itoa(p.Min)).
				Set("max", strconv.Itoa(p.Max)).
				Set("value", strconv.Itoa(v)).
				Set("data-live", "balance"),
		),
		El("div", "ratio-readout", Txt(wizard.FormatBalance(v))).Set("id", "balance-readout"),
		presets,
	))
}

func (b *builder) VisitMultiSelect(p *models.MultiSelectPayload) {
	list := El("div", "list list-radio").Set("id", "multi-list")
	for _, opt := range p.Options {
		selected := b.form.HasMulti(opt)
		list.Append(b.button(classes("row radio", when(selected, "selected")),
			wizard.Action{Kind: wizard.ActionToggleMulti, Value: opt},
			El("span", "row-name", Txt(opt)),
			El("span", "radio-dot").Set("aria-hidden", "true"),
		).Set("aria-pressed", pressed(selected)))
	}
	b.inner = append(b.inner, list)
}

func (b *builder) VisitImageGrid(p *models.ImageGridPayload) {
	grid := El("div", "grid").Set("id", "single-grid")
	for _, o := range p.Options {
		selected := b.form.Single == o.Label
		grid.Append(b.button(classes("card", when(selected, "selected")),
			wizard.Action{Kind: wizard.ActionSelectSingle, Value: o.Label},
			El("div", "card-media", El("img", "media-img").Set("src", AssetPrefix+o.Image).Set("alt", "")),
			El("div", "card-label", Txt(o.Label)),
			El("div", "card-check").Set("aria-hidden", "true"),
		).Set("aria-pressed", pressed(selected)))
	}
	b.inner = append(b.inner, grid)
}

func (b *builder) VisitDualGrid(p *models.DualGridPayload) {
	for _, c := range p.Categories {
		current := b.form.DualValue(c.ID)
		grid := El("div", "hw-grid").Set("data-grid", c.ID)
		for _, o := range c.Options {
			selected := current == o.Label
			grid.Append(b.button(classes("hw-card", when(selected, "selected")),
				wizard.Action{Kind: wizard.ActionSelectDual, Value: wizard.Pair(c.ID, o.Label)},
				El("div", "hw-media", El("img", "hw-img").Set("src", AssetPrefix+o.Image).Set("alt", "")),
				El("div", "hw-label", Txt(o.Label)),
				El("div", "hw-check").Set("aria-hidden", "true"),
			).Set("aria-pressed", pressed(selected)))
		}
		b.inner = append(b.inner, El("div", "split",
			El("div", "split-head", Txt(c.Heading)),
			grid,
		))
	}
}

func (b *builder) VisitFreeText(p *models.FreeTextPayload) {
	area := El("textarea", "textarea").
		Set("id", "text-input").
		Set("name", TextField).
		Set("maxlength", strconv.Itoa(p.Max)).
		Set("placeholder", p.Placeholder).
		Set("data-live", "text")
	area.Text = b.form.Text

	b.inner = append(b.inner, El("div", "field",
		area,
		El("div", "counter",
			El("span", "", Txt(strconv.Itoa(b.form.TextLength()))).Set("id", "text-count"),
			Txt(fmt.Sprintf(" / %d", p.Max)),
		),
	))
}

func (b *builder) VisitBinary(p *models.BinaryPayload) {
	yes := b.form.Binary == models.BinaryYes
	no := b.form.Binary == models.BinaryNo

	b.inner = append(b.inner, El("div", "yn",
		b.button(classes("yn-btn", when(yes, "active")),
			wizard.Action{Kind: wizard.ActionSetBinary, Value: string(models.BinaryYes)}, Txt(p.YesLabel)),
		b.button(classes("yn-btn", when(no, "active")),
			wizard.Action{Kind: wizard.ActionSetBinary, Value: string(models.BinaryNo)}, Txt(p.NoLabel)),
	))

	if !yes {
		return
	}
	b.inner = append(b.inner, El("div", "prompt",
		El("div", "prompt-title gold-text", Txt(p.PromptTitle)),
		El("div", "prompt-line",
			El("span", "prompt-k", Txt("Email")),
			El("a", "prompt-v", Txt(p.Email)).Set("href", "mailto:"+p.Email),
		),
		El("div", "prompt-line",
			El("span", "prompt-k", Txt("Phone")),
			El("a", "prompt-v", Txt(p.Phone)).Set("href", "tel:"+p.Phone),
		),
	).Set("id", "binary-prompt"))
}

func (b *builder) VisitContact(p *models.ContactPayload) {
	c := b.form.Contact
	b.inner = append(b.inner,
		contactField(models.FieldName, "Name", "text", c.Name, "Full name", true),
		contactField(models.FieldEmail, "Email", "email", c.Email, "you@example.com", true),
		contactField(models.FieldAddress, "Address", "text", c.Address, "Street, City, State, ZIP", true),
		contactField(models.FieldPhone, "Phone (optional)", "tel", c.Phone, "(000) 000-0000", false),
	)

	toggle := El("div", "toggle").Set("id", "contact-method")
	for _, m := range p.Methods {
		toggle.Append(b.button(classes("toggle-btn", when(c.Method == m, "active")),
			wizard.Action{Kind: wizard.ActionSetContactMethod, Value: m}, Txt(m)))
	}
	b.inner = append(b.inner, El("div", "field",
		El("div", "field-label", Txt("Preferred Contact Method")),
		toggle,
	))
}

func contactField(field models.ContactField, label, typ, value, placeholder string, required bool) *Node {
	id := "contact-" + string(field)
	l := El("label", "field-label", Txt(label)).Set("for", id)
	if required {
		l.Append(El("span", "req", Txt("*")))
	}
	return El("div", "field",
		l,
		El("input", "input").
			Set("id", id).
			Set("type", typ).
			Set("name", string(field)).
			Set("value", value).
			Set("placeholder", placeholder),
	)
}

func (b *builder) VisitReview(*models.ReviewPayload) {
	stack := El("div", "review-stack")
	for _, line := range wizard.ReviewLines(b.cat, b.form) {
		section := line.Section
		if section == "" {
			section = strings.ToUpper(line.StepID)
		}
		stack.Append(El("div", "review-card",
			El("div", "review-top",
				El("div", "review-k", Txt(section)),
				b.button("review-edit", wizard.Action{Kind: wizard.ActionEdit, Value: line.StepID}, Txt("Edit")),
			),
			El("div", "review-v", Txt(line.Value)),
		).Set("data-step", line.StepID))
	}
	b.inner = append(b.inner, stack)
}

func ordinal(n int) string {
	if n >= 1 && n <= len(ordinals) {
		return ordinals[n-1]
	}
	return strconv.Itoa(n) + "th"
}
