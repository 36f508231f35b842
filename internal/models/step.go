package models

// StepKind identifies which layout and FormState slot a step uses
type StepKind string

const (
	KindWelcome     StepKind = "welcome"
	KindRanked      StepKind = "ranked"
	KindBalance     StepKind = "balance"
	KindMultiSelect StepKind = "multi_select"
	KindImageGrid   StepKind = "image_grid"
	KindDualGrid    StepKind = "dual_grid"
	KindFreeText    StepKind = "free_text"
	KindBinary      StepKind = "binary"
	KindContact     StepKind = "contact"
	KindReview      StepKind = "review"
)

// InputKinds lists the kinds that own a FormState slot
var InputKinds = []StepKind{
	KindRanked,
	KindBalance,
	KindMultiSelect,
	KindImageGrid,
	KindDualGrid,
	KindFreeText,
	KindBinary,
	KindContact,
}

// IsInput reports whether the kind collects an answer
func (k StepKind) IsInput() bool {
	for _, in := range InputKinds {
		if in == k {
			return true
		}
	}
	return false
}

// StepDescriptor is one immutable screen of the wizard.
// Built once by the catalog and never mutated afterwards.
type StepDescriptor struct {
	ID                string   `json:"id"`
	Kind              StepKind `json:"kind"`
	Position          int      `json:"position"`
	Number            int      `json:"number,omitempty"` // progress number, 0 = not counted
	Section           string   `json:"section,omitempty"`
	Title             string   `json:"title,omitempty"`
	Subtitle          string   `json:"subtitle,omitempty"`
	ValidationMessage string   `json:"validation_message,omitempty"`
	Payload           Payload  `json:"payload"`
}

// Payload is the closed set of kind-specific step data.
// Only the types in this file implement it.
type Payload interface {
	Kind() StepKind
	Accept(v StepVisitor)
	sealed()
}

// StepVisitor has one method per step kind. Adding a kind means adding a
// method here, which breaks every visitor until it handles the new kind.
type StepVisitor interface {
	VisitWelcome(p *WelcomePayload)
	VisitRanked(p *RankedPayload)
	VisitBalance(p *BalancePayload)
	VisitMultiSelect(p *MultiSelectPayload)
	VisitImageGrid(p *ImageGridPayload)
	VisitDualGrid(p *DualGridPayload)
	VisitFreeText(p *FreeTextPayload)
	VisitBinary(p *BinaryPayload)
	VisitContact(p *ContactPayload)
	VisitReview(p *ReviewPayload)
}

// WelcomePayload is the landing screen
type WelcomePayload struct {
	Headline []string `json:"headline"` // plain part, accented part
	Subtext  string   `json:"subtext"`
	CTA      string   `json:"cta"`
}

// RankedPayload is a bounded, order-significant choice list
type RankedPayload struct {
	Options  []string `json:"options"`
	MaxPicks int      `json:"max_picks"`
}

// BalancePayload is a single percentage slider
type BalancePayload struct {
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Default int      `json:"default"`
	Presets []Preset `json:"presets"`
}

// Preset is a fixed slider position
type Preset struct {
	Label    string `json:"label" yaml:"label" toml:"label"`
	Shelving int    `json:"shelving" yaml:"shelving" toml:"shelving"`
}

// MultiSelectPayload is an unordered membership list
type MultiSelectPayload struct {
	Options []string `json:"options"`
}

// ImageGridPayload is a single-choice grid of image cards
type ImageGridPayload struct {
	Options []ImageOption `json:"options"`
}

// ImageOption is one card in an image grid
type ImageOption struct {
	Label string `json:"label" yaml:"label" toml:"label"`
	Image string `json:"image" yaml:"image" toml:"image"`
}

// DualGridPayload holds exactly two independent single-choice categories
type DualGridPayload struct {
	Categories [2]Category `json:"categories"`
}

// Category is one sub-grid of a dual grid
type Category struct {
	ID          string        `json:"id"`
	Heading     string        `json:"heading"`
	ReviewLabel string        `json:"review_label"`
	Options     []ImageOption `json:"options"`
}

// HasOption reports whether label is one of the category's cards
func (c Category) HasOption(label string) bool {
	for _, o := range c.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// FreeTextPayload is a bounded text area
type FreeTextPayload struct {
	Max         int    `json:"max"`
	Placeholder string `json:"placeholder"`
}

// BinaryPayload is a yes/no toggle with a panel revealed on yes
type BinaryPayload struct {
	YesLabel    string `json:"yes_label"`
	NoLabel     string `json:"no_label"`
	PromptTitle string `json:"prompt_title"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// ContactPayload is the contact form
type ContactPayload struct {
	Methods       []string `json:"methods"`
	DefaultMethod string   `json:"default_method"`
}

// HasMethod reports whether m is an allowed contact method
func (p *ContactPayload) HasMethod(m string) bool {
	for _, method := range p.Methods {
		if method == m {
			return true
		}
	}
	return false
}

// ReviewPayload is the read-only summary screen
type ReviewPayload struct {
	CTA string `json:"cta"`
}

func (p *WelcomePayload) Kind() StepKind     { return KindWelcome }
func (p *RankedPayload) Kind() StepKind      { return KindRanked }
func (p *BalancePayload) Kind() StepKind     { return KindBalance }
func (p *MultiSelectPayload) Kind() StepKind { return KindMultiSelect }
func (p *ImageGridPayload) Kind() StepKind   { return KindImageGrid }
func (p *DualGridPayload) Kind() StepKind    { return KindDualGrid }
func (p *FreeTextPayload) Kind() StepKind    { return KindFreeText }
func (p *BinaryPayload) Kind() StepKind      { return KindBinary }
func (p *ContactPayload) Kind() StepKind     { return KindContact }
func (p *ReviewPayload) Kind() StepKind      { return KindReview }

func (p *WelcomePayload) Accept(v StepVisitor)     { v.VisitWelcome(p) }
func (p *RankedPayload) Accept(v StepVisitor)      { v.VisitRanked(p) }
func (p *BalancePayload) Accept(v StepVisitor)     { v.VisitBalance(p) }
func (p *MultiSelectPayload) Accept(v StepVisitor) { v.VisitMultiSelect(p) }
func (p *ImageGridPayload) Accept(v StepVisitor)   { v.VisitImageGrid(p) }
func (p *DualGridPayload) Accept(v StepVisitor)    { v.VisitDualGrid(p) }
func (p *FreeTextPayload) Accept(v StepVisitor)    { v.VisitFreeText(p) }
func (p *BinaryPayload) Accept(v StepVisitor)      { v.VisitBinary(p) }
func (p *ContactPayload) Accept(v StepVisitor)     { v.VisitContact(p) }
func (p *ReviewPayload) Accept(v StepVisitor)      { v.VisitReview(p) }

func (*WelcomePayload) sealed()     {}
func (*RankedPayload) sealed()      {}
func (*BalancePayload) sealed()     {}
func (*MultiSelectPayload) sealed() {}
func (*ImageGridPayload) sealed()   {}
func (*DualGridPayload) sealed()    {}
func (*FreeTextPayload) sealed()    {}
func (*BinaryPayload) sealed()      {}
func (*ContactPayload) sealed()     {}
func (*ReviewPayload) sealed()      {}
