package catalog

import (
	"errors"
	"fmt"

	"github.com/terra-clan/closet-profile/internal/models"
)

// ErrInvalidCatalog wraps every structural problem found while building a catalog
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the ordered, immutable list of wizard steps
type Catalog struct {
	steps    []models.StepDescriptor
	byID     map[string]int
	numbered int
}

// New validates steps and assigns positions
func New(steps []models.StepDescriptor) (*Catalog, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidCatalog)
	}

	c := &Catalog{
		steps: make([]models.StepDescriptor, len(steps)),
		byID:  make(map[string]int, len(steps)),
	}
	seenKinds := make(map[models.StepKind]string)

	for i, step := range steps {
		if step.ID == "" {
			return nil, fmt.Errorf("%w: step %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[step.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate step id %q", ErrInvalidCatalog, step.ID)
		}
		if step.Payload == nil {
			return nil, fmt.Errorf("%w: step %q has no payload", ErrInvalidCatalog, step.ID)
		}
		step.Kind = step.Payload.Kind()

		if step.Kind.IsInput() {
			if other, ok := seenKinds[step.Kind]; ok {
				return nil, fmt.Errorf("%w: steps %q and %q both use kind %s", ErrInvalidCatalog, other, step.ID, step.Kind)
			}
			seenKinds[step.Kind] = step.ID
		}
		if step.Kind == models.KindReview && i != len(steps)-1 {
			return nil, fmt.Errorf("%w: review step %q must be last", ErrInvalidCatalog, step.ID)
		}
		if err := checkPayload(step); err != nil {
			return nil, err
		}
		if step.Number > 0 {
			c.numbered++
		}

		step.Position = i
		c.steps[i] = step
		c.byID[step.ID] = i
	}

	return c, nil
}

func checkPayload(step models.StepDescriptor) error {
	switch p := step.Payload.(type) {
	case *models.RankedPayload:
		if p.MaxPicks < 1 || p.MaxPicks > models.DefaultMaxPicks {
			return fmt.Errorf("%w: step %q max picks %d outside 1..%d", ErrInvalidCatalog, step.ID, p.MaxPicks, models.DefaultMaxPicks)
		}
		if len(p.Options) == 0 {
			return fmt.Errorf("%w: step %q has no options", ErrInvalidCatalog, step.ID)
		}
	case *models.BalancePayload:
		if p.Min != models.BalanceMin || p.Max != models.BalanceMax {
			return fmt.Errorf("%w: step %q balance bounds must be %d..%d", ErrInvalidCatalog, step.ID, models.BalanceMin, models.BalanceMax)
		}
		for _, preset := range p.Presets {
			if preset.Shelving < p.Min || preset.Shelving > p.Max {
				return fmt.Errorf("%w: step %q preset %q out of range", ErrInvalidCatalog, step.ID, preset.Label)
			}
		}
	case *models.DualGridPayload:
		if p.Categories[0].ID == "" || p.Categories[1].ID == "" || p.Categories[0].ID == p.Categories[1].ID {
			return fmt.Errorf("%w: step %q needs two distinct category ids", ErrInvalidCatalog, step.ID)
		}
	case *models.FreeTextPayload:
		if p.Max <= 0 {
			return fmt.Errorf("%w: step %q max length must be positive", ErrInvalidCatalog, step.ID)
		}
	case *models.ContactPayload:
		if len(p.Methods) == 0 || !p.HasMethod(p.DefaultMethod) {
			return fmt.Errorf("%w: step %q default method %q not in methods", ErrInvalidCatalog, step.ID, p.DefaultMethod)
		}
	}
	return nil
}

// Len returns the number of steps
func (c *Catalog) Len() int {
	return len(c.steps)
}

// Step returns the descriptor at index i
func (c *Catalog) Step(i int) (models.StepDescriptor, bool) {
	if i < 0 || i >= len(c.steps) {
		return models.StepDescriptor{}, false
	}
	return c.steps[i], true
}

// Steps returns a copy of all descriptors in order
func (c *Catalog) Steps() []models.StepDescriptor {
	out := make([]models.StepDescriptor, len(c.steps))
	copy(out, c.steps)
	return out
}

// IndexOf returns the position of the step with id, or -1
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// NumberedCount is the "of N" total shown in the progress bar
func (c *Catalog) NumberedCount() int {
	return c.numbered
}

// FindKind returns the first step of kind k
func (c *Catalog) FindKind(k models.StepKind) (models.StepDescriptor, bool) {
	for _, s := range c.steps {
		if s.Kind == k {
			return s, true
		}
	}
	return models.StepDescriptor{}, false
}

// MaxPicks is the ranked-step limit, defaulting when the flow has no ranked step
func (c *Catalog) MaxPicks() int {
	if s, ok := c.FindKind(models.KindRanked); ok {
		return s.Payload.(*models.RankedPayload).MaxPicks
	}
	return models.DefaultMaxPicks
}

// TextMax is the free-text limit, 0 when the flow has no text step
func (c *Catalog) TextMax() int {
	if s, ok := c.FindKind(models.KindFreeText); ok {
		return s.Payload.(*models.FreeTextPayload).Max
	}
	return 0
}

// ContactMethods returns the enumerated contact methods
func (c *Catalog) ContactMethods() []string {
	if s, ok := c.FindKind(models.KindContact); ok {
		return s.Payload.(*models.ContactPayload).Methods
	}
	return []string{models.DefaultMethod}
}

// DualCategories returns the two hardware categories, if the flow has them
func (c *Catalog) DualCategories() ([2]models.Category, bool) {
	if s, ok := c.FindKind(models.KindDualGrid); ok {
		return s.Payload.(*models.DualGridPayload).Categories, true
	}
	return [2]models.Category{}, false
}

// NewFormState returns an empty state with catalog defaults applied
func (c *Catalog) NewFormState() *models.FormState {
	f := models.NewFormState()
	if s, ok := c.FindKind(models.KindBalance); ok {
		f.SetBalance(s.Payload.(*models.BalancePayload).Default)
	}
	if s, ok := c.FindKind(models.KindContact); ok {
		f.Contact.Method = s.Payload.(*models.ContactPayload).DefaultMethod
	}
	return f
}
