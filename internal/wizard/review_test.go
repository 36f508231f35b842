package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/models"
)

func TestReviewFormatting(t *testing.T) {
	cat := catalog.Default()
	form := cat.NewFormState()
	form.ToggleRanked("Shoes", 3)
	form.ToggleRanked("Long Hanging", 3)
	form.SetBalance(30)
	form.SetDual("pulls_handles", "Gold · Style 1")

	values := map[string]string{}
	for _, line := range ReviewLines(cat, form) {
		values[line.StepID] = line.Value
	}

	assert.Len(t, values, 8)
	assert.Equal(t, "Shoes, Long Hanging", values["q1"])
	assert.Equal(t, "70% Hanging · 30% Shelving", values["q2"])
	assert.Equal(t, Dash, values["q3"])
	assert.Equal(t, Dash, values["q4"])
	assert.Equal(t, "Pulls/Handles: Gold · Style 1 | Hanging Rods: —", values["q5"])
	assert.Equal(t, Dash, values["q6"])
	assert.Equal(t, Dash, values["q7"])
	assert.Equal(t, "— · — · — · Email", values["contact"])
}

func TestReviewLinesFollowFlowOrder(t *testing.T) {
	cat := catalog.Default()
	lines := ReviewLines(cat, cat.NewFormState())

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.StepID)
	}
	assert.Equal(t, []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "contact"}, ids)
	assert.Equal(t, "PRIORITIES", lines[0].Section)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, Dash, FormatList(nil))
	assert.Equal(t, "Drawers, Mirrors", FormatList([]string{"Drawers", "Mirrors"}))

	assert.Equal(t, "100% Hanging · 0% Shelving", FormatBalance(-20))
	assert.Equal(t, "0% Hanging · 100% Shelving", FormatBalance(140))

	assert.Equal(t, Dash, OrDash("  "))
	assert.Equal(t, "Oak", OrDash(" Oak "))

	c := models.Contact{Name: "Ana", Email: "ana@example.com", Address: "1 Main St", Method: "Phone"}
	assert.Equal(t, "Ana · ana@example.com · 1 Main St · Phone", FormatContact(c))
}

func TestDisplayValueForNonInputSteps(t *testing.T) {
	cat := catalog.Default()
	step, ok := cat.Step(0)
	assert.True(t, ok)
	assert.Equal(t, Dash, DisplayValue(step, cat.NewFormState()))
}
