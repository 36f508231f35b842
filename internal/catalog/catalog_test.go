package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/models"
)

func TestDefaultFlow(t *testing.T) {
	c := Default()

	require.Equal(t, 10, c.Len())
	assert.Equal(t, 8, c.NumberedCount())

	ids := make([]string, 0, c.Len())
	for i, s := range c.Steps() {
		assert.Equal(t, i, s.Position)
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"welcome", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "contact", "review"}, ids)

	last, _ := c.Step(c.Len() - 1)
	assert.Equal(t, models.KindReview, last.Kind)
}

func TestDefaultOptionOrdering(t *testing.T) {
	c := Default()

	ranked, ok := c.FindKind(models.KindRanked)
	require.True(t, ok)
	assert.Equal(t,
		[]string{"Bags & Purses", "Folded Clothes", "Long Hanging", "Shoes", "Short Hanging", "Other"},
		ranked.Payload.(*models.RankedPayload).Options)

	grid, ok := c.FindKind(models.KindImageGrid)
	require.True(t, ok)
	opts := grid.Payload.(*models.ImageGridPayload).Options
	require.Len(t, opts, 12)
	assert.Equal(t, "White (most popular)", opts[0].Label)
	assert.Equal(t, "images/materials/white-most-popular.jpg", opts[0].Image)
	assert.Equal(t, "Black", opts[1].Label)
	assert.Equal(t, "Umbria Elme", opts[11].Label)

	cats, ok := c.DualCategories()
	require.True(t, ok)
	assert.Equal(t, "pulls_handles", cats[0].ID)
	assert.Equal(t, "hanging_rods", cats[1].ID)
	require.Len(t, cats[0].Options, 8)
	assert.Equal(t, "Gold · Style 1", cats[0].Options[0].Label)
	assert.Equal(t, "images/hardware/pulls-handles-gold-style-1.jpg", cats[0].Options[0].Image)
	assert.True(t, cats[1].HasOption("Brushed Nickel · Style 2"))
}

func TestCatalogAccessors(t *testing.T) {
	c := Default()

	assert.Equal(t, 3, c.MaxPicks())
	assert.Equal(t, 500, c.TextMax())
	assert.Equal(t, []string{"Email", "Phone", "Text"}, c.ContactMethods())
	assert.Equal(t, 8, c.IndexOf("contact"))
	assert.Equal(t, -1, c.IndexOf("nope"))

	_, ok := c.Step(-1)
	assert.False(t, ok)
	_, ok = c.Step(c.Len())
	assert.False(t, ok)

	f := c.NewFormState()
	assert.Equal(t, 50, f.Balance)
	assert.Equal(t, "Email", f.Contact.Method)
	assert.Empty(t, f.Ranked)
}

func TestNewRejectsBadFlows(t *testing.T) {
	ranked := func(id string) models.StepDescriptor {
		return models.StepDescriptor{ID: id, Payload: &models.RankedPayload{Options: []string{"A"}, MaxPicks: 3}}
	}
	review := models.StepDescriptor{ID: "review", Payload: &models.ReviewPayload{}}

	tests := []struct {
		name  string
		steps []models.StepDescriptor
	}{
		{"empty", nil},
		{"missing id", []models.StepDescriptor{{Payload: &models.ReviewPayload{}}}},
		{"missing payload", []models.StepDescriptor{{ID: "x"}}},
		{"duplicate id", []models.StepDescriptor{ranked("a"), {ID: "a", Payload: &models.ReviewPayload{}}}},
		{"two ranked steps", []models.StepDescriptor{ranked("a"), ranked("b")}},
		{"review not last", []models.StepDescriptor{review, ranked("a")}},
		{"max picks too high", []models.StepDescriptor{{ID: "a", Payload: &models.RankedPayload{Options: []string{"A"}, MaxPicks: 4}}}},
		{"text max zero", []models.StepDescriptor{{ID: "a", Payload: &models.FreeTextPayload{}}}},
		{"same dual ids", []models.StepDescriptor{{ID: "a", Payload: &models.DualGridPayload{
			Categories: [2]models.Category{{ID: "x"}, {ID: "x"}},
		}}}},
		{"unknown default method", []models.StepDescriptor{{ID: "a", Payload: &models.ContactPayload{
			Methods: []string{"Email"}, DefaultMethod: "Fax",
		}}}},
		{"preset out of range", []models.StepDescriptor{{ID: "a", Payload: &models.BalancePayload{
			Min: 0, Max: 100, Presets: []models.Preset{{Label: "x", Shelving: 120}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.steps)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestAlphaOtherLast(t *testing.T) {
	got := AlphaOtherLast([]string{"other", "banana", "Apple", "cherry"})
	assert.Equal(t, []string{"Apple", "banana", "cherry", "Other"}, got)

	assert.Equal(t, []string{"b", "c"}, AlphaOtherLast([]string{"c", "b"}))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "white-most-popular", Slug("White (most popular)"))
	assert.Equal(t, "brushed-nickel", Slug("  Brushed   Nickel "))
}
