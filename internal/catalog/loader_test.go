package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/models"
)

func TestLoadFromFileMatchesDefault(t *testing.T) {
	// Use the shipped config
	path := filepath.Join("..", "..", "configs", "closet-profile.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("configs directory not found, skipping")
	}

	c, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, Default().Steps(), c.Steps())
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), c.Len())
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unsupported := filepath.Join(dir, "flow.json")
	require.NoError(t, os.WriteFile(unsupported, []byte(`{}`), 0o644))
	_, err = LoadFromFile(unsupported)
	assert.ErrorContains(t, err, "unsupported catalog format")
}

func TestParseYAMLSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no flow", "steps: []\n"},
		{"empty flow", "flow: []\n"},
		{"unknown type", "flow:\n  - id: a\n    type: slider\n"},
		{"bad id", "flow:\n  - id: 'a b'\n    type: review\n"},
		{"max picks", "flow:\n  - id: a\n    type: ranked\n    max_picks: 5\n    options: [x]\n"},
		{"one category", "flow:\n  - id: a\n    type: dual_grid\n    categories:\n      - {id: x, heading: X}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParseYAMLCrossStepRules(t *testing.T) {
	doc := `
flow:
  - id: a
    type: binary
  - id: b
    type: binary
`
	_, err := ParseYAML([]byte(doc))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestParseTOML(t *testing.T) {
	doc := `
[[flow]]
id = "q1"
type = "ranked"
step = 1
section = "PRIORITIES"
sort_options = true
options = ["Shoes", "Other", "Bags"]

[[flow]]
id = "q4"
type = "image_grid"
step = 2
image_dir = "img"
options = ["Natural Oak"]

[[flow]]
id = "q7"
type = "binary"
step = 3

[[flow]]
id = "review"
type = "review"
`
	c, err := ParseTOML([]byte(doc))
	require.NoError(t, err)

	require.Equal(t, 4, c.Len())
	assert.Equal(t, 3, c.NumberedCount())

	s, _ := c.Step(0)
	p := s.Payload.(*models.RankedPayload)
	assert.Equal(t, []string{"Bags", "Shoes", "Other"}, p.Options)
	assert.Equal(t, models.DefaultMaxPicks, p.MaxPicks)

	s, _ = c.Step(1)
	assert.Equal(t, []models.ImageOption{{Label: "Natural Oak", Image: "img/natural-oak.jpg"}},
		s.Payload.(*models.ImageGridPayload).Options)

	s, _ = c.Step(2)
	b := s.Payload.(*models.BinaryPayload)
	assert.Equal(t, "Yes", b.YesLabel)
	assert.Equal(t, "No", b.NoLabel)

	s, _ = c.Step(3)
	assert.Equal(t, "Generate Summary", s.Payload.(*models.ReviewPayload).CTA)
}
