package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/terra-clan/closet-profile/internal/models"
)

// Load returns the built-in flow when path is empty, otherwise the flow in path
func Load(path string) (*Catalog, error) {
	if path == "" {
		slog.Info("using built-in catalog")
		return Default(), nil
	}
	return LoadFromFile(path)
}

// LoadFromFile loads a flow from a YAML (.yaml/.yml) or TOML (.toml) file
func LoadFromFile(path string) (*Catalog, error) {
	slog.Info("loading catalog from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var c *Catalog
	switch ext {
	case ".yaml", ".yml":
		c, err = ParseYAML(data)
	case ".toml":
		c, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	slog.Info("catalog loaded", "path", path, "steps", c.Len(), "numbered", c.NumberedCount())
	return c, nil
}

// ParseYAML builds a catalog from YAML bytes
func ParseYAML(data []byte) (*Catalog, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var ff flowFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ff.build()
}

// ParseTOML builds a catalog from TOML bytes
func ParseTOML(data []byte) (*Catalog, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var ff flowFile
	if err := toml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return ff.build()
}

func (ff flowFile) build() (*Catalog, error) {
	steps := make([]models.StepDescriptor, 0, len(ff.Flow))
	for _, sf := range ff.Flow {
		payload, err := sf.payload()
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", sf.ID, err)
		}
		steps = append(steps, models.StepDescriptor{
			ID:                sf.ID,
			Number:            sf.Step,
			Section:           sf.Section,
			Title:             sf.Title,
			Subtitle:          sf.Subtitle,
			ValidationMessage: sf.ValidationMessage,
			Payload:           payload,
		})
	}
	return New(steps)
}

func (sf stepFile) payload() (models.Payload, error) {
	options := sf.Options
	if sf.SortOptions {
		options = AlphaOtherLast(options)
	}

	switch models.StepKind(sf.Type) {
	case models.KindWelcome:
		return &models.WelcomePayload{Headline: sf.Headline, Subtext: sf.Subtext, CTA: orDefault(sf.CTA, "Begin")}, nil
	case models.KindRanked:
		maxPicks := sf.MaxPicks
		if maxPicks == 0 {
			maxPicks = models.DefaultMaxPicks
		}
		return &models.RankedPayload{Options: options, MaxPicks: maxPicks}, nil
	case models.KindBalance:
		def := models.DefaultBalance
		if sf.Default != nil {
			def = *sf.Default
		}
		return &models.BalancePayload{
			Min:     models.BalanceMin,
			Max:     models.BalanceMax,
			Default: models.ClampBalance(def),
			Presets: sf.Presets,
		}, nil
	case models.KindMultiSelect:
		return &models.MultiSelectPayload{Options: options}, nil
	case models.KindImageGrid:
		images := sf.Images
		if len(images) == 0 {
			images = MaterialOptions(orDefault(sf.ImageDir, "images"), options)
		}
		if len(images) == 0 {
			return nil, fmt.Errorf("image grid needs images or options")
		}
		return &models.ImageGridPayload{Options: images}, nil
	case models.KindDualGrid:
		if len(sf.Categories) != 2 {
			return nil, fmt.Errorf("dual grid needs exactly 2 categories, got %d", len(sf.Categories))
		}
		var p models.DualGridPayload
		for i, cf := range sf.Categories {
			p.Categories[i] = cf.category()
		}
		return &p, nil
	case models.KindFreeText:
		return &models.FreeTextPayload{Max: sf.Max, Placeholder: sf.Placeholder}, nil
	case models.KindBinary:
		return &models.BinaryPayload{
			YesLabel:    orDefault(sf.Yes, string(models.BinaryYes)),
			NoLabel:     orDefault(sf.No, string(models.BinaryNo)),
			PromptTitle: sf.PromptTitle,
			Email:       sf.Email,
			Phone:       sf.Phone,
		}, nil
	case models.KindContact:
		methods := sf.Methods
		if len(methods) == 0 {
			methods = []string{models.DefaultMethod}
		}
		return &models.ContactPayload{Methods: methods, DefaultMethod: orDefault(sf.DefaultMethod, methods[0])}, nil
	case models.KindReview:
		return &models.ReviewPayload{CTA: orDefault(sf.CTA, "Generate Summary")}, nil
	}
	return nil, fmt.Errorf("unknown step type %q", sf.Type)
}

func (cf categoryFile) category() models.Category {
	options := cf.Images
	if len(options) == 0 {
		options = HardwareOptions(orDefault(cf.ImageCategory, Slug(cf.ID)), cf.Finishes, cf.Styles)
	}
	return models.Category{
		ID:          cf.ID,
		Heading:     cf.Heading,
		ReviewLabel: orDefault(cf.ReviewLabel, cf.Heading),
		Options:     options,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// --- File structs ---

// flowFile represents the structure of a catalog file
type flowFile struct {
	Flow []stepFile `yaml:"flow" toml:"flow"`
}

// stepFile is one flow entry; which fields apply depends on Type
type stepFile struct {
	ID                string               `yaml:"id" toml:"id"`
	Type              string               `yaml:"type" toml:"type"`
	Step              int                  `yaml:"step" toml:"step"`
	Section           string               `yaml:"section" toml:"section"`
	Title             string               `yaml:"title" toml:"title"`
	Subtitle          string               `yaml:"subtitle" toml:"subtitle"`
	ValidationMessage string               `yaml:"validation_message" toml:"validation_message"`
	Options           []string             `yaml:"options" toml:"options"`
	SortOptions       bool                 `yaml:"sort_options" toml:"sort_options"`
	MaxPicks          int                  `yaml:"max_picks" toml:"max_picks"`
	Default           *int                 `yaml:"default" toml:"default"`
	Presets           []models.Preset      `yaml:"presets" toml:"presets"`
	Images            []models.ImageOption `yaml:"images" toml:"images"`
	ImageDir          string               `yaml:"image_dir" toml:"image_dir"`
	Categories        []categoryFile       `yaml:"categories" toml:"categories"`
	Max               int                  `yaml:"max" toml:"max"`
	Placeholder       string               `yaml:"placeholder" toml:"placeholder"`
	Yes               string               `yaml:"yes" toml:"yes"`
	No                string               `yaml:"no" toml:"no"`
	PromptTitle       string               `yaml:"prompt_title" toml:"prompt_title"`
	Email             string               `yaml:"email" toml:"email"`
	Phone             string               `yaml:"phone" toml:"phone"`
	Methods           []string             `yaml:"methods" toml:"methods"`
	DefaultMethod     string               `yaml:"default_method" toml:"default_method"`
	Headline          []string             `yaml:"headline" toml:"headline"`
	Subtext           string               `yaml:"subtext" toml:"subtext"`
	CTA               string               `yaml:"cta" toml:"cta"`
}

// categoryFile is one dual-grid category
type categoryFile struct {
	ID            string               `yaml:"id" toml:"id"`
	Heading       string               `yaml:"heading" toml:"heading"`
	ReviewLabel   string               `yaml:"review_label" toml:"review_label"`
	ImageCategory string               `yaml:"image_category" toml:"image_category"`
	Finishes      []string             `yaml:"finishes" toml:"finishes"`
	Styles        []string             `yaml:"styles" toml:"styles"`
	Images        []models.ImageOption `yaml:"images" toml:"images"`
}
