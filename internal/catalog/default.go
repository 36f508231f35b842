package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/terra-clan/closet-profile/internal/models"
)

// Studio contact details printed on the inspiration panel and the PDF footer
const (
	StudioContactName  = "Rangel Pineda"
	StudioContactEmail = "rangelp@desirecabinets.com"
	StudioContactPhone = "678-709-3790"
)

var (
	finishes = []string{"Gold", "Black", "Chrome", "Brushed Nickel"}
	styles   = []string{"Style 1", "Style 2"}

	slugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// Default returns the built-in closet profile flow
func Default() *Catalog {
	materials := []string{"Black", "Costland Oak", "Gray", "Maple", "Moscato Elme", "Natural Oak",
		"Pewter Pine", "Regal Cherry", "Sable Glow", "Spring Blossom", "Umbria Elme"}
	sortFold(materials)
	materials = append([]string{"White (most popular)"}, materials...)

	steps := []models.StepDescriptor{
		{
			ID: "welcome",
			Payload: &models.WelcomePayload{
				Headline: []string{"from desire to ", "reality"},
				Subtext:  "Tell us what matters most — so we can design a closet that's truly yours.",
				CTA:      "Begin",
			},
		},
		{
			ID:                "q1",
			Number:            1,
			Section:           "PRIORITIES",
			Title:             "What do you need the most space for?",
			Subtitle:          "Tap up to 3 priorities. They'll be numbered in the order you tap.",
			ValidationMessage: "Please select at least one priority to continue.",
			Payload: &models.RankedPayload{
				Options:  AlphaOtherLast([]string{"Bags & Purses", "Folded Clothes", "Long Hanging", "Shoes", "Short Hanging", "Other"}),
				MaxPicks: models.DefaultMaxPicks,
			},
		},
		{
			ID:       "q2",
			Number:   2,
			Section:  "BALANCE",
			Title:    "Hanging space vs. shelving — what's your balance?",
			Subtitle: "Slide to set your ideal ratio.",
			Payload: &models.BalancePayload{
				Min:     models.BalanceMin,
				Max:     models.BalanceMax,
				Default: models.DefaultBalance,
				Presets: []models.Preset{
					{Label: "Mostly\nHanging", Shelving: 25},
					{Label: "Balanced\n50/50", Shelving: 50},
					{Label: "Mostly\nShelving", Shelving: 75},
				},
			},
		},
		{
			ID:       "q3",
			Number:   3,
			Section:  "FEATURES",
			Title:    "Which features are important to you?",
			Subtitle: "Select all that apply.",
			Payload: &models.MultiSelectPayload{
				Options: AlphaOtherLast([]string{"Belt & Tie Rack", "Drawers", "Hamper", "LED Lighting", "Mirrors", "Other"}),
			},
		},
		{
			ID:                "q4",
			Number:            4,
			Section:           "MATERIALS",
			Title:             "What material finish speaks to you?",
			Subtitle:          "Select one that matches your vision.",
			ValidationMessage: "Please select a material finish to continue.",
			Payload:           &models.ImageGridPayload{Options: MaterialOptions("images/materials", materials)},
		},
		{
			ID:                "q5",
			Number:            5,
			Section:           "HARDWARE",
			Title:             "Let's talk about hardware.",
			Subtitle:          "Select your preferred option for each.",
			ValidationMessage: "Please select both a pull/handle and hanging rod style to continue.",
			Payload: &models.DualGridPayload{
				Categories: [2]models.Category{
					{
						ID:          "pulls_handles",
						Heading:     "Pulls / Handles",
						ReviewLabel: "Pulls/Handles",
						Options:     HardwareOptions("pulls-handles", finishes, styles),
					},
					{
						ID:          "hanging_rods",
						Heading:     "Hanging Rods",
						ReviewLabel: "Hanging Rods",
						Options:     HardwareOptions("hanging-rods", finishes, styles),
					},
				},
			},
		},
		{
			ID:       "q6",
			Number:   6,
			Section:  "DETAILS",
			Title:    "Anything else we should know?",
			Subtitle: "Tell us about your dream closet — special needs, ideas, must-haves. This is optional.",
			Payload:  &models.FreeTextPayload{Max: 500, Placeholder: "Type here…"},
		},
		{
			ID:                "q7",
			Number:            7,
			Section:           "INSPIRATION",
			Title:             "Do you have inspiration photos?",
			Subtitle:          "Pinterest boards, Instagram saves — anything that captures your vision.",
			ValidationMessage: "Please select Yes or No to continue.",
			Payload: &models.BinaryPayload{
				YesLabel:    "Yes",
				NoLabel:     "No",
				PromptTitle: "Wonderful! Please send your photos or links to:",
				Email:       StudioContactEmail,
				Phone:       StudioContactPhone,
			},
		},
		{
			ID:                "contact",
			Number:            8,
			Section:           "CONTACT",
			Title:             "Almost done!",
			Subtitle:          "How should we reach you?",
			ValidationMessage: "Please fill in your name, email, and address to continue.",
			Payload: &models.ContactPayload{
				Methods:       []string{"Email", "Phone", "Text"},
				DefaultMethod: "Email",
			},
		},
		{
			ID:       "review",
			Section:  "REVIEW",
			Title:    "Review Your Answers",
			Subtitle: "Everything look good?",
			Payload:  &models.ReviewPayload{CTA: "Generate Summary"},
		},
	}

	c, err := New(steps)
	if err != nil {
		panic("catalog: built-in flow is invalid: " + err.Error())
	}
	return c
}

// AlphaOtherLast sorts options case-insensitively and moves "Other" to the end
func AlphaOtherLast(options []string) []string {
	core := make([]string, 0, len(options))
	hasOther := false
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), "other") {
			hasOther = true
			continue
		}
		core = append(core, o)
	}
	sortFold(core)
	if hasOther {
		core = append(core, "Other")
	}
	return core
}

// MaterialOptions builds image cards whose image path is derived from the label
func MaterialOptions(dir string, names []string) []models.ImageOption {
	out := make([]models.ImageOption, 0, len(names))
	for _, name := range names {
		out = append(out, models.ImageOption{Label: name, Image: dir + "/" + Slug(name) + ".jpg"})
	}
	return out
}

// HardwareOptions builds the finish × style cards for one hardware category
func HardwareOptions(category string, finishes, styles []string) []models.ImageOption {
	out := make([]models.ImageOption, 0, len(finishes)*len(styles))
	for _, fin := range finishes {
		for _, st := range styles {
			out = append(out, models.ImageOption{
				Label: fin + " · " + st,
				Image: "images/hardware/" + category + "-" + Slug(fin) + "-" + Slug(st) + ".jpg",
			})
		}
	}
	return out
}

// Slug lowercases s and joins alphanumeric runs with dashes
func Slug(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func sortFold(list []string) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i]) < strings.ToLower(list[j])
	})
}
