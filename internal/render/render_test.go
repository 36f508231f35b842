package render

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

func sessionAt(t *testing.T, cat *catalog.Catalog, id string) *models.Session {
	t.Helper()
	i := cat.IndexOf(id)
	require.GreaterOrEqual(t, i, 0, id)
	return &models.Session{
		Form: cat.NewFormState(),
		Nav:  models.NavigationState{Index: i},
	}
}

func hasAction(v View, kind wizard.ActionKind, value string) bool {
	for _, a := range v.Actions {
		if a.Kind == kind && a.Value == value {
			return true
		}
	}
	return false
}

func buttonFor(v View, a wizard.Action) *Node {
	found := v.Body.FindAll(func(n *Node) bool {
		return n.Tag == "button" && n.Attrs["value"] == a.Encode()
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func TestWelcome(t *testing.T) {
	cat := catalog.Default()
	v := Step(cat, sessionAt(t, cat, "welcome"))

	assert.Equal(t, models.KindWelcome, v.Kind)
	assert.Empty(t, v.Progress)
	assert.Equal(t, "from desire to reality", v.Body.ByClass("welcome-title")[0].TextContent())
	assert.Equal(t, []wizard.Action{{Kind: wizard.ActionAdvance}}, v.Actions)
	assert.Empty(t, v.Body.ByClass("nav"))
}

func TestProgressAndNavigation(t *testing.T) {
	cat := catalog.Default()
	v := Step(cat, sessionAt(t, cat, "q3"))

	assert.Equal(t, "3 of 8", v.Progress)
	assert.Equal(t, 37, v.Percent)
	assert.Equal(t, "3 of 8", v.Body.ByClass("top-right")[0].TextContent())
	assert.True(t, hasAction(v, wizard.ActionRetreat, ""))
	assert.True(t, hasAction(v, wizard.ActionAdvance, ""))
	assert.Equal(t, "Continue", buttonFor(v, wizard.Action{Kind: wizard.ActionAdvance}).TextContent())
}

func TestValidationMessageOnlyWhenShown(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q1")

	v := Step(cat, sess)
	assert.Empty(t, v.Message)
	assert.Empty(t, v.Body.ByClass("validation-msg"))

	sess.Nav.ShowErrors = true
	v = Step(cat, sess)
	assert.Equal(t, wizard.MsgRanked, v.Message)
	require.Len(t, v.Body.ByClass("validation-msg"), 1)
	assert.Equal(t, wizard.MsgRanked, v.Body.ByClass("validation-msg")[0].TextContent())
}

func TestRankedRendering(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q1")

	v := Step(cat, sess)
	slots := v.Body.ByClass("tier-slot")
	require.Len(t, slots, 3)
	assert.Equal(t, "1st", slots[0].TextContent())
	assert.Equal(t, "2nd", slots[1].TextContent())
	assert.Equal(t, "3rd", slots[2].TextContent())

	sess.Form.ToggleRanked("Shoes", 3)
	sess.Form.ToggleRanked("Other", 3)
	sess.Form.ToggleRanked("Long Hanging", 3)
	v = Step(cat, sess)

	slots = v.Body.ByClass("tier-slot")
	assert.Equal(t, "Shoes", slots[0].TextContent())
	assert.Equal(t, "Long Hanging", slots[2].TextContent())

	shoes := buttonFor(v, wizard.Action{Kind: wizard.ActionToggleRanked, Value: "Shoes"})
	require.NotNil(t, shoes)
	assert.True(t, shoes.HasClass("selected"))
	assert.Equal(t, "1", shoes.ByClass("pill")[0].TextContent())

	// Unselected rows are disabled once the list is full
	disabled := v.Body.ByClass("disabled")
	require.Len(t, disabled, 3)
	for _, d := range disabled {
		_, ok := d.Attr("disabled")
		assert.True(t, ok)
	}
	assert.False(t, hasAction(v, wizard.ActionToggleRanked, "Folded Clothes"))
}

func TestBalanceRendering(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q2")
	sess.Form.SetBalance(30)

	v := Step(cat, sess)
	assert.Equal(t, "70% Hanging · 30% Shelving", v.Body.ByID("balance-readout").TextContent())
	assert.Equal(t, "width:30%", v.Body.ByID("balance-fill").Attrs["style"])

	slider := v.Body.ByID("balance-slider")
	assert.Equal(t, "30", slider.Attrs["value"])
	assert.Equal(t, BalanceField, slider.Attrs["name"])

	preset := buttonFor(v, wizard.Action{Kind: wizard.ActionSetBalance, Value: "25"})
	require.NotNil(t, preset)
	assert.Equal(t, "MostlyHanging", preset.TextContent())
	assert.Len(t, preset.FindAll(func(n *Node) bool { return n.Tag == "br" }), 1)
}

func TestImageGridRendering(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q4")
	sess.Form.SetSingle("Natural Oak")

	v := Step(cat, sess)
	cards := v.Body.ByClass("card")
	assert.Len(t, cards, 12)

	selected := v.Body.ByClass("selected")
	require.Len(t, selected, 1)
	assert.Equal(t, "Natural Oak", selected[0].ByClass("card-label")[0].TextContent())
	assert.Equal(t, "true", selected[0].Attrs["aria-pressed"])

	img := cards[0].FindAll(func(n *Node) bool { return n.Tag == "img" })[0]
	assert.Equal(t, "/assets/images/materials/white-most-popular.jpg", img.Attrs["src"])
}

func TestDualGridRendering(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q5")
	sess.Form.SetDual("hanging_rods", "Black · Style 2")

	v := Step(cat, sess)
	heads := v.Body.ByClass("split-head")
	require.Len(t, heads, 2)
	assert.Equal(t, "Pulls / Handles", heads[0].TextContent())

	assert.Len(t, v.Body.ByClass("hw-card"), 16)
	assert.True(t, hasAction(v, wizard.ActionSelectDual, wizard.Pair("pulls_handles", "Gold · Style 1")))

	selected := v.Body.ByClass("selected")
	require.Len(t, selected, 1)
	assert.Equal(t, "select_dual|hanging_rods=Black · Style 2", selected[0].Attrs["value"])
}

func TestFreeTextCounter(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q6")
	sess.Form.SetText("Island", 500)

	v := Step(cat, sess)
	assert.Equal(t, "6 / 500", v.Body.ByClass("counter")[0].TextContent())

	area := v.Body.ByID("text-input")
	assert.Equal(t, "500", area.Attrs["maxlength"])
	assert.Equal(t, "Island", area.TextContent())
}

func TestBinaryPromptOnlyForYes(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q7")

	v := Step(cat, sess)
	assert.Nil(t, v.Body.ByID("binary-prompt"))

	sess.Form.SetBinary(models.BinaryNo)
	assert.Nil(t, Step(cat, sess).Body.ByID("binary-prompt"))

	sess.Form.SetBinary(models.BinaryYes)
	v = Step(cat, sess)
	prompt := v.Body.ByID("binary-prompt")
	require.NotNil(t, prompt)
	assert.Contains(t, prompt.TextContent(), catalog.StudioContactEmail)
	assert.Contains(t, prompt.TextContent(), catalog.StudioContactPhone)
}

func TestContactRendering(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "contact")
	sess.Form.Contact.Name = "Ana"

	v := Step(cat, sess)
	assert.Equal(t, "Ana", v.Body.ByID("contact-name").Attrs["value"])
	assert.Equal(t, "email", v.Body.ByID("contact-email").Attrs["type"])

	active := v.Body.ByClass("active")
	require.Len(t, active, 1)
	assert.Equal(t, "Email", active[0].TextContent())
	assert.True(t, hasAction(v, wizard.ActionSetContactMethod, "Text"))
}

func TestReviewRendering(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "review")
	sess.Form.ToggleRanked("Shoes", 3)
	sess.Form.ToggleRanked("Long Hanging", 3)

	v := Step(cat, sess)
	cards := v.Body.ByClass("review-card")
	require.Len(t, cards, 8)
	assert.Equal(t, "PRIORITIES", cards[0].ByClass("review-k")[0].TextContent())
	assert.Equal(t, "Shoes, Long Hanging", cards[0].ByClass("review-v")[0].TextContent())

	for _, id := range []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "contact"} {
		assert.True(t, hasAction(v, wizard.ActionEdit, id), id)
	}
	finish := buttonFor(v, wizard.Action{Kind: wizard.ActionFinish})
	require.NotNil(t, finish)
	assert.Equal(t, "Generate Summary", finish.TextContent())
	assert.False(t, hasAction(v, wizard.ActionAdvance, ""))
}

func TestThanksLabel(t *testing.T) {
	assert.Equal(t, "Share Summary", Thanks(true).Body.ByID("ty-share-btn").TextContent())
	assert.Equal(t, "Download Summary", Thanks(false).Body.ByID("ty-share-btn").TextContent())
	assert.Empty(t, Thanks(true).Actions)
}

func TestFailureRetry(t *testing.T) {
	v := Failure("The summary could not be generated.", true)
	assert.Len(t, v.Body.FindAll(func(n *Node) bool { return n.Attrs["formaction"] == "deliver" }), 1)

	v = Failure("Session not found.", false)
	assert.Empty(t, v.Body.FindAll(func(n *Node) bool { return n.Tag == "button" }))
	links := v.Body.FindAll(func(n *Node) bool { return n.Tag == "a" })
	require.Len(t, links, 1)
	assert.Equal(t, "/", links[0].Attrs["href"])
	assert.Equal(t, KindError, v.Kind)
}

func TestFieldActions(t *testing.T) {
	cat := catalog.Default()
	values := url.Values{
		"balance": {"40"},
		"text":    {"hello"},
		"name":    {"Ana"},
		"email":   {"ana@example.com"},
	}

	step, _ := cat.Step(cat.IndexOf("q2"))
	assert.Equal(t, []wizard.Action{{Kind: wizard.ActionSetBalance, Value: "40"}}, FieldActions(step, values))

	step, _ = cat.Step(cat.IndexOf("q6"))
	assert.Equal(t, []wizard.Action{{Kind: wizard.ActionSetText, Value: "hello"}}, FieldActions(step, values))

	step, _ = cat.Step(cat.IndexOf("contact"))
	assert.Equal(t, []wizard.Action{
		{Kind: wizard.ActionSetContactField, Value: "name=Ana"},
		{Kind: wizard.ActionSetContactField, Value: "email=ana@example.com"},
	}, FieldActions(step, values))

	step, _ = cat.Step(cat.IndexOf("q1"))
	assert.Empty(t, FieldActions(step, values))
}

func TestEveryButtonIsAnAction(t *testing.T) {
	cat := catalog.Default()
	for i := 0; i < cat.Len(); i++ {
		sess := &models.Session{Form: cat.NewFormState(), Nav: models.NavigationState{Index: i}}
		v := Step(cat, sess)

		buttons := v.Body.FindAll(func(n *Node) bool {
			_, disabled := n.Attr("disabled")
			return n.Tag == "button" && !disabled
		})
		assert.Len(t, v.Actions, len(buttons), v.StepID)
		for _, btn := range buttons {
			_, err := wizard.ParseAction(btn.Attrs["value"])
			assert.NoError(t, err, v.StepID)
		}
	}
}

func TestWritePage(t *testing.T) {
	cat := catalog.Default()
	sess := sessionAt(t, cat, "q1")
	sess.Nav.ShowErrors = true

	var b strings.Builder
	require.NoError(t, WritePage(&b, Step(cat, sess)))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html lang=\"en\">"))
	assert.Contains(t, out, `<form class="app" data-step="q1" method="post">`)
	assert.Contains(t, out, `<input name="step" type="hidden" value="q1"/>`)
	assert.Contains(t, out, `name="do" type="submit" value="toggle_ranked|Bags &amp; Purses"`)
	assert.Contains(t, out, wizard.MsgRanked)
	assert.Contains(t, out, `<script defer="" src="/static/live.js"></script>`)
}
