package render

import (
	"io"
)

// Static files served from the embedded web bundle
const (
	StylesheetPath = "/static/app.css"
	ScriptPath     = "/static/live.js"
)

// StepField carries the step a page was rendered for, so a submission from a
// stale page can be told apart from one for the active step
const StepField = "step"

// Document wraps a view in a complete HTML page. The whole body sits in one
// form so that field inputs are posted with every button press.
func Document(v View) *Node {
	title := "Closet Profile"
	if v.Title != "" {
		title = v.Title + " · " + title
	}

	return El("html", "",
		El("head", "",
			El("meta", "").Set("charset", "utf-8"),
			El("meta", "").Set("name", "viewport").Set("content", "width=device-width, initial-scale=1"),
			El("title", "", Txt(title)),
			El("link", "").Set("rel", "stylesheet").Set("href", StylesheetPath),
		),
		El("body", "",
			El("form", "app",
				El("input", "").Set("type", "hidden").Set("name", StepField).Set("value", v.StepID),
				v.Body,
			).
				Set("method", "post").
				Set("data-step", v.StepID),
			El("script", "").Set("src", ScriptPath).Set("defer", ""),
		),
	).Set("lang", "en")
}

// WritePage writes the view as a full HTML document
func WritePage(w io.Writer, v View) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return Document(v).WriteHTML(w)
}
