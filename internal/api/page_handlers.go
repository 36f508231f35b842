package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/closet-profile/internal/delivery"
	"github.com/terra-clan/closet-profile/internal/models"
	"github.com/terra-clan/closet-profile/internal/render"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

// Page URLs end in a slash so relative form actions resolve below the token
func pageURL(token string) string {
	return "/s/" + token + "/"
}

func thanksURL(token string) string {
	return "/s/" + token + "/thanks"
}

func writePage(w http.ResponseWriter, status int, v render.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := render.WritePage(w, v); err != nil {
		slog.Error("failed to write page", "step", v.StepID, "error", err)
	}
}

func writePageError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, _ := errorStatus(err)

	var v render.View
	switch status {
	case http.StatusNotFound:
		v = render.Failure("This questionnaire link is not valid.", false)
	case http.StatusGone:
		v = render.Failure("This questionnaire has expired. Please start over.", false)
	default:
		slog.Error("page request failed", "error", err, "path", maskPath(r.URL.Path))
		status = http.StatusInternalServerError
		v = render.Failure("Please try again in a moment.", false)
	}
	writePage(w, status, v)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Create(r.Context())
	if err != nil {
		writePageError(w, r, err)
		return
	}
	http.Redirect(w, r, pageURL(sess.Token), http.StatusSeeOther)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess.IsCompleted() {
		http.Redirect(w, r, thanksURL(sess.Token), http.StatusSeeOther)
		return
	}
	writePage(w, http.StatusOK, render.Step(s.manager.Catalog(), sess))
}

// handlePagePost applies the submitted field values and then the pressed
// button. Submissions that no longer fit the session are dropped and the
// client is sent back to the active step.
func (s *Server) handlePagePost(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := r.ParseForm(); err != nil {
		slog.Warn("invalid form submission", "error", err, "path", maskPath(r.URL.Path))
		http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
		return
	}

	sess, err := s.manager.Get(r.Context(), token)
	if err != nil {
		writePageError(w, r, err)
		return
	}
	if sess.IsCompleted() {
		http.Redirect(w, r, thanksURL(token), http.StatusSeeOther)
		return
	}

	step := s.manager.Wizard(sess).Current()
	if posted := r.PostForm.Get(render.StepField); posted != "" && posted != step.ID {
		slog.Debug("stale submission ignored", "token", sess.MaskedToken(), "posted", posted, "active", step.ID)
		http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
		return
	}

	actions := render.FieldActions(step, r.PostForm)
	if do := r.PostForm.Get(render.ActionField); do != "" {
		a, err := wizard.ParseAction(do)
		if err != nil {
			slog.Warn("invalid action submitted", "error", err, "token", sess.MaskedToken())
			http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
			return
		}
		actions = append(actions, a)
	}
	if len(actions) == 0 {
		http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
		return
	}

	sess, err = s.manager.Apply(r.Context(), token, actions...)
	switch {
	case err == nil, errors.Is(err, wizard.ErrIncomplete):
	case errors.Is(err, wizard.ErrInvalidAction), errors.Is(err, wizard.ErrStepNotFound):
		slog.Warn("submission rejected", "error", err, "token", models.MaskToken(token))
		http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
		return
	default:
		writePageError(w, r, err)
		return
	}

	if sess.IsCompleted() {
		http.Redirect(w, r, thanksURL(token), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
}

func (s *Server) handleThanks(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if !sess.IsCompleted() {
		http.Redirect(w, r, pageURL(sess.Token), http.StatusSeeOther)
		return
	}

	device := delivery.ClassifyDevice(r.UserAgent())
	canShare := s.delivery.MethodFor(device) == delivery.MethodShare
	writePage(w, http.StatusOK, render.Thanks(canShare))
}

// handleDeliver exports the summary and shares or downloads it. A failed
// export answers with a page that offers to try again.
func (s *Server) handleDeliver(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	doc, sess, err := s.manager.Export(r.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, wizard.ErrNotCompleted):
		http.Redirect(w, r, pageURL(token), http.StatusSeeOther)
		return
	case errors.Is(err, wizard.ErrExportInProgress):
		writePage(w, http.StatusConflict,
			render.Failure("Your summary is already being prepared. Please try again in a moment.", true))
		return
	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, wizard.ErrSessionExpired):
		writePageError(w, r, err)
		return
	default:
		writePage(w, http.StatusInternalServerError,
			render.Failure("We could not create your summary.", true))
		return
	}

	req := delivery.Request{
		Document: doc,
		Filename: delivery.Filename(sess.Form.Contact.Name, doc.GeneratedAt),
		Title:    delivery.ShareTitle,
		Contact:  sess.Form.Contact,
	}
	device := delivery.ClassifyDevice(r.UserAgent())

	method, err := s.delivery.Deliver(r.Context(), req, device, delivery.HTTPDownload{W: w})
	if err != nil {
		// Headers are already out; nothing left to tell the client.
		slog.Error("summary delivery failed", "error", err, "method", method, "token", sess.MaskedToken())
		return
	}

	if method == delivery.MethodShare {
		writePage(w, http.StatusOK, render.Notice("Summary sent.",
			"Your summary is on its way to Desire Cabinets. A copy was sent to you as well.", false))
	}
}
