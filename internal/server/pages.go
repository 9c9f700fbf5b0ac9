package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/renderers/html"
	"github.com/goliatone/go-needle-survey/pkg/sections"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

// Values posted by the page's navigation buttons.
const (
	formActionNext   = "next"
	formActionBack   = "back"
	formActionSubmit = "submit"
)

func pagePath(id string) string {
	return "/s/" + id
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	session := s.store.Create()
	http.Redirect(w, r, pagePath(session.ID), http.StatusSeeOther)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, ok := s.store.Get(id)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := html.PageFor(session.Controller, pagePath(id))
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, page); err != nil {
		s.logger.Error("render page failed", zap.String("session_id", id), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// The thank-you page is the last thing a session shows.
	if page.State.Submitted {
		s.store.Delete(id)
		s.logger.Debug("session closed", zap.String("session_id", id))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handlePagePost applies the posted fields of the active page as individual
// edits, runs the requested navigation, and redirects back to the page.
func (s *Server) handlePagePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, ok := s.store.Get(id)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	c := session.Controller
	if form, ok := c.ActiveForm(); ok {
		if err := sections.Apply(form, r.PostForm); err != nil {
			s.logger.Info("page edit rejected", zap.String("session_id", id), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var err error
	switch action := r.PostForm.Get("action"); action {
	case formActionNext:
		err = c.Advance()
	case formActionBack:
		err = c.Retreat()
	case formActionSubmit:
		// The dispatch outlives a dropped connection.
		_, err = c.Submit(context.WithoutCancel(r.Context()))
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	// A failed submission surfaces as a notice on the next render.
	if err != nil && !errors.Is(err, wizard.ErrSubmitFailed) {
		s.logger.Info("page action rejected", zap.String("session_id", id), zap.Error(err))
	}
	http.Redirect(w, r, pagePath(id), http.StatusSeeOther)
}
