package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/model"
	"github.com/goliatone/go-needle-survey/pkg/sections"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

const maxBodyBytes = 1 << 20

var (
	errUnknownSession = errors.New("server: unknown session")
	errBadRequest     = errors.New("server: bad request")
)

type sessionView struct {
	ID         string            `json:"id"`
	State      wizard.State      `json:"state"`
	Navigation wizard.Navigation `json:"navigation"`
	Form       *formView         `json:"form,omitempty"`
	Notices    []wizard.Notice   `json:"notices"`
	Outcome    wizard.Outcome    `json:"outcome,omitempty"`
}

type formView struct {
	Section model.Section    `json:"section"`
	Title   string           `json:"title"`
	Fields  []sections.Field `json:"fields"`
}

type fieldEdit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type errorBody struct {
	Error string `json:"error"`
}

// viewFor snapshots a session. Pending notices are drained into the view.
func viewFor(session *Session) sessionView {
	c := session.Controller
	state := c.State()
	view := sessionView{
		ID:         session.ID,
		State:      state,
		Navigation: wizard.NavigationFor(state),
		Notices:    c.DrainNotices(),
	}
	if view.Notices == nil {
		view.Notices = []wizard.Notice{}
	}
	if form, ok := c.ActiveForm(); ok {
		view.Form = &formView{
			Section: form.Section(),
			Title:   form.Title(),
			Fields:  form.Fields(),
		}
	}
	return view
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	session := s.store.Create()
	w.Header().Set("Location", "/api/sessions/"+session.ID)
	writeJSON(w, http.StatusCreated, viewFor(session))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewFor(session))
}

// replaceSection overwrites one section with the request body.
func (s *Server) replaceSection(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	section, err := parseSection(r.PathValue("section"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var data any
	switch section {
	case model.SectionDemographics:
		var answers model.DemographicsAnswers
		err = decodeJSON(r, &answers)
		data = answers
	case model.SectionWorkload:
		var answers model.WorkloadAnswers
		if err = decodeJSON(r, &answers); err == nil {
			err = checkRatings(answers)
		}
		data = answers
	case model.SectionPostEval:
		var answers model.PostEvalAnswers
		err = decodeJSON(r, &answers)
		data = answers
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := session.Controller.UpdateSection(section, data); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFor(session))
}

// editField applies a single control edit, exactly as a page would.
func (s *Server) editField(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	section, err := parseSection(r.PathValue("section"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var edit fieldEdit
	if err := decodeJSON(r, &edit); err != nil {
		s.writeError(w, err)
		return
	}

	c := session.Controller
	if c.State().Submitted {
		s.writeError(w, wizard.ErrSubmitted)
		return
	}
	form, err := c.FormFor(section)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := form.Edit(edit.Field, edit.Value); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFor(session))
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*wizard.Controller).Advance)
}

func (s *Server) retreat(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*wizard.Controller).Retreat)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, move func(*wizard.Controller) error) {
	session, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	if err := move(session.Controller); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFor(session))
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	outcome, err := session.Controller.Submit(context.WithoutCancel(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	view := viewFor(session)
	view.Outcome = outcome
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := r.PathValue("id")
	session, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, fmt.Errorf("%w: %q", errUnknownSession, id))
		return nil, false
	}
	return session, true
}

func parseSection(raw string) (model.Section, error) {
	section, err := model.ParseSection(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", wizard.ErrUnknownSection, err)
	}
	return section, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

// checkRatings rejects wholesale workload updates with values a rating
// control could never produce.
func checkRatings(answers model.WorkloadAnswers) error {
	for _, technique := range model.Techniques() {
		for _, metric := range model.Metrics() {
			value, _ := answers.Rating(technique, metric)
			if value < model.RatingMin || value > model.RatingMax {
				return fmt.Errorf("%w: %s.%s must be between %d and %d", errBadRequest, technique, metric, model.RatingMin, model.RatingMax)
			}
		}
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrSubmitFailed):
		return http.StatusBadGateway
	case errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrSubmitted),
		errors.Is(err, wizard.ErrNotFinalStep):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, wizard.ErrUnknownSection),
		errors.Is(err, sections.ErrUnknownField),
		errors.Is(err, sections.ErrNotANumber):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("api request failed", zap.Error(err))
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("write json response", zap.Error(err))
	}
}
