package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/model"
	"github.com/goliatone/go-needle-survey/pkg/submission"
)

var (
	// ErrInvalidTransition reports a navigation request the current step does
	// not allow.
	ErrInvalidTransition = errors.New("wizard: invalid transition")
	// ErrUnknownSection reports a section name or payload the response does
	// not have.
	ErrUnknownSection = errors.New("wizard: unknown section")
	// ErrSubmitted reports a mutation attempted after the response was sent.
	ErrSubmitted = errors.New("wizard: survey already submitted")
	// ErrNotFinalStep reports a submit attempted before the final page.
	ErrNotFinalStep = errors.New("wizard: submit is only available on the final step")
	// ErrSubmitInFlight reports a submit attempted while another is pending.
	ErrSubmitInFlight = errors.New("wizard: submission already in progress")
	// ErrSubmitFailed reports that the submission client could not dispatch
	// the response. The cause is logged, not returned.
	ErrSubmitFailed = errors.New("wizard: submission failed")
)

// Step identifies the page the wizard is showing.
type Step int

const (
	StepDemographics Step = iota
	StepWorkload
	StepPostEval
	// StepSubmitted is the terminal thank-you page.
	StepSubmitted
)

var stepLabels = [...]string{"Demographics", "NASA-TLX", "Post-Session Evaluation"}

// StepLabels returns the stepper captions for the three survey pages.
func StepLabels() []string {
	return append([]string(nil), stepLabels[:]...)
}

// Section returns the survey section shown on s. The terminal step has none.
func (s Step) Section() (model.Section, bool) {
	switch s {
	case StepDemographics:
		return model.SectionDemographics, true
	case StepWorkload:
		return model.SectionWorkload, true
	case StepPostEval:
		return model.SectionPostEval, true
	default:
		return "", false
	}
}

func (s Step) String() string {
	if s >= StepDemographics && int(s) < len(stepLabels) {
		return stepLabels[s]
	}
	if s == StepSubmitted {
		return "Submitted"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Outcome summarises a Submit call.
type Outcome string

const (
	// OutcomeRejected means Submit refused to start; nothing was dispatched.
	OutcomeRejected  Outcome = "rejected"
	OutcomeSubmitted Outcome = "submitted"
	OutcomeFailed    Outcome = "failed"
)

// State is a snapshot of the wizard.
type State struct {
	Step       Step                 `json:"step"`
	Submitting bool                 `json:"submitting"`
	Submitted  bool                 `json:"submitted"`
	Response   model.SurveyResponse `json:"response"`
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier registers a callback for user-visible acknowledgements.
func WithNotifier(notifier Notifier) Option {
	return func(c *Controller) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithResponse seeds the controller with existing answers.
func WithResponse(response model.SurveyResponse) Option {
	return func(c *Controller) {
		c.response = response
	}
}

// Controller owns one survey response and the page the participant is on.
// All methods are safe for concurrent use; the submission client is called
// without holding the lock.
type Controller struct {
	mu         sync.Mutex
	step       Step
	submitting bool
	submitted  bool
	response   model.SurveyResponse
	notices    []Notice

	client   submission.Client
	now      func() time.Time
	logger   *zap.Logger
	notifier Notifier
}

// New returns a controller on the first page with an empty response. A nil
// client falls back to the default Apps Script endpoint.
func New(client submission.Client, options ...Option) *Controller {
	c := &Controller{
		response: model.NewSurveyResponse(),
		client:   client,
		now:      time.Now,
		logger:   zap.NewNop(),
		notifier: NotifierFunc(func(Notice) {}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.client == nil {
		c.client = submission.NewHTTPClient(submission.WithLogger(c.logger))
	}
	return c
}

// State returns a copy of the current wizard state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	return State{
		Step:       c.step,
		Submitting: c.submitting,
		Submitted:  c.submitted,
		Response:   c.response,
	}
}

// Advance moves to the next survey page. Answers are never checked first.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting || c.step >= StepPostEval {
		return fmt.Errorf("%w: advance from %s", ErrInvalidTransition, c.step)
	}
	c.step++
	c.logger.Debug("wizard advanced", zap.Stringer("step", c.step))
	return nil
}

// Retreat moves to the previous survey page. The terminal page has no way
// back.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting || c.step <= StepDemographics || c.step >= StepSubmitted {
		return fmt.Errorf("%w: retreat from %s", ErrInvalidTransition, c.step)
	}
	c.step--
	c.logger.Debug("wizard retreated", zap.Stringer("step", c.step))
	return nil
}

// UpdateSection replaces one section of the response wholesale. data must be
// the section's answers type (value or pointer).
func (c *Controller) UpdateSection(section model.Section, data any) error {
	switch section {
	case model.SectionDemographics:
		switch v := data.(type) {
		case model.DemographicsAnswers:
			return c.UpdateDemographics(v)
		case *model.DemographicsAnswers:
			if v != nil {
				return c.UpdateDemographics(*v)
			}
		}
	case model.SectionWorkload:
		switch v := data.(type) {
		case model.WorkloadAnswers:
			return c.UpdateWorkload(v)
		case *model.WorkloadAnswers:
			if v != nil {
				return c.UpdateWorkload(*v)
			}
		}
	case model.SectionPostEval:
		switch v := data.(type) {
		case model.PostEvalAnswers:
			return c.UpdatePostEval(v)
		case *model.PostEvalAnswers:
			if v != nil {
				return c.UpdatePostEval(*v)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return fmt.Errorf("%w: %T is not %s data", ErrUnknownSection, data, section)
}

// UpdateDemographics replaces the demographics section.
func (c *Controller) UpdateDemographics(data model.DemographicsAnswers) error {
	return c.update(model.SectionDemographics, func(r *model.SurveyResponse) { r.Demographics = data })
}

// UpdateWorkload replaces the NASA-TLX section.
func (c *Controller) UpdateWorkload(data model.WorkloadAnswers) error {
	return c.update(model.SectionWorkload, func(r *model.SurveyResponse) { r.Workload = data })
}

// UpdatePostEval replaces the post-session section.
func (c *Controller) UpdatePostEval(data model.PostEvalAnswers) error {
	return c.update(model.SectionPostEval, func(r *model.SurveyResponse) { r.PostEval = data })
}

func (c *Controller) update(section model.Section, apply func(*model.SurveyResponse)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return fmt.Errorf("%w: update %s", ErrSubmitted, section)
	}
	apply(&c.response)
	return nil
}

// Submit sends the response when the wizard is on its final page. The
// timestamp is written before dispatch and kept whatever the outcome. On
// success the wizard moves to the terminal page; on failure it stays put so
// the participant can retry.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	switch {
	case c.submitted:
		c.mu.Unlock()
		return OutcomeRejected, ErrSubmitted
	case c.submitting:
		c.mu.Unlock()
		return OutcomeRejected, ErrSubmitInFlight
	case c.step != StepPostEval:
		step := c.step
		c.mu.Unlock()
		return OutcomeRejected, fmt.Errorf("%w: on %s", ErrNotFinalStep, step)
	}
	c.submitting = true
	c.response.Stamp(c.now())
	payload := c.response
	c.mu.Unlock()

	c.logger.Info("submitting survey",
		zap.String("participant_id", payload.Demographics.ParticipantID),
		zap.String("timestamp", payload.Timestamp),
	)
	err := c.dispatch(ctx, payload)

	c.mu.Lock()
	c.submitting = false
	var notice Notice
	if err != nil {
		notice = Notice{Kind: NoticeError, Message: MessageSubmitFailed}
	} else {
		c.submitted = true
		c.step = StepSubmitted
		notice = Notice{Kind: NoticeSuccess, Message: MessageSubmitted}
	}
	c.notices = append(c.notices, notice)
	c.mu.Unlock()

	c.notifier.Notify(notice)

	if err != nil {
		c.logger.Error("survey submission failed", zap.Error(err))
		return OutcomeFailed, ErrSubmitFailed
	}
	c.logger.Info("survey submitted", zap.String("participant_id", payload.Demographics.ParticipantID))
	return OutcomeSubmitted, nil
}

func (c *Controller) dispatch(ctx context.Context, payload model.SurveyResponse) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wizard: submission client panic: %v", r)
		}
	}()
	return c.client.Submit(ctx, payload)
}
