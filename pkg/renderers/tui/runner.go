package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/sections"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

const (
	thankYouMessage = "Thank you for completing the survey!"
	skipLabel       = "Skip"
)

// Runner walks a participant through the wizard in a terminal: it prompts each
// field of the active page, then offers the page's navigation.
type Runner struct {
	controller *wizard.Controller
	driver     PromptDriver
	theme      Theme
	logger     *zap.Logger
	title      string
}

// NewRunner builds a runner for controller using the interactive driver
// unless one is supplied.
func NewRunner(controller *wizard.Controller, options ...Option) (*Runner, error) {
	if controller == nil {
		return nil, errors.New("tui: controller is nil")
	}
	r := &Runner{
		controller: controller,
		theme:      DefaultTheme,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Run prompts until the survey is submitted, the participant aborts or ctx is
// done. A failed submission leaves the participant on the final page to retry.
func (r *Runner) Run(ctx context.Context) error {
	if strings.TrimSpace(r.title) != "" {
		if err := r.info(ctx, r.title); err != nil {
			return err
		}
	}
	labels := wizard.StepLabels()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		state := r.controller.State()
		if state.Submitted {
			return r.info(ctx, thankYouMessage)
		}

		if err := r.info(ctx, fmt.Sprintf("Step %d of %d: %s", int(state.Step)+1, len(labels), state.Step)); err != nil {
			return err
		}
		form, ok := r.controller.ActiveForm()
		if !ok {
			return fmt.Errorf("tui: no form for %s", state.Step)
		}
		if err := r.promptForm(ctx, form); err != nil {
			return err
		}
		if err := r.navigate(ctx); err != nil {
			return err
		}
		if err := r.flushNotices(ctx); err != nil {
			return err
		}
	}
}

func (r *Runner) promptForm(ctx context.Context, form sections.Form) error {
	if err := r.info(ctx, form.Title()); err != nil {
		return err
	}
	fields := form.Fields()
	for i := range fields {
		field := fields[i]
		if !field.Visible {
			continue
		}
		answer, err := r.promptField(ctx, field)
		if err != nil {
			return err
		}
		if answer == field.Value {
			continue
		}
		if err := form.Edit(field.Name, answer); err != nil {
			return fmt.Errorf("tui: edit %s: %w", field.Name, err)
		}
		// Visibility can depend on the answer just given.
		fields = form.Fields()
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, field sections.Field) (string, error) {
	switch field.Kind {
	case sections.FieldKindChoice:
		// The leading entry keeps the current answer, which may be empty.
		labels := make([]string, 0, len(field.Options)+1)
		labels = append(labels, skipLabel)
		defaultIndex := 0
		for i, opt := range field.Options {
			labels = append(labels, opt.Label)
			if field.Value != "" && opt.Value == field.Value {
				defaultIndex = i + 1
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         field.Help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(labels) {
			return "", fmt.Errorf("%w: %s", ErrNoSelection, field.Name)
		}
		if idx == 0 {
			return field.Value, nil
		}
		return field.Options[idx-1].Value, nil
	case sections.FieldKindRating:
		control := sections.RatingControl{Min: field.Min, Max: field.Max, Step: field.Step}
		return r.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s - %s (%d = %s, %d = %s)", field.Group, field.Label, field.Min, field.MinLabel, field.Max, field.MaxLabel),
			Default: field.Value,
			Help:    field.Help,
			Validator: func(raw string) error {
				_, err := control.Position(raw)
				return err
			},
		})
	case sections.FieldKindTextArea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label,
			Default: field.Value,
			Help:    field.Help,
		})
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: field.Value,
			Help:    field.Help,
		})
	}
}

func (r *Runner) navigate(ctx context.Context) error {
	nav := r.controller.Navigation()
	if !nav.Visible {
		return nil
	}
	options := []string{nav.PrimaryLabel}
	actions := []wizard.Action{nav.PrimaryAction}
	if nav.BackEnabled {
		options = append(options, nav.BackLabel)
		actions = append(actions, wizard.ActionRetreat)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue",
		Options:      options,
		DefaultIndex: 0,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(actions) {
		return fmt.Errorf("%w: navigation", ErrNoSelection)
	}

	action := actions[idx]
	if action != wizard.ActionSubmit {
		return r.controller.Perform(action)
	}

	outcome, err := r.controller.Submit(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrSubmitFailed):
		r.logger.Warn("submission failed, participant may retry", zap.String("outcome", string(outcome)))
		return nil
	default:
		return err
	}
}

func (r *Runner) flushNotices(ctx context.Context) error {
	for _, notice := range r.controller.DrainNotices() {
		prefix := r.theme.InfoPrefix
		if notice.Kind == wizard.NoticeError {
			prefix = r.theme.ErrorPrefix
		}
		if err := r.info(ctx, prefix+notice.Message); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}
