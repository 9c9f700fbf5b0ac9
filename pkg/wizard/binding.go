package wizard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/model"
	"github.com/goliatone/go-needle-survey/pkg/sections"
)

// FormFor builds the page form for section, seeded with the current answers.
// Every edit on the returned form replaces the section in the controller and
// pushes the stored answers back into the form.
func (c *Controller) FormFor(section model.Section) (sections.Form, error) {
	response := c.State().Response
	switch section {
	case model.SectionDemographics:
		var form *sections.Demographics
		form = sections.NewDemographics(response.Demographics, func(data model.DemographicsAnswers) {
			if c.accept(section, c.UpdateDemographics(data)) {
				form.Receive(data)
			}
		})
		return form, nil
	case model.SectionWorkload:
		var form *sections.Workload
		form = sections.NewWorkload(response.Workload, func(data model.WorkloadAnswers) {
			if c.accept(section, c.UpdateWorkload(data)) {
				form.Receive(data)
			}
		})
		return form, nil
	case model.SectionPostEval:
		var form *sections.PostEval
		form = sections.NewPostEval(response.PostEval, func(data model.PostEvalAnswers) {
			if c.accept(section, c.UpdatePostEval(data)) {
				form.Receive(data)
			}
		})
		return form, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
}

// ActiveForm returns the form for the current step. It reports false on the
// terminal page.
func (c *Controller) ActiveForm() (sections.Form, bool) {
	section, ok := c.State().Step.Section()
	if !ok {
		return nil, false
	}
	form, err := c.FormFor(section)
	if err != nil {
		return nil, false
	}
	return form, true
}

func (c *Controller) accept(section model.Section, err error) bool {
	if err != nil {
		c.logger.Warn("section edit dropped", zap.String("section", string(section)), zap.Error(err))
		return false
	}
	return true
}
