package wizard

// Action names what a navigation control does.
type Action string

const (
	ActionAdvance Action = "advance"
	ActionRetreat Action = "retreat"
	ActionSubmit  Action = "submit"
)

const (
	LabelBack       = "Back"
	LabelNext       = "Next"
	LabelSubmit     = "Submit"
	LabelSubmitting = "Submitting..."
)

// Navigation describes the Back and primary buttons for the current step.
// Visible is false on the terminal page, which shows no controls.
type Navigation struct {
	Visible        bool   `json:"visible"`
	BackLabel      string `json:"backLabel"`
	BackEnabled    bool   `json:"backEnabled"`
	PrimaryLabel   string `json:"primaryLabel"`
	PrimaryAction  Action `json:"primaryAction"`
	PrimaryEnabled bool   `json:"primaryEnabled"`
}

// Navigation reports the controls for the current state.
func (c *Controller) Navigation() Navigation {
	return NavigationFor(c.State())
}

// NavigationFor derives the controls for a state snapshot.
func NavigationFor(state State) Navigation {
	if state.Submitted || state.Step >= StepSubmitted {
		return Navigation{}
	}
	nav := Navigation{
		Visible:        true,
		BackLabel:      LabelBack,
		BackEnabled:    state.Step > StepDemographics && !state.Submitting,
		PrimaryLabel:   LabelNext,
		PrimaryAction:  ActionAdvance,
		PrimaryEnabled: !state.Submitting,
	}
	if state.Step == StepPostEval {
		nav.PrimaryLabel = LabelSubmit
		nav.PrimaryAction = ActionSubmit
	}
	if state.Submitting {
		nav.PrimaryLabel = LabelSubmitting
	}
	return nav
}

// Perform runs a navigation action by name.
func (c *Controller) Perform(action Action) error {
	switch action {
	case ActionAdvance:
		return c.Advance()
	case ActionRetreat:
		return c.Retreat()
	default:
		return ErrInvalidTransition
	}
}
