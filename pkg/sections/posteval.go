package sections

import "github.com/goliatone/go-needle-survey/pkg/model"

const (
	FieldPreferredTechnique       = "preferredTechnique"
	FieldPreferredTechniqueReason = "preferredTechniqueReason"
	FieldMostAccurateTechnique    = "mostAccurateTechnique"
	FieldMostAccurateReason       = "mostAccurateReason"
	FieldClinicalChoice           = "clinicalChoice"
	FieldClinicalChoiceReason     = "clinicalChoiceReason"
)

// PostEval is the post-session evaluation page. It keeps no answers of its
// own: every edit is built from the data last received from the parent, so the
// parent must push its updated section back (Receive) before the next edit or
// that edit will overwrite the previous one.
type PostEval struct {
	received model.PostEvalAnswers
	onChange func(model.PostEvalAnswers)
}

var _ Form = (*PostEval)(nil)

// NewPostEval renders the page from the parent's current answers.
func NewPostEval(received model.PostEvalAnswers, onChange func(model.PostEvalAnswers)) *PostEval {
	return &PostEval{received: received, onChange: onChange}
}

func (f *PostEval) Section() model.Section { return model.SectionPostEval }

func (f *PostEval) Title() string { return "Post-Session Evaluation" }

// Receive records the parent's latest answers.
func (f *PostEval) Receive(data model.PostEvalAnswers) {
	f.received = data
}

type postEvalQuestion struct {
	choice, reason string
	label          string
}

var postEvalQuestions = []postEvalQuestion{
	{
		choice: FieldPreferredTechnique,
		reason: FieldPreferredTechniqueReason,
		label:  "Which technique did you prefer overall?",
	},
	{
		choice: FieldMostAccurateTechnique,
		reason: FieldMostAccurateReason,
		label:  "With which technique do you feel you were most accurate in targeting the posterior calyx?",
	},
	{
		choice: FieldClinicalChoice,
		reason: FieldClinicalChoiceReason,
		label:  "Which technique would you choose for a real clinical case, and why?",
	},
}

func (f *PostEval) Fields() []Field {
	fields := make([]Field, 0, len(postEvalQuestions)*2)
	for _, q := range postEvalQuestions {
		fields = append(fields,
			Field{
				Name:    q.choice,
				Kind:    FieldKindChoice,
				Label:   q.label,
				Group:   q.choice,
				Options: model.TechniqueOptions(),
				Value:   f.value(q.choice),
				Visible: true,
			},
			Field{
				Name:    q.reason,
				Kind:    FieldKindTextArea,
				Label:   "Optional: Why?",
				Group:   q.choice,
				Value:   f.value(q.reason),
				Visible: true,
			},
		)
	}
	return fields
}

func (f *PostEval) Edit(name, raw string) error {
	next := f.received
	switch name {
	case FieldPreferredTechnique:
		next.PreferredTechnique = raw
	case FieldPreferredTechniqueReason:
		next.PreferredTechniqueReason = raw
	case FieldMostAccurateTechnique:
		next.MostAccurateTechnique = raw
	case FieldMostAccurateReason:
		next.MostAccurateReason = raw
	case FieldClinicalChoice:
		next.ClinicalChoice = raw
	case FieldClinicalChoiceReason:
		next.ClinicalChoiceReason = raw
	default:
		return unknownField(f.Section(), name)
	}
	if f.onChange != nil {
		f.onChange(next)
	}
	return nil
}

func (f *PostEval) value(name string) string {
	switch name {
	case FieldPreferredTechnique:
		return f.received.PreferredTechnique
	case FieldPreferredTechniqueReason:
		return f.received.PreferredTechniqueReason
	case FieldMostAccurateTechnique:
		return f.received.MostAccurateTechnique
	case FieldMostAccurateReason:
		return f.received.MostAccurateReason
	case FieldClinicalChoice:
		return f.received.ClinicalChoice
	case FieldClinicalChoiceReason:
		return f.received.ClinicalChoiceReason
	}
	return ""
}
