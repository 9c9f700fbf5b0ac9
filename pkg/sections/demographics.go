package sections

import "github.com/goliatone/go-needle-survey/pkg/model"

const (
	FieldParticipantID        = "participantId"
	FieldTrainingLevel        = "trainingLevel"
	FieldOtherTrainingLevel   = "otherTrainingLevel"
	FieldUltrasoundExperience = "ultrasoundExperience"
	FieldNeedlePlacements     = "needlePlacements"
)

// Demographics is the participant background page. It keeps a local mirror of
// the answers, seeded from the parent, and emits the whole mirror after every
// edit.
type Demographics struct {
	mirror   model.DemographicsAnswers
	onChange func(model.DemographicsAnswers)
}

var _ Form = (*Demographics)(nil)

// NewDemographics seeds the page with the parent's current answers.
func NewDemographics(initial model.DemographicsAnswers, onChange func(model.DemographicsAnswers)) *Demographics {
	return &Demographics{mirror: initial, onChange: onChange}
}

func (f *Demographics) Section() model.Section { return model.SectionDemographics }

func (f *Demographics) Title() string { return "Participant Demographics & Experience" }

// Receive reseeds the mirror with data pushed down by the parent.
func (f *Demographics) Receive(data model.DemographicsAnswers) {
	f.mirror = data
}

// Fields describes the page controls. The free-text training level only
// becomes visible once "Other" is selected; its value is kept either way.
func (f *Demographics) Fields() []Field {
	return []Field{
		{
			Name:    FieldParticipantID,
			Kind:    FieldKindText,
			Label:   "Participant ID",
			Value:   f.mirror.ParticipantID,
			Visible: true,
		},
		{
			Name:    FieldTrainingLevel,
			Kind:    FieldKindChoice,
			Label:   "Training Level",
			Options: model.TrainingLevels(),
			Value:   f.mirror.TrainingLevel,
			Visible: true,
		},
		{
			Name:    FieldOtherTrainingLevel,
			Kind:    FieldKindText,
			Label:   "Please specify",
			Group:   FieldTrainingLevel,
			Value:   f.mirror.OtherTrainingLevel,
			Visible: f.mirror.TrainingLevel == model.TrainingLevelOther,
		},
		{
			Name:    FieldUltrasoundExperience,
			Kind:    FieldKindChoice,
			Label:   "Years of Experience with Ultrasound",
			Options: model.UltrasoundExperience(),
			Value:   f.mirror.UltrasoundExperience,
			Visible: true,
		},
		{
			Name:    FieldNeedlePlacements,
			Kind:    FieldKindChoice,
			Label:   "Estimated Number of Ultrasound-Guided Needle Placements Performed",
			Options: model.NeedlePlacements(),
			Value:   f.mirror.NeedlePlacements,
			Visible: true,
		},
	}
}

// Edit stores raw verbatim; choice values are not checked against the
// catalogue.
func (f *Demographics) Edit(name, raw string) error {
	switch name {
	case FieldParticipantID:
		f.mirror.ParticipantID = raw
	case FieldTrainingLevel:
		f.mirror.TrainingLevel = raw
	case FieldOtherTrainingLevel:
		f.mirror.OtherTrainingLevel = raw
	case FieldUltrasoundExperience:
		f.mirror.UltrasoundExperience = raw
	case FieldNeedlePlacements:
		f.mirror.NeedlePlacements = raw
	default:
		return unknownField(f.Section(), name)
	}
	if f.onChange != nil {
		f.onChange(f.mirror)
	}
	return nil
}
