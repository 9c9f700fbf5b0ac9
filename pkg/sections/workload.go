package sections

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

// Workload is the NASA-TLX page: one rating control per technique and metric,
// named "<technique>.<metric>" (for example "freehand.effort").
type Workload struct {
	mirror   model.WorkloadAnswers
	control  RatingControl
	onChange func(model.WorkloadAnswers)
}

var _ Form = (*Workload)(nil)

// NewWorkload seeds the page with the parent's current ratings.
func NewWorkload(initial model.WorkloadAnswers, onChange func(model.WorkloadAnswers)) *Workload {
	return &Workload{
		mirror:   initial,
		control:  DefaultRatingControl,
		onChange: onChange,
	}
}

func (f *Workload) Section() model.Section { return model.SectionWorkload }

func (f *Workload) Title() string { return "NASA-TLX Assessment" }

// Receive reseeds the mirror with data pushed down by the parent.
func (f *Workload) Receive(data model.WorkloadAnswers) {
	f.mirror = data
}

// Fields lists the eighteen rating controls grouped by scale.
func (f *Workload) Fields() []Field {
	fields := make([]Field, 0, len(model.Scales())*len(model.Techniques()))
	for _, scale := range model.Scales() {
		for _, technique := range model.Techniques() {
			value, _ := f.mirror.Rating(technique, scale.Metric)
			fields = append(fields, Field{
				Name:     RatingFieldName(technique, scale.Metric),
				Kind:     FieldKindRating,
				Label:    technique.Label(),
				Help:     scale.Question + " " + scale.SubQuestion,
				Group:    scale.Name,
				Min:      f.control.Min,
				Max:      f.control.Max,
				Step:     f.control.Step,
				MinLabel: scale.MinLabel,
				MaxLabel: scale.MaxLabel,
				Value:    strconv.Itoa(value),
				Visible:  true,
			})
		}
	}
	return fields
}

// Edit moves one rating control. The control snaps the value onto its track,
// so out-of-range input lands on the nearest bound.
func (f *Workload) Edit(name, raw string) error {
	technique, metric, ok := ParseRatingFieldName(name)
	if ok {
		_, ok = f.mirror.Rating(technique, metric)
	}
	if !ok {
		return unknownField(f.Section(), name)
	}
	value, err := f.control.Position(raw)
	if err != nil {
		return err
	}
	updated, err := f.mirror.WithRating(technique, metric, value)
	if err != nil {
		return err
	}
	f.mirror = updated
	if f.onChange != nil {
		f.onChange(f.mirror)
	}
	return nil
}

// RatingFieldName builds the control name for a technique×metric pair.
func RatingFieldName(technique model.Technique, metric model.Metric) string {
	return string(technique) + "." + string(metric)
}

// ParseRatingFieldName splits a control name built by RatingFieldName.
func ParseRatingFieldName(name string) (model.Technique, model.Metric, bool) {
	technique, metric, ok := strings.Cut(name, ".")
	if !ok || technique == "" || metric == "" {
		return "", "", false
	}
	return model.Technique(technique), model.Metric(metric), true
}
