package model

import (
	"fmt"
	"time"
)

// TimestampLayout renders timestamps the way browsers emit toISOString():
// UTC with millisecond precision and a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Section identifies one of the three survey pages.
type Section string

const (
	SectionDemographics Section = "demographics"
	SectionWorkload     Section = "nasaTlx"
	SectionPostEval     Section = "postEval"
)

// Sections lists the survey pages in wizard order.
func Sections() []Section {
	return []Section{SectionDemographics, SectionWorkload, SectionPostEval}
}

// ParseSection resolves a section name, accepting "workload" as an alias of
// the wire name "nasaTlx".
func ParseSection(raw string) (Section, error) {
	switch Section(raw) {
	case SectionDemographics, SectionWorkload, SectionPostEval:
		return Section(raw), nil
	case "workload":
		return SectionWorkload, nil
	}
	return "", fmt.Errorf("model: unknown section %q", raw)
}

// SurveyResponse aggregates every answer collected during a wizard session.
type SurveyResponse struct {
	Demographics DemographicsAnswers `json:"demographics"`
	Workload     WorkloadAnswers     `json:"nasaTlx"`
	PostEval     PostEvalAnswers     `json:"postEval"`
	Timestamp    string              `json:"timestamp"`
}

// NewSurveyResponse returns the empty response created when a wizard mounts.
func NewSurveyResponse() SurveyResponse {
	return SurveyResponse{}
}

// Stamp records t as the submission timestamp.
func (r *SurveyResponse) Stamp(t time.Time) {
	r.Timestamp = FormatTimestamp(t)
}

// FormatTimestamp renders t using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DemographicsAnswers captures the participant's background. All fields are
// optional.
type DemographicsAnswers struct {
	ParticipantID        string `json:"participantId"`
	TrainingLevel        string `json:"trainingLevel"`
	OtherTrainingLevel   string `json:"otherTrainingLevel,omitempty"`
	UltrasoundExperience string `json:"ultrasoundExperience"`
	NeedlePlacements     string `json:"needlePlacements"`
}

// TechniqueRatings holds the six NASA-TLX dimensions for one technique, each
// in [RatingMin, RatingMax].
type TechniqueRatings struct {
	MentalDemand   int `json:"mentalDemand"`
	PhysicalDemand int `json:"physicalDemand"`
	TemporalDemand int `json:"temporalDemand"`
	Performance    int `json:"performance"`
	Effort         int `json:"effort"`
	Frustration    int `json:"frustration"`
}

// Get returns the rating stored for metric.
func (r TechniqueRatings) Get(metric Metric) (int, bool) {
	switch metric {
	case MetricMentalDemand:
		return r.MentalDemand, true
	case MetricPhysicalDemand:
		return r.PhysicalDemand, true
	case MetricTemporalDemand:
		return r.TemporalDemand, true
	case MetricPerformance:
		return r.Performance, true
	case MetricEffort:
		return r.Effort, true
	case MetricFrustration:
		return r.Frustration, true
	}
	return 0, false
}

// With returns a copy of r with metric set to value.
func (r TechniqueRatings) With(metric Metric, value int) (TechniqueRatings, bool) {
	switch metric {
	case MetricMentalDemand:
		r.MentalDemand = value
	case MetricPhysicalDemand:
		r.PhysicalDemand = value
	case MetricTemporalDemand:
		r.TemporalDemand = value
	case MetricPerformance:
		r.Performance = value
	case MetricEffort:
		r.Effort = value
	case MetricFrustration:
		r.Frustration = value
	default:
		return r, false
	}
	return r, true
}

// WorkloadAnswers holds the ratings for the three techniques. The zero value
// is the default: all eighteen ratings at 0.
type WorkloadAnswers struct {
	Freehand        TechniqueRatings `json:"freehand"`
	InPlaneGuide    TechniqueRatings `json:"inPlaneGuide"`
	OutOfPlaneGuide TechniqueRatings `json:"outOfPlaneGuide"`
}

// Ratings returns the ratings recorded for technique.
func (w WorkloadAnswers) Ratings(technique Technique) (TechniqueRatings, bool) {
	switch technique {
	case TechniqueFreehand:
		return w.Freehand, true
	case TechniqueInPlane:
		return w.InPlaneGuide, true
	case TechniqueOutOfPlane:
		return w.OutOfPlaneGuide, true
	}
	return TechniqueRatings{}, false
}

// Rating returns a single technique×metric value.
func (w WorkloadAnswers) Rating(technique Technique, metric Metric) (int, bool) {
	ratings, ok := w.Ratings(technique)
	if !ok {
		return 0, false
	}
	return ratings.Get(metric)
}

// WithRating returns a copy of w with one technique×metric value replaced.
// The other seventeen values are untouched.
func (w WorkloadAnswers) WithRating(technique Technique, metric Metric, value int) (WorkloadAnswers, error) {
	ratings, ok := w.Ratings(technique)
	if !ok {
		return w, fmt.Errorf("model: unknown technique %q", technique)
	}
	updated, ok := ratings.With(metric, value)
	if !ok {
		return w, fmt.Errorf("model: unknown metric %q", metric)
	}
	switch technique {
	case TechniqueFreehand:
		w.Freehand = updated
	case TechniqueInPlane:
		w.InPlaneGuide = updated
	case TechniqueOutOfPlane:
		w.OutOfPlaneGuide = updated
	}
	return w, nil
}

// PostEvalAnswers captures the three technique preferences, each with an
// optional free-text rationale.
type PostEvalAnswers struct {
	PreferredTechnique       string `json:"preferredTechnique"`
	PreferredTechniqueReason string `json:"preferredTechniqueReason"`
	MostAccurateTechnique    string `json:"mostAccurateTechnique"`
	MostAccurateReason       string `json:"mostAccurateReason"`
	ClinicalChoice           string `json:"clinicalChoice"`
	ClinicalChoiceReason     string `json:"clinicalChoiceReason"`
}
