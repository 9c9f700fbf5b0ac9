package model

const (
	// RatingMin and RatingMax bound every NASA-TLX rating.
	RatingMin = 0
	RatingMax = 20

	// TrainingLevelOther unlocks the free-text OtherTrainingLevel field.
	TrainingLevelOther = "Other"
)

// Option is a selectable value paired with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Values returns the option values in order.
func Values(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Value)
	}
	return out
}

// Technique is one of the needle placement methods under comparison.
type Technique string

const (
	TechniqueFreehand   Technique = "freehand"
	TechniqueInPlane    Technique = "inPlaneGuide"
	TechniqueOutOfPlane Technique = "outOfPlaneGuide"
)

// Techniques lists the techniques in survey order.
func Techniques() []Technique {
	return []Technique{TechniqueFreehand, TechniqueInPlane, TechniqueOutOfPlane}
}

// Label returns the heading used for the technique on the workload page.
func (t Technique) Label() string {
	switch t {
	case TechniqueFreehand:
		return "Freehand Technique"
	case TechniqueInPlane:
		return "In-Plane Guide"
	case TechniqueOutOfPlane:
		return "Out-of-Plane Guide"
	}
	return string(t)
}

// Metric is one NASA-TLX workload dimension.
type Metric string

const (
	MetricMentalDemand   Metric = "mentalDemand"
	MetricPhysicalDemand Metric = "physicalDemand"
	MetricTemporalDemand Metric = "temporalDemand"
	MetricPerformance    Metric = "performance"
	MetricEffort         Metric = "effort"
	MetricFrustration    Metric = "frustration"
)

// Metrics lists the six dimensions in questionnaire order.
func Metrics() []Metric {
	return []Metric{
		MetricMentalDemand,
		MetricPhysicalDemand,
		MetricTemporalDemand,
		MetricPerformance,
		MetricEffort,
		MetricFrustration,
	}
}

// Scale describes how a metric is presented to participants.
type Scale struct {
	Metric      Metric `json:"metric"`
	Name        string `json:"name"`
	Question    string `json:"question"`
	SubQuestion string `json:"subQuestion"`
	MinLabel    string `json:"minLabel"`
	MaxLabel    string `json:"maxLabel"`
}

// Scales returns the NASA-TLX prompts in questionnaire order.
func Scales() []Scale {
	return []Scale{
		{
			Metric:      MetricMentalDemand,
			Name:        "Mental Demand",
			Question:    "How mentally demanding was the task?",
			SubQuestion: "How much concentration or thinking was needed?",
			MinLabel:    "Very Low",
			MaxLabel:    "Very High",
		},
		{
			Metric:      MetricPhysicalDemand,
			Name:        "Physical Demand",
			Question:    "How physically demanding was the task?",
			SubQuestion: "Did you need to make repeated needle redirections or reinsertions?",
			MinLabel:    "Very Low",
			MaxLabel:    "Very High",
		},
		{
			Metric:      MetricTemporalDemand,
			Name:        "Temporal Demand",
			Question:    "Did you feel like the process was efficient or took longer than expected?",
			SubQuestion: "How hurried or rushed was the pace of the task?",
			MinLabel:    "Very slow",
			MaxLabel:    "Very fast",
		},
		{
			Metric:      MetricPerformance,
			Name:        "Performance",
			Question:    "How successful were you in accomplishing what you were asked to do?",
			SubQuestion: "How happy are you with how you performed? Did it feel accurate and correct?",
			MinLabel:    "Very Poor Performance",
			MaxLabel:    "Excellent Performance",
		},
		{
			Metric:      MetricEffort,
			Name:        "Effort",
			Question:    "How hard did you have to work to accomplish your level of performance?",
			SubQuestion: "Was the task straightforward or did it require significant effort?",
			MinLabel:    "No Effort Required",
			MaxLabel:    "Extreme Effort Required",
		},
		{
			Metric:      MetricFrustration,
			Name:        "Frustration",
			Question:    "How insecure, discouraged, irritated, stressed, and annoyed were you?",
			SubQuestion: "Were there any moments that made you feel irritated or confused? How much did you feel frustrated or stressed during the task?",
			MinLabel:    "Not Frustrated at all",
			MaxLabel:    "Extremely Frustrated",
		},
	}
}

// TrainingLevels lists the training categories offered on the demographics
// page. "Other" pairs with a free-text answer.
func TrainingLevels() []Option {
	return labelled(
		"MS1", "MS2", "MS3", "MS4",
		"PGY-1", "PGY-2", "PGY-3", "PGY-4",
		"Fellowship-1", "Fellowship-2",
		"Attending Surgeon", "MD, research/industry role",
		TrainingLevelOther,
	)
}

// UltrasoundExperience lists the years-of-experience brackets.
func UltrasoundExperience() []Option {
	return labelled("None", "<1 year", "1–2 years", "3–5 years", ">5 years")
}

// NeedlePlacements lists the prior needle-placement count brackets.
func NeedlePlacements() []Option {
	return labelled("None", "1–10", "11–50", "51–100", ">100")
}

// TechniqueOptions lists the choices offered by the post-session questions.
func TechniqueOptions() []Option {
	return []Option{
		{Value: string(TechniqueFreehand), Label: "Freehand"},
		{Value: string(TechniqueInPlane), Label: "In-plane needle guide"},
		{Value: string(TechniqueOutOfPlane), Label: "Out-of-plane needle guide"},
	}
}

func labelled(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}
