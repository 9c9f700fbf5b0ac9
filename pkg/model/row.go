package model

import "strconv"

// RowHeader returns the column names matching Row, suitable for the first row
// of a spreadsheet.
func RowHeader() []string {
	header := []string{
		"timestamp",
		"participantId",
		"trainingLevel",
		"otherTrainingLevel",
		"ultrasoundExperience",
		"needlePlacements",
	}
	for _, technique := range Techniques() {
		for _, metric := range Metrics() {
			header = append(header, string(technique)+"."+string(metric))
		}
	}
	return append(header,
		"preferredTechnique",
		"preferredTechniqueReason",
		"mostAccurateTechnique",
		"mostAccurateReason",
		"clinicalChoice",
		"clinicalChoiceReason",
	)
}

// Row flattens the response into one spreadsheet row ordered as RowHeader.
func (r SurveyResponse) Row() []string {
	d := r.Demographics
	row := []string{
		r.Timestamp,
		d.ParticipantID,
		d.TrainingLevel,
		d.OtherTrainingLevel,
		d.UltrasoundExperience,
		d.NeedlePlacements,
	}
	for _, technique := range Techniques() {
		for _, metric := range Metrics() {
			value, _ := r.Workload.Rating(technique, metric)
			row = append(row, strconv.Itoa(value))
		}
	}
	p := r.PostEval
	return append(row,
		p.PreferredTechnique,
		p.PreferredTechniqueReason,
		p.MostAccurateTechnique,
		p.MostAccurateReason,
		p.ClinicalChoice,
		p.ClinicalChoiceReason,
	)
}
