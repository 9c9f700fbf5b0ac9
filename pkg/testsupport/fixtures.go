package testsupport

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/goliatone/go-needle-survey/pkg/model"
	"github.com/goliatone/go-needle-survey/pkg/submission"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// SampleResponse returns a fully answered response with a fixed timestamp.
func SampleResponse() model.SurveyResponse {
	resp := model.NewSurveyResponse()
	resp.Demographics = model.DemographicsAnswers{
		ParticipantID:        "P-001",
		TrainingLevel:        model.TrainingLevelOther,
		OtherTrainingLevel:   "Sonographer",
		UltrasoundExperience: "3–5 years",
		NeedlePlacements:     "51–100",
	}
	resp.Workload.Freehand = model.TechniqueRatings{MentalDemand: 14, PhysicalDemand: 9, TemporalDemand: 7, Performance: 11, Effort: 15, Frustration: 12}
	resp.Workload.InPlaneGuide = model.TechniqueRatings{MentalDemand: 6, PhysicalDemand: 4, TemporalDemand: 5, Performance: 4, Effort: 6, Frustration: 3}
	resp.Workload.OutOfPlaneGuide = model.TechniqueRatings{MentalDemand: 9, PhysicalDemand: 6, TemporalDemand: 6, Performance: 8, Effort: 9, Frustration: 7}
	resp.PostEval = model.PostEvalAnswers{
		PreferredTechnique:       "inPlaneGuide",
		PreferredTechniqueReason: "needle stayed in view",
		MostAccurateTechnique:    "inPlaneGuide",
		ClinicalChoice:           "inPlaneGuide",
	}
	resp.Timestamp = "2025-03-14T14:26:53.589Z"
	return resp
}

// RecordingClient is a submission.Client that keeps every dispatched
// response. Err, when set, is returned after recording. Gate, when set, blocks
// each dispatch until it is closed or receives a value.
type RecordingClient struct {
	Err  error
	Gate chan struct{}

	mu        sync.Mutex
	responses []model.SurveyResponse
	started   chan struct{}
	once      sync.Once
}

var _ submission.Client = (*RecordingClient)(nil)

// Submit records response.
func (c *RecordingClient) Submit(ctx context.Context, response model.SurveyResponse) error {
	c.mu.Lock()
	c.responses = append(c.responses, response)
	c.mu.Unlock()
	c.once.Do(func() { close(c.startedCh()) })

	if c.Gate != nil {
		select {
		case <-c.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Err
}

// Started is closed once the first dispatch begins.
func (c *RecordingClient) Started() <-chan struct{} {
	return c.startedCh()
}

func (c *RecordingClient) startedCh() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started == nil {
		c.started = make(chan struct{})
	}
	return c.started
}

// Responses returns the recorded responses in dispatch order.
func (c *RecordingClient) Responses() []model.SurveyResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.SurveyResponse(nil), c.responses...)
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// RenderString runs a render function against a buffer and returns what it
// wrote.
func RenderString(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
