package html

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-needle-survey/pkg/model"
	"github.com/goliatone/go-needle-survey/pkg/sections"
	"github.com/goliatone/go-needle-survey/pkg/testsupport"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func renderController(t *testing.T, r *Renderer, c *wizard.Controller) string {
	t.Helper()
	return testsupport.RenderString(t, func(w io.Writer) error {
		return r.Render(w, PageFor(c, "/s/abc"))
	})
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_FirstPage(t *testing.T) {
	r := newRenderer(t)
	c := wizard.New(&testsupport.RecordingClient{})

	out := renderController(t, r, c)
	assertContains(t, out,
		"<title>Nephrostomy Needle Guidance Study</title>",
		"low-cost needle guidance systems",
		`action="/s/abc"`,
		`aria-current="step">Demographics</li>`,
		`name="participantId"`,
		`name="trainingLevel" value="PGY-2"`,
		`value="&lt;1 year"`,
		`name="otherTrainingLevel"`,
		"survey-field--conditional",
		`value="next" class="survey-nav-primary">Next</button>`,
		`value="back" class="survey-nav-back" disabled>Back</button>`,
	)
}

func TestRenderer_WorkloadPageShowsRatingTracks(t *testing.T) {
	r := newRenderer(t)
	c := wizard.New(&testsupport.RecordingClient{})
	if err := c.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	form, _ := c.ActiveForm()
	if err := form.Edit(sections.RatingFieldName(model.TechniqueFreehand, model.MetricEffort), "15"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	out := renderController(t, r, c)
	assertContains(t, out,
		"<legend>Effort</legend>",
		`name="freehand.effort" min="0" max="20" step="1" value="15"`,
		`name="outOfPlaneGuide.frustration" min="0" max="20" step="1" value="0"`,
		`value="back" class="survey-nav-back">Back</button>`,
	)
	if strings.Contains(out, "low-cost needle guidance systems") {
		t.Fatalf("intro should only appear on the first page")
	}
	if got := strings.Count(out, `type="range"`); got != 18 {
		t.Fatalf("expected 18 rating controls, got %d", got)
	}
}

func TestRenderer_FinalPageAndThankYou(t *testing.T) {
	r := newRenderer(t)
	c := wizard.New(&testsupport.RecordingClient{})
	_ = c.Advance()
	_ = c.Advance()

	out := renderController(t, r, c)
	assertContains(t, out,
		`name="preferredTechnique" value="inPlaneGuide"`,
		`name="clinicalChoiceReason"`,
		`value="submit" class="survey-nav-primary">Submit</button>`,
	)

	if _, err := c.Submit(testsupport.Context()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	out = renderController(t, r, c)
	assertContains(t, out,
		"Thank you for completing the survey!",
		`role="alert">Survey submitted successfully!</div>`,
	)
	if strings.Contains(out, "<form") {
		t.Fatalf("terminal page should not render a form")
	}

	again := renderController(t, r, c)
	if strings.Contains(again, "Survey submitted successfully!") {
		t.Fatalf("notice should be shown once")
	}
}

func TestRenderer_FailureNotice(t *testing.T) {
	r := newRenderer(t)
	c := wizard.New(&testsupport.RecordingClient{Err: errors.New("offline")})
	_ = c.Advance()
	_ = c.Advance()
	if _, err := c.Submit(testsupport.Context()); !errors.Is(err, wizard.ErrSubmitFailed) {
		t.Fatalf("expected failure, got %v", err)
	}

	out := renderController(t, r, c)
	assertContains(t, out,
		`survey-notice--error" role="alert">Error submitting survey. Please try again.</div>`,
		`aria-current="step">Post-Session Evaluation</li>`,
	)
}

func TestRenderer_EscapesAnswers(t *testing.T) {
	r := newRenderer(t)
	c := wizard.New(&testsupport.RecordingClient{})
	if err := c.UpdateDemographics(model.DemographicsAnswers{ParticipantID: `<script>"x"</script>`}); err != nil {
		t.Fatalf("update: %v", err)
	}
	out := renderController(t, r, c)
	if strings.Contains(out, "<script>") {
		t.Fatalf("participant id rendered unescaped:\n%s", out)
	}
	assertContains(t, out, "&lt;script&gt;")
}

func TestRenderer_SanitizesIntro(t *testing.T) {
	r := newRenderer(t, WithTitle("Pilot"), WithIntro(`<p onclick="x()">Welcome <a href="https://example.org">study</a></p><script>alert(1)</script>`))
	out := renderController(t, r, wizard.New(&testsupport.RecordingClient{}))
	if strings.Contains(out, "alert(1)") || strings.Contains(out, "onclick") {
		t.Fatalf("intro not sanitized:\n%s", out)
	}
	assertContains(t, out, "<title>Pilot</title>", "<p>Welcome <a", `href="https://example.org"`)
}

func TestSanitizeIntro_Empty(t *testing.T) {
	if got := SanitizeIntro("  <script></script> "); got != "" {
		t.Fatalf("expected empty intro, got %q", got)
	}
}

func TestEngine_RenderTemplateWritesAndReturns(t *testing.T) {
	files := fstest.MapFS{
		"hello.tpl": &fstest.MapFile{Data: []byte(`Hello {{ name|trim }} from {{ site }}`)},
	}
	engine, err := NewEngine(WithTemplateFS(files), WithGlobalData(map[string]any{"site": "clinic"}))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, w)
	})
	if result != "Hello Ada from clinic" || written != result {
		t.Fatalf("unexpected render result=%q written=%q", result, written)
	}
}

type recordingEngine struct {
	names       []string
	globals     []any
	failGlobals error
}

func (e *recordingEngine) RenderTemplate(name string, _ any, out ...io.Writer) (string, error) {
	e.names = append(e.names, name)
	for _, w := range out {
		if _, err := io.WriteString(w, "rendered"); err != nil {
			return "", err
		}
	}
	return "rendered", nil
}

func (e *recordingEngine) GlobalContext(data any) error {
	if e.failGlobals != nil {
		return e.failGlobals
	}
	e.globals = append(e.globals, data)
	return nil
}

func TestRenderer_CustomTemplateRendererReceivesGlobals(t *testing.T) {
	engine := &recordingEngine{}
	r := newRenderer(t, WithTemplateRenderer(engine), WithTitle("Pilot Study"), WithAssetsPath("/static"))

	out := renderController(t, r, wizard.New(&testsupport.RecordingClient{}))
	if out != "rendered" {
		t.Fatalf("expected custom engine output, got %q", out)
	}
	if diff := cmp.Diff([]string{pageTemplate}, engine.names); diff != "" {
		t.Fatalf("template names mismatch (-want +got):\n%s", diff)
	}
	want := []any{map[string]any{"title": "Pilot Study", "assets": "/static/"}}
	if diff := cmp.Diff(want, engine.globals); diff != "" {
		t.Fatalf("globals mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_CustomTemplateRendererGlobalsError(t *testing.T) {
	engine := &recordingEngine{failGlobals: errors.New("boom")}
	if _, err := New(WithTemplateRenderer(engine)); err == nil {
		t.Fatalf("expected globals error to fail construction")
	}
}

func TestRenderer_TitleComesFromGlobals(t *testing.T) {
	out := renderController(t, newRenderer(t, WithTitle("Pilot Study")), wizard.New(&testsupport.RecordingClient{}))
	assertContains(t, out,
		"<title>Pilot Study</title>",
		`<h1 class="survey-title">Pilot Study</h1>`,
	)
}

func TestRenderer_TrimsHelpText(t *testing.T) {
	files := fstest.MapFS{
		"partials/field.tpl": &fstest.MapFile{Data: []byte(`{% if field.help %}[{{ field.help|trim }}]{% endif %}`)},
	}
	engine, err := NewEngine(WithTemplateFS(files))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	got, err := engine.RenderTemplate("partials/field", map[string]any{
		"field": map[string]any{"help": "  Describe the view. \n"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[Describe the view.]" {
		t.Fatalf("expected trimmed help, got %q", got)
	}
}

func TestNewEngine_RequiresSource(t *testing.T) {
	if _, err := NewEngine(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestRenderer_LinksStylesheet(t *testing.T) {
	out := renderController(t, newRenderer(t, WithAssetsPath("/static")), wizard.New(&testsupport.RecordingClient{}))
	assertContains(t, out, `<link rel="stylesheet" href="/static/survey.css">`)
}

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "survey.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".survey-field--conditional") {
		t.Fatalf("expected stylesheet to style conditional fields")
	}
}
