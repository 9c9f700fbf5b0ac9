package html

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/goliatone/go-needle-survey/pkg/sections"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

//go:embed templates
var embeddedTemplates embed.FS

const (
	DefaultTitle = "Nephrostomy Needle Guidance Study"
	DefaultIntro = "This study investigates whether low-cost needle guidance systems improve performance in ultrasound-guided needle placement for nephrostomy procedures, compared to conventional freehand techniques."

	thankYouMessage = "Thank you for completing the survey!"
	pageTemplate    = "page"
)

// TemplatesFS exposes the built-in templates so callers can layer overrides.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine.
func WithTemplateRenderer(engine TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTitle overrides the study title shown above every page.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			r.title = trimmed
		}
	}
}

// WithIntro overrides the study introduction shown on the first page. The
// markup is sanitized before use.
func WithIntro(intro string) Option {
	return func(r *Renderer) {
		if cleaned := SanitizeIntro(intro); cleaned != "" {
			r.intro = cleaned
		}
	}
}

// WithAssetsPath sets the URL prefix the stylesheet is served under.
func WithAssetsPath(path string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			if !strings.HasSuffix(trimmed, "/") {
				trimmed += "/"
			}
			r.assets = trimmed
		}
	}
}

// Renderer draws wizard pages as HTML.
type Renderer struct {
	engine TemplateRenderer
	title  string
	intro  string
	assets string
}

// New builds a Renderer over the embedded templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		title:  DefaultTitle,
		intro:  SanitizeIntro(DefaultIntro),
		assets: DefaultAssetsPath,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	globals := map[string]any{
		"title":  r.title,
		"assets": r.assets,
	}
	if r.engine == nil {
		engine, err := NewEngine(WithTemplateFS(TemplatesFS()), WithGlobalData(globals))
		if err != nil {
			return nil, err
		}
		r.engine = engine
		return r, nil
	}
	if err := r.engine.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("html: set page globals: %w", err)
	}
	return r, nil
}

// Page is everything needed to draw one wizard page. Form is nil on the
// terminal page.
type Page struct {
	Action  string
	State   wizard.State
	Form    sections.Form
	Notices []wizard.Notice
}

// PageFor gathers the current page from a controller, draining its notices
// so each is shown once.
func PageFor(c *wizard.Controller, action string) Page {
	form, _ := c.ActiveForm()
	return Page{
		Action:  action,
		State:   c.State(),
		Form:    form,
		Notices: c.DrainNotices(),
	}
}

// Render writes page to w.
func (r *Renderer) Render(w io.Writer, page Page) error {
	if r == nil || r.engine == nil {
		return errors.New("html: renderer is nil")
	}
	if _, err := r.engine.RenderTemplate(pageTemplate, r.view(page), w); err != nil {
		return fmt.Errorf("html: render page: %w", err)
	}
	return nil
}

type pageView struct {
	Intro      string            `json:"intro,omitempty"`
	Action     string            `json:"action"`
	Steps      []stepView        `json:"steps"`
	Section    *sectionView      `json:"section,omitempty"`
	Navigation wizard.Navigation `json:"navigation"`
	Primary    string            `json:"primary"`
	Notices    []wizard.Notice   `json:"notices"`
	Submitted  bool              `json:"submitted"`
	ThankYou   string            `json:"thankYou"`
}

type stepView struct {
	Label     string `json:"label"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}

type sectionView struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Groups []groupView `json:"groups"`
}

type groupView struct {
	Title  string      `json:"title,omitempty"`
	Help   string      `json:"help,omitempty"`
	Fields []fieldView `json:"fields"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        string       `json:"kind"`
	Label       string       `json:"label"`
	Help        string       `json:"help,omitempty"`
	Value       string       `json:"value"`
	Conditional bool         `json:"conditional"`
	Options     []optionView `json:"options,omitempty"`
	Min         string       `json:"min,omitempty"`
	Max         string       `json:"max,omitempty"`
	Step        string       `json:"step,omitempty"`
	MinLabel    string       `json:"minLabel,omitempty"`
	MaxLabel    string       `json:"maxLabel,omitempty"`
}

type optionView struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

func (r *Renderer) view(page Page) pageView {
	state := page.State
	nav := wizard.NavigationFor(state)
	view := pageView{
		Action:     page.Action,
		Navigation: nav,
		Primary:    formAction(nav.PrimaryAction),
		Notices:    page.Notices,
		Submitted:  state.Submitted,
		ThankYou:   thankYouMessage,
	}
	if view.Notices == nil {
		view.Notices = []wizard.Notice{}
	}
	if state.Step == wizard.StepDemographics {
		view.Intro = r.intro
	}
	for i, label := range wizard.StepLabels() {
		view.Steps = append(view.Steps, stepView{
			Label:     label,
			Active:    int(state.Step) == i,
			Completed: int(state.Step) > i,
		})
	}
	if page.Form != nil && !state.Submitted {
		view.Section = buildSection(page.Form)
	}
	return view
}

// formAction maps a navigation action onto the value posted by the page's
// buttons.
func formAction(action wizard.Action) string {
	switch action {
	case wizard.ActionSubmit:
		return "submit"
	case wizard.ActionRetreat:
		return "back"
	default:
		return "next"
	}
}

// buildSection groups consecutive fields sharing a Group. Rating groups carry
// the scale's question once instead of on every control.
func buildSection(form sections.Form) *sectionView {
	view := &sectionView{
		Name:  string(form.Section()),
		Title: form.Title(),
	}
	currentKey := ""
	for _, field := range form.Fields() {
		if len(view.Groups) == 0 || field.Group == "" || field.Group != currentKey {
			group := groupView{}
			if field.Kind == sections.FieldKindRating {
				group.Title = field.Group
				group.Help = field.Help
			}
			view.Groups = append(view.Groups, group)
			currentKey = field.Group
		}
		current := &view.Groups[len(view.Groups)-1]
		fv := fieldView{
			ID:          "field-" + field.Name,
			Name:        field.Name,
			Kind:        string(field.Kind),
			Label:       field.Label,
			Help:        field.Help,
			Value:       field.Value,
			Conditional: !field.Visible,
		}
		for _, opt := range field.Options {
			fv.Options = append(fv.Options, optionView{
				Value:   opt.Value,
				Label:   opt.Label,
				Checked: opt.Value == field.Value,
			})
		}
		if field.Kind == sections.FieldKindRating {
			fv.Help = ""
			fv.Min = strconv.Itoa(field.Min)
			fv.Max = strconv.Itoa(field.Max)
			fv.Step = strconv.Itoa(field.Step)
			fv.MinLabel = field.MinLabel
			fv.MaxLabel = field.MaxLabel
		}
		current.Fields = append(current.Fields, fv)
	}
	return view
}
