package sections

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

var (
	// ErrUnknownField is returned when an edit targets a field the form does
	// not render.
	ErrUnknownField = errors.New("sections: unknown field")
	// ErrNotANumber is returned when a rating control receives input it cannot
	// place on its track.
	ErrNotANumber = errors.New("sections: rating is not a number")
)

// FieldKind is the renderer-neutral control type.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindChoice   FieldKind = "choice"
	FieldKindRating   FieldKind = "rating"
	FieldKindTextArea FieldKind = "textarea"
)

// Field describes one controlled input together with its current value.
// Renderers read Fields() to draw a page and report edits back by Name.
type Field struct {
	Name     string         `json:"name"`
	Kind     FieldKind      `json:"kind"`
	Label    string         `json:"label"`
	Help     string         `json:"help,omitempty"`
	Group    string         `json:"group,omitempty"`
	Options  []model.Option `json:"options,omitempty"`
	Min      int            `json:"min,omitempty"`
	Max      int            `json:"max,omitempty"`
	Step     int            `json:"step,omitempty"`
	MinLabel string         `json:"minLabel,omitempty"`
	MaxLabel string         `json:"maxLabel,omitempty"`
	Value    string         `json:"value"`
	// Visible is false for inputs that only apply after another answer, such
	// as the free-text training level. Hidden inputs still accept edits.
	Visible bool `json:"visible"`
}

// Form is implemented by every section page. Edit applies a single user edit
// and emits the full updated section to the parent before returning.
type Form interface {
	Section() model.Section
	Title() string
	Fields() []Field
	Edit(name, raw string) error
}

// Apply replays a submitted page as individual edits, in field order. Fields
// missing from values or unchanged from their current value are skipped, so
// each emitted update corresponds to a real change.
func Apply(form Form, values url.Values) error {
	if form == nil {
		return errors.New("sections: form is nil")
	}
	for _, field := range form.Fields() {
		raw, ok := values[field.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		if raw[0] == field.Value {
			continue
		}
		if err := form.Edit(field.Name, raw[0]); err != nil {
			return fmt.Errorf("sections: apply %s.%s: %w", form.Section(), field.Name, err)
		}
	}
	return nil
}

func unknownField(section model.Section, name string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, name)
}
