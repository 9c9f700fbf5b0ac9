// Package sections implements the three survey pages as controlled forms.
// A form is built from the parent's current section data and a change
// callback. It describes its inputs through Fields and reports every edit by
// emitting the complete updated section; it never writes to shared state
// directly. Forms perform no validation: any value is accepted as an answer,
// and the rating controls only keep their values on the 0–20 track.
package sections
