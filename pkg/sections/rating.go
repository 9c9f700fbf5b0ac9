package sections

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

// RatingControl models a slider track. Any position reported by the control
// is snapped to Step and kept within [Min, Max]; this is the only bound the
// workload page applies.
type RatingControl struct {
	Min  int
	Max  int
	Step int
}

// DefaultRatingControl is the 0–20 NASA-TLX track with unit steps.
var DefaultRatingControl = RatingControl{Min: model.RatingMin, Max: model.RatingMax, Step: 1}

// Position converts raw control input into a value on the track.
func (c RatingControl) Position(raw string) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	value = math.Min(math.Max(value, float64(c.Min)), float64(c.Max))
	step := c.Step
	if step <= 0 {
		step = 1
	}
	snapped := c.Min + int(math.Round((value-float64(c.Min))/float64(step)))*step
	if snapped > c.Max {
		snapped -= step
	}
	return snapped, nil
}
