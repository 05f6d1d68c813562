package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evoscope/symgp/pkg/errors"
)

// Range is a half-open row interval [Start, End) designating a data
// partition, typically a training or test split.
type Range struct {
	Start int
	End   int
}

// NewRange builds a range, validating its bounds.
func NewRange(start, end int) (Range, error) {
	if start < 0 || end < start {
		return Range{}, errors.New(errors.InvalidInput,
			fmt.Sprintf("invalid range %d:%d", start, end))
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses the "start:end" notation used on the command line.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Range{}, errors.New(errors.ParseError, "range must have the form start:end, got "+s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, errors.Wrap(err, errors.ParseError, "invalid range start")
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, errors.Wrap(err, errors.ParseError, "invalid range end")
	}
	return NewRange(start, end)
}

// Size returns the number of rows in the range.
func (r Range) Size() int { return r.End - r.Start }

func (r Range) String() string { return fmt.Sprintf("%d:%d", r.Start, r.End) }
