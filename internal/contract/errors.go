package contract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds reported to callers. Wrap them with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrRenderFailure = errors.New("render failure")
)

// BadRequestf returns an error of kind ErrBadRequest.
func BadRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// NotFoundf returns an error of kind ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ParseCycleIndex parses an optional cycle index. Values such as "12.0" are truncated to 12.
// An empty string means no cycle filter.
func ParseCycleIndex(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, BadRequestf("cycle_index must be an integer (received %q)", s)
	}
	ci := int(f)
	return &ci, nil
}

// ParseSegment parses a cycle segment such as "100-200". The en dash is accepted as separator,
// and each bound may be written as a float, which is truncated.
func ParseSegment(s string) (start, end int, err error) {
	s = strings.ReplaceAll(s, "–", "-")
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, BadRequestf("segment must look like 'start-end' (received %q)", s)
	}
	bounds := make([]int, 2)
	for i, p := range parts {
		f, perr := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if perr != nil {
			return 0, 0, BadRequestf("segment bound %q is not numeric", strings.TrimSpace(p))
		}
		bounds[i] = int(f)
	}
	return bounds[0], bounds[1], nil
}
