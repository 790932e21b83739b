package time_parser

import (
	"fmt"
	"time"
)

var acceptedFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseQueryTime parses a timestamp taken from a query parameter. An empty
// value means "not set" and returns nil without an error.
func ParseQueryTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, format := range acceptedFormats {
		if t, err := time.Parse(format, value); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}

	return nil, fmt.Errorf("unsupported time format: %q", value)
}
