package ingest

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC 3339)", s)
	}
	return t.UTC(), nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
