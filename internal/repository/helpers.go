package repository

import (
	"database/sql"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// timestampLayout sorts lexicographically as long as values are UTC.
	timestampLayout = "2006-01-02T15:04:05Z"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp accepts the storage layout and plain dates, which imported
// rows may carry.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(dateLayout, s)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// whereClause accumulates AND-ed conditions and their arguments.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereClause) addTimeRange(column string, from, to *time.Time) {
	if from != nil {
		w.add(column+" >= ?", formatTimestamp(*from))
	}
	if to != nil {
		w.add(column+" <= ?", formatTimestamp(*to))
	}
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
