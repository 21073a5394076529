package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord is wrapped by every ValidationError.
var ErrInvalidRecord = errors.New("invalid record")

// ValidationError lists the fields of a record that broke their rules,
// keyed by JSON field name with the failing rule as value.
type ValidationError struct {
	Record string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s (%s)", ErrInvalidRecord, e.Record, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("finite", isFinite)
	return v
}

// isFinite rejects NaN and the infinities, which gte/lte let through.
func isFinite(fl validator.FieldLevel) bool {
	switch f := fl.Field(); f.Kind() {
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(f.Float()) && !math.IsInf(f.Float(), 0)
	default:
		return true
	}
}

// ValidateRecord checks a record's struct tags. It returns nil for a valid
// record and a *ValidationError otherwise.
func ValidateRecord(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	out := &ValidationError{
		Record: recordName(record),
		Fields: make(map[string]string, len(fieldErrs)),
	}
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Fields[fe.Field()] = rule
	}
	return out
}

func recordName(record any) string {
	t := reflect.TypeOf(record)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
