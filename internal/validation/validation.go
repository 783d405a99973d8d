// Package validation holds the domain rules checked before every write:
// enrollment uniqueness per (student, discipline, year) and the
// discipline/year consistency of a contract with its EDA and mentor.
// Rule violations are values, not errors; an error return means the store
// itself failed and the surrounding transaction must roll back.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation codes surfaced to the forms.
const (
	CodeRequired               = "required"
	CodeInvalid                = "invalid"
	CodeDuplicateEnrollment    = "duplicate_enrollment"
	CodeInconsistentDiscipline = "inconsistent_discipline"
	CodeInconsistentYear       = "inconsistent_year"
	CodeNotFound               = "not_found"
	CodeParentCycle            = "parent_cycle"
	CodeEndBeforeBegin         = "end_before_begin"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Get returns the code recorded for field, or the empty string.
func (v Violations) Get(field string) string { return v[field] }

// Add records a violation unless the field already has one: the first
// broken rule per field is the one shown to the user.
func (v Violations) Add(field, code string) {
	if _, seen := v[field]; !seen {
		v[field] = code
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	va := validator.New()
	// Report the `form` tag name instead of the Go field name so violations
	// line up with the template inputs.
	va.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return va
}

// Struct runs the validator/v10 tag checks on a form struct and maps the
// result to field-level violations.
func Struct(s any) Violations {
	v := Violations{}
	err := validate.Struct(s)
	if err == nil {
		return v
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add("_", CodeInvalid)
		return v
	}
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = strings.ToLower(fe.StructField())
		}
		switch fe.Tag() {
		case "required":
			v.Add(field, CodeRequired)
		default:
			v.Add(field, CodeInvalid)
		}
	}
	return v
}
