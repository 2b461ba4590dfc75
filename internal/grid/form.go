package grid

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the form and wire format of calendar dates.
const DateLayout = "2006-01-02"

// Values holds submitted or prefilled form values keyed by field name.
type Values map[string]string

// Get returns the trimmed value for key.
func (v Values) Get(key string) string {
	return strings.TrimSpace(v[key])
}

// Bool reports whether a checkbox was ticked.
func (v Values) Bool(key string) bool {
	switch strings.ToLower(v.Get(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Int parses key, recording a problem when it is not a whole number.
// Empty values read as zero.
func (v Values) Int(key string, problems Problems) int {
	raw := v.Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		problems[key] = "must be a whole number"
		return 0
	}
	return n
}

// Decimal parses key as a decimal number. Empty values read as zero.
func (v Values) Decimal(key string, problems Problems) decimal.Decimal {
	raw := strings.ReplaceAll(v.Get(key), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		problems[key] = "must be a number"
		return decimal.Zero
	}
	return d
}

// Date parses key as YYYY-MM-DD. Empty values read as the zero time.
func (v Values) Date(key string, problems Problems) time.Time {
	raw := v.Get(key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		problems[key] = "must be a date (YYYY-MM-DD)"
		return time.Time{}
	}
	return t
}

// FormValues reads the named fields from a parsed form.
func FormValues(r *http.Request, fields []Field) Values {
	values := make(Values, len(fields))
	for _, f := range fields {
		if f.Type == Checkbox {
			if r.PostForm.Has(f.Name) {
				values[f.Name] = "true"
			}
			continue
		}
		values[f.Name] = r.PostFormValue(f.Name)
	}
	return values
}

// Problems maps a form field to a readable reason. It doubles as an error.
type Problems map[string]string

func (p Problems) Error() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+p[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Add records msg unless key already has a problem.
func (p Problems) Add(key, msg string) {
	if _, exists := p[key]; !exists {
		p[key] = msg
	}
}

// Err returns p as an error, or nil when empty.
func (p Problems) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Check validates in with v and merges the failures into problems.
func Check(v *validator.Validate, in any, problems Problems) {
	err := v.Struct(in)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		problems["general"] = err.Error()
		return
	}
	for _, fe := range fieldErrs {
		if _, exists := problems[fe.Field()]; exists {
			continue
		}
		problems[fe.Field()] = describe(fe)
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
