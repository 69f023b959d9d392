package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/loan-affordability/pkg/constants"
)

// Validator wraps a go-playground validator with the tags used by loan
// inputs registered.
type Validator struct {
	validate *validator.Validate
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

// New builds a Validator. Field names in errors follow json, then yaml tags.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(tagName)

	_ = v.RegisterValidation("loancategory", validateLoanCategory)
	_ = v.RegisterValidation("outputformat", validateOutputFormatTag)

	return &Validator{validate: v}
}

// Default returns a shared Validator; validator.Validate caches struct
// metadata and is safe for concurrent use.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Struct validates a struct using its validate tags.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validation errors into a field to message map
// keyed by the dotted path below the root struct (e.g. "scenarios[0].termYears").
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := fieldPath(e.Namespace())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "lt":
			errs[field] = fmt.Sprintf("Must be less than %s", e.Param())
		case "lte":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		case "loancategory":
			errs[field] = "Must be mortgage or consumer"
		case "outputformat":
			errs[field] = fmt.Sprintf("Must be %s or %s", constants.OutputFormatPretty, constants.OutputFormatCSV)
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// Summary joins a FormatValidationError map into one sorted line.
func Summary(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}

func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func tagName(field reflect.StructField) string {
	for _, key := range []string{"json", "yaml"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	if field.Name == "" {
		return ""
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

func validateLoanCategory(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "", "mortgage", "consumer":
		return true
	}
	return false
}

func validateOutputFormatTag(fl validator.FieldLevel) bool {
	format := fl.Field().String()
	return format == "" || ValidateOutputFormat(format) == nil
}
