// Package validate holds the field rules shared by the services. Every
// failure is a domain validation error naming the field.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"marinaops/internal/domain"
)

var v = validator.New()

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalidf("%s is required", field)
	}
	return nil
}

// Email checks the address format. Blank is rejected too.
func Email(field, value string) error {
	if err := v.Var(strings.TrimSpace(value), "required,email"); err != nil {
		return domain.Invalidf("%s must be a valid email address", field)
	}
	return nil
}

// GPS accepts "lat lon" or "lat,lon" in decimal degrees.
func GPS(value string) error {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) != 2 {
		return domain.Invalidf("gps coordinates must be \"latitude longitude\"")
	}
	if v.Var(parts[0], "latitude") != nil || v.Var(parts[1], "longitude") != nil {
		return domain.Invalidf("gps coordinates %q are out of range", value)
	}
	return nil
}

func NonNegative(field string, n int64) error {
	if n < 0 {
		return domain.Invalidf("%s must not be negative", field)
	}
	return nil
}

func Positive(field string, n int64) error {
	if n <= 0 {
		return domain.Invalidf("%s must be greater than zero", field)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Present fails when a patch field is missing or blank.
func Present(field string, value *string) error {
	if value == nil {
		return domain.Invalidf("%s is required", field)
	}
	return Required(field, *value)
}

// PresentRef fails when a reference is missing or not a valid id.
func PresentRef(field string, id *int64) error {
	if id == nil || *id <= 0 {
		return domain.Invalidf("%s is required", field)
	}
	return nil
}
