// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// weekdayNames are the accepted day-constraint values, lowercase.
var weekdayNames = map[string]bool{
	"sunday":    true,
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
}

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// Weekday accepts an empty string or a day-of-week name (e.g. "Tuesday").
// It backs the `weekday` validation tag.
func Weekday(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return weekdayNames[strings.ToLower(strings.TrimSpace(s))]
}

// New creates a new Validator instance with domain rules registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("weekday", Weekday)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
