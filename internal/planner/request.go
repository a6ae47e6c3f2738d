package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Topics and durations a plan request may name.
var (
	Topics    = []string{"Study", "Fitness", "Work", "Life Tasks"}
	Durations = []string{"Daily", "Weekly", "Monthly", "Yearly"}
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid plan request")

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Non-empty after trimming whitespace
	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Request is the input to plan generation.
type Request struct {
	Topic         string   `json:"topic" yaml:"topic" validate:"required,oneof='Study' 'Fitness' 'Work' 'Life Tasks'"`
	Tasks         []string `json:"tasks" yaml:"tasks" validate:"required,min=1,dive,nonempty"`
	AvailableTime string   `json:"availableTime" yaml:"availableTime" validate:"required,nonempty"`
	Duration      string   `json:"duration" yaml:"duration" validate:"required,oneof=Daily Weekly Monthly Yearly"`
	CustomGoals   string   `json:"customGoals,omitempty" yaml:"customGoals,omitempty"`
}

var titleCaser = cases.Title(language.English)

// Normalize trims every field, title-cases the topic and duration so flag
// input like "life tasks" or "WEEKLY" matches, and drops blank tasks.
func (r Request) Normalize() Request {
	out := Request{
		Topic:         titleCaser.String(strings.TrimSpace(r.Topic)),
		AvailableTime: strings.TrimSpace(r.AvailableTime),
		Duration:      titleCaser.String(strings.TrimSpace(r.Duration)),
		CustomGoals:   strings.TrimSpace(r.CustomGoals),
	}
	for _, t := range r.Tasks {
		if t = strings.TrimSpace(t); t != "" {
			out.Tasks = append(out.Tasks, t)
		}
	}
	return out
}

// Validate checks the request against its field rules.
func (r *Request) Validate() ValidationResult {
	return validateStruct(r)
}

// ValidationError provides structured error information for a rejected field
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationResult contains the result of request validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Err returns nil for a valid result, otherwise an error wrapping
// ErrInvalidRequest that lists every failing field.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, r.ErrorSummary())
}

// validateStruct is a helper that validates any struct and returns ValidationResult
func validateStruct(s any) ValidationResult {
	err := validate.Struct(s)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationResult{Errors: []ValidationError{{Message: err.Error()}}}
	}

	var errs []ValidationError
	for _, fe := range verrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: formatValidationError(fe),
		})
	}
	return ValidationResult{Errors: errs}
}

// formatValidationError creates a human-readable error message
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		if err.Field() == "Tasks" {
			return "at least one task is required"
		}
		return fmt.Sprintf("%s is required", err.Field())
	case "nonempty":
		return fmt.Sprintf("%s cannot be empty or whitespace", err.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s items", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), strings.ReplaceAll(err.Param(), "'", ""))
	default:
		return fmt.Sprintf("%s failed validation: %s", err.Field(), err.Tag())
	}
}

// ErrorSummary returns a single string summarizing all validation errors
func (r ValidationResult) ErrorSummary() string {
	if r.Valid {
		return ""
	}
	var parts []string
	for _, e := range r.Errors {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
