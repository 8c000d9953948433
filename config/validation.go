package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the custom rules the
// configuration structs use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance with custom validation rules registered.
func NewValidator() *Validator {
	v := validator.New()

	// Register custom validators
	err := v.RegisterValidation("retriable_status", validateRetriableStatus)
	if err != nil {
		return nil
	}

	return &Validator{validate: v}
}

// Validate performs validation on the provided struct and returns any validation errors.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		// Handle validation errors (field-specific errors)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		// Handle invalid validation errors (non-struct inputs, etc.)
		return err
	}
	return nil
}

// ValidationError wraps validation errors with better messages and structured field errors.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError creates a ValidationError from go-playground/validator errors.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: getErrorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	if len(ve.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "retriable_status":
		return fmt.Sprintf("%s must be a status code between 100 and 599", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}

// validateRetriableStatus accepts any code inside the valid HTTP status range.
func validateRetriableStatus(fl validator.FieldLevel) bool {
	code := fl.Field().Int()
	return code >= 100 && code <= 599
}

// Validate checks the structural rules carried by the struct tags, then the
// cross-field constraints the tags cannot express.
func Validate(cfg *Config) error {
	v := NewValidator()
	if v == nil {
		return errors.New("validator initialization failed")
	}
	if err := v.Validate(cfg); err != nil {
		return err
	}

	if err := validateClient(&cfg.Client); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateClient(cfg *ClientConfig) error {
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be zero or positive")
	}

	return nil
}

// validateLog validates that cfg.Level is one of the supported log levels.
// It returns an error listing the allowed values if the level is invalid.
func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
