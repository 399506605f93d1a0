package validation

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// DefaultTitleMaxLength is used when no configuration is supplied
const DefaultTitleMaxLength = 200

// Validator wraps a go-playground validator with the rules used by task forms
type Validator struct {
	validate       *validator.Validate
	titleMaxLength int
}

// NewValidator creates a validator with default limits
func NewValidator() *Validator {
	return NewValidatorWithLimits(DefaultTitleMaxLength)
}

// NewValidatorWithLimits creates a validator with a custom title length limit.
// Non-positive limits fall back to DefaultTitleMaxLength.
func NewValidatorWithLimits(titleMaxLength int) *Validator {
	if titleMaxLength <= 0 {
		titleMaxLength = DefaultTitleMaxLength
	}

	v := &Validator{
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		titleMaxLength: titleMaxLength,
	}

	// Report fields by their form name so errors line up with form inputs
	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	v.validate.RegisterValidation("title_max", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= v.titleMaxLength
	})

	return v
}

// TitleMaxLength returns the configured title limit
func (v *Validator) TitleMaxLength() int {
	return v.titleMaxLength
}

// TrimAndValidateString trims surrounding whitespace
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// IsValidID checks if an ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// Struct validates s against its `validate` tags and converts failures to a
// ValidationError. It returns nil when s is valid.
func (v *Validator) Struct(s interface{}) *ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationError := NewValidationError()
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		validationError.AddInvalidValueError("form", nil, err.Error())
		return validationError
	}

	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			validationError.AddRequiredError(fe.Field())
		case "title_max":
			value := fe.Value().(string)
			validationError.AddMaxLengthError(fe.Field(), value, v.titleMaxLength, utf8.RuneCountInString(value))
		default:
			validationError.AddInvalidValueError(fe.Field(), fe.Value(), fe.Tag())
		}
	}
	return validationError
}
