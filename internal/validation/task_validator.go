package validation

import (
	"task-tracker/internal/domain"
)

// TaskForm holds the user-submitted fields of a task form. Both the new and
// the update profile accept the same fields.
type TaskForm struct {
	Title       string `form:"title" validate:"required,title_max"`
	Description string `form:"description"`
}

// Clean returns a copy with surrounding whitespace removed from every field
func (f TaskForm) Clean(v *Validator) TaskForm {
	return TaskForm{
		Title:       v.TrimAndValidateString(f.Title),
		Description: v.TrimAndValidateString(f.Description),
	}
}

// FormFromTask pre-fills a form from a stored task
func FormFromTask(task domain.Task) TaskForm {
	return TaskForm{
		Title:       task.Title,
		Description: task.Description,
	}
}

// TaskValidator validates task forms for creation and update
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithLimits creates a task validator with a custom title limit
func NewTaskValidatorWithLimits(titleMaxLength int) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithLimits(titleMaxLength),
	}
}

// ValidateForm cleans and validates form. On success the cleaned form is
// returned; on failure the error is a *ValidationError.
func (tv *TaskValidator) ValidateForm(form TaskForm) (TaskForm, error) {
	cleaned := form.Clean(tv.validator)
	if validationError := tv.validator.Struct(cleaned); validationError != nil {
		return cleaned, validationError
	}
	return cleaned, nil
}

// ValidateTaskForCreation validates the new-task profile
func (tv *TaskValidator) ValidateTaskForCreation(form TaskForm) (TaskForm, error) {
	return tv.ValidateForm(form)
}

// ValidateTaskForUpdate validates the update-task profile, which also needs a
// valid target ID
func (tv *TaskValidator) ValidateTaskForUpdate(id int64, form TaskForm) (TaskForm, error) {
	validationError := NewValidationError()

	if !tv.validator.IsValidID(id) {
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
	}

	cleaned, err := tv.ValidateForm(form)
	if formErr, ok := err.(*ValidationError); ok {
		validationError.Merge(formErr)
	}

	if validationError.HasErrors() {
		return cleaned, validationError
	}
	return cleaned, nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// TitleMaxLength returns the title limit enforced by this validator
func (tv *TaskValidator) TitleMaxLength() int {
	return tv.validator.TitleMaxLength()
}
