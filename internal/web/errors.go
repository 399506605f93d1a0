package web

import (
	stderrors "errors"
	"net/http"

	"task-tracker/internal/errors"
	"task-tracker/internal/validation"
)

// StatusFor maps an application error to the HTTP status of its error page.
// Validation errors never reach an error page; they re-render the form.
func StatusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case errors.ErrorTypeNotFound, errors.ErrorTypeInvalidInput:
		return http.StatusNotFound
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorType returns the metrics label for err
func errorType(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Type.String()
	}
	return "unknown"
}

// fieldErrors extracts the per-field messages of a failed form, or nil when
// err is not a validation failure
func fieldErrors(err error) map[string][]string {
	if !errors.IsErrorType(err, errors.ErrorTypeValidation) && !validation.IsValidationError(err) {
		return nil
	}
	var ve *validation.ValidationError
	if !stderrors.As(err, &ve) {
		return map[string][]string{"form": {errors.GetUserMessage(err)}}
	}
	return ve.FieldMessages()
}

// pageMessage is the text shown on the error page. Internal failures are not
// described to the user.
func pageMessage(status int, err error) string {
	switch status {
	case http.StatusNotFound:
		return "The requested task does not exist."
	case http.StatusServiceUnavailable:
		return "The service is busy, try again later."
	case http.StatusInternalServerError:
		return "Something went wrong."
	default:
		return errors.GetUserMessage(err)
	}
}
