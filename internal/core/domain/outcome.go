package domain

import "errors"

// Outcome classifies a step result into the label used by the audit trail
// and the step metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "approved"
	case errors.Is(err, ErrFieldsIncomplete),
		errors.Is(err, ErrInvalidSSN),
		errors.Is(err, ErrInvalidDOB),
		errors.Is(err, ErrInvalidDocumentType):
		return "invalid_input"
	case errors.Is(err, ErrStepForbidden):
		return "forbidden"
	case errors.Is(err, ErrStepCompleted):
		return "conflict"
	case errors.Is(err, ErrDocumentRejected), errors.Is(err, ErrSelfieRejected):
		return "rejected"
	case errors.Is(err, ErrProviderFailure):
		return "provider_error"
	default:
		return "error"
	}
}
