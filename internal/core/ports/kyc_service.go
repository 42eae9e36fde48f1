package ports

import "context"

// BasicInfoInput carries the step-one form fields.
type BasicInfoInput struct {
	UserID    string
	SSN       string
	FirstName string
	LastName  string
	DOB       string // DD/MM/YYYY
}

// DocumentInput carries the step-two form fields. Document is the raw
// uploaded image; the service owns the base64 encoding.
type DocumentInput struct {
	UserID       string
	DocumentType string
	Document     []byte
}

// SelfieInput carries the step-three form fields.
type SelfieInput struct {
	UserID  string
	Picture []byte
}

// StatusResult is the read-only verification progress view.
type StatusResult struct {
	UserID            string
	VerificationLevel int
	FullyVerified     bool
}

// KYCService defines the three verification steps plus the progress lookup.
// Each Confirm method runs the full gate contract (completeness, level
// precondition, already-completed) before its step-specific validation, and
// persists evidence plus the level bump atomically on success. On any error
// the stored state is untouched.
type KYCService interface {
	ConfirmBasicInfo(ctx context.Context, in BasicInfoInput) error
	ConfirmDocument(ctx context.Context, in DocumentInput) error
	ConfirmSelfie(ctx context.Context, in SelfieInput) error
	Status(ctx context.Context, userID string) (*StatusResult, error)
}
