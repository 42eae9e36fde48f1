package domain

import (
	"errors"
	"time"
)

// VerificationLevel marks how far a user has progressed through the KYC flow.
type VerificationLevel int

const (
	LevelUnverified        VerificationLevel = 0
	LevelBasicInfoConfirmed VerificationLevel = 1
	LevelDocumentConfirmed  VerificationLevel = 2
	LevelFullyVerified      VerificationLevel = 3
)

// Step identifies one of the three KYC phases.
type Step int

const (
	StepBasicInfo Step = 1
	StepDocument  Step = 2
	StepSelfie    Step = 3
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "step_one"
	case StepDocument:
		return "step_two"
	case StepSelfie:
		return "step_three"
	default:
		return "unknown"
	}
}

// RequiredLevel is the level a user must hold to attempt this step.
func (s Step) RequiredLevel() VerificationLevel { return VerificationLevel(s) - 1 }

// TargetLevel is the level a user holds after completing this step.
func (s Step) TargetLevel() VerificationLevel { return VerificationLevel(s) }

var ErrFieldsIncomplete = errors.New("form fields are incomplete")
var ErrInvalidSSN = errors.New("you have provided an invalid SSN")
var ErrInvalidDOB = errors.New("you have provided an invalid DOB")
var ErrInvalidDocumentType = errors.New("an invalid document type was provided")
var ErrStepForbidden = errors.New("user is not allowed to attempt this verification phase")
var ErrStepCompleted = errors.New("this user has completed this verification already")
var ErrDocumentRejected = errors.New("the ID submitted does not pass verification")
var ErrSelfieRejected = errors.New("the image submitted does not pass verification")
var ErrProviderFailure = errors.New("identity provider request failed")
var ErrUserNotFound = errors.New("user not found")

// ErrStaleLevel is returned by the repository when a compare-and-set advance
// finds the stored level no longer matches the expected one (a concurrent
// attempt won the race). It never reaches the transport layer; the service
// re-reads the user and reclassifies it as ErrStepCompleted or ErrStepForbidden.
var ErrStaleLevel = errors.New("verification level changed concurrently")

// Gate applies the step precondition checks to the current level.
// The completed check runs first so a re-submission of a finished step is
// reported as a conflict rather than an ordering violation.
func (l VerificationLevel) Gate(s Step) error {
	if l >= s.TargetLevel() {
		return ErrStepCompleted
	}
	if l != s.RequiredLevel() {
		return ErrStepForbidden
	}
	return nil
}

// DocumentType enumerates the accepted identity documents.
type DocumentType string

const (
	DocumentPassport       DocumentType = "passport"
	DocumentNationalID     DocumentType = "national ID"
	DocumentDriversLicense DocumentType = "driver's license"
)

// ParseDocumentType validates the declared document type.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocumentPassport, DocumentNationalID, DocumentDriversLicense:
		return DocumentType(s), nil
	default:
		return "", ErrInvalidDocumentType
	}
}

// TemplateCode maps the document type to the OCR template the provider expects.
// Driver's licenses carry a PDF417 barcode; passports and national IDs carry
// a machine-readable zone.
func (d DocumentType) TemplateCode() string {
	if d == DocumentDriversLicense {
		return "PDF417"
	}
	return "MRZ"
}

// User is the aggregate the state machine operates on. Evidence records are
// embedded so a level advance and its evidence append form a single document
// write (see the repository's compare-and-set contract).
type User struct {
	ID                string            `bson:"_id" json:"id"`
	VerificationLevel VerificationLevel `bson:"verification_level" json:"verification_level"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`

	BasicInfo []BasicInfo      `bson:"basic_info,omitempty" json:"-"`
	Documents []DocumentRecord `bson:"documents,omitempty" json:"-"`
	Selfies   []SelfieRecord   `bson:"selfies,omitempty" json:"-"`
}

// LatestBasicInfo returns the most recent basic-info record, or nil.
func (u *User) LatestBasicInfo() *BasicInfo {
	if len(u.BasicInfo) == 0 {
		return nil
	}
	return &u.BasicInfo[len(u.BasicInfo)-1]
}

// LatestDocument returns the most recent document record, or nil.
func (u *User) LatestDocument() *DocumentRecord {
	if len(u.Documents) == 0 {
		return nil
	}
	return &u.Documents[len(u.Documents)-1]
}

// BasicInfo is the evidence persisted by a successful step one.
// SSN is format-validated only; no bureau lookup is performed.
type BasicInfo struct {
	SSN        string    `bson:"ssn"`
	FirstName  string    `bson:"first_name"`
	LastName   string    `bson:"last_name"`
	DOB        time.Time `bson:"dob"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// DocumentRecord is the evidence persisted by a successful step two.
// FaceImageBase64 holds the face the provider extracted from the document;
// step three matches the live capture against it.
type DocumentRecord struct {
	Type            DocumentType `bson:"document_type"`
	DocumentBase64  string       `bson:"document_base64"`
	FaceImageBase64 string       `bson:"face_image"`
	RecordedAt      time.Time    `bson:"recorded_at"`
}

// SelfieRecord is the evidence persisted by a successful step three.
type SelfieRecord struct {
	PictureBase64 string    `bson:"picture_base64"`
	RecordedAt    time.Time `bson:"recorded_at"`
}

// AuditEntry records the outcome of a single step attempt.
type AuditEntry struct {
	UserID    string    `bson:"user_id"`
	Step      string    `bson:"step"`
	Outcome   string    `bson:"outcome"`
	Detail    string    `bson:"detail,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}
