package handler

// envelope is the response body used on every endpoint:
// {"msg": <human string>, "data": <null or payload>}.
type envelope struct {
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// Success messages are product wording carried over from the verification
// flow's original copy. Note the step-one message claims an SSN match even
// though only the format is checked; that discrepancy is a known product
// decision, not a bug to fix here.
const (
	msgBasicInfoConfirmed = "the SSN provided matches the data provided"
	msgDocumentConfirmed  = "the ID submitted passes verification"
	msgSelfieConfirmed    = "the image submitted passes verification"
)

// --- Request types (form-encoded) ---

type stepOneRequest struct {
	UserID    string `form:"user_id"    validate:"required"`
	SSN       string `form:"ssn"        validate:"required"`
	FirstName string `form:"first_name" validate:"required"`
	LastName  string `form:"last_name"  validate:"required"`
	DOB       string `form:"dob"        validate:"required"`
}

// stepTwoRequest carries the non-file fields of step two; the document
// image itself arrives as a multipart file upload.
type stepTwoRequest struct {
	UserID       string `form:"user_id"       validate:"required"`
	DocumentType string `form:"document_type" validate:"required"`
}

type stepThreeRequest struct {
	UserID string `form:"user_id" validate:"required"`
}

// --- Response payloads ---

// statusData is the payload of GET /kyc/status/:user_id.
type statusData struct {
	UserID            string `json:"user_id"`
	VerificationLevel int    `json:"verification_level"`
	FullyVerified     bool   `json:"fully_verified"`
}
