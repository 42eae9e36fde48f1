package ports

import "context"

// DocumentScanInput is a request to the provider's OCR capability.
type DocumentScanInput struct {
	ImageBase64  string
	CountryCode  string
	TemplateCode string // "MRZ" or "PDF417"
}

// DocumentScanResult carries the fields extracted from the document.
// FaceImageBase64 is empty when the provider found no face in the document;
// that is a scan outcome, not a provider failure, and carries no error.
type DocumentScanResult struct {
	FirstName       string
	LastName        string
	FaceImageBase64 string
}

// FaceMatchInput is a request to the provider's face-match capability.
// Source is the reference image (extracted from the ID document), Target the
// live capture being verified against it.
type FaceMatchInput struct {
	SourceImageBase64 string
	TargetImageBase64 string
}

// FaceMatchResult carries the biometric similarity score in [0, 1].
type FaceMatchResult struct {
	Score float64
}

// IdentityProvider abstracts the external OCR / face-match vendor so the
// state machine never talks to the network directly. Implementations return
// an error wrapping domain.ErrProviderFailure for transport failures and
// unparseable responses.
type IdentityProvider interface {
	ScanDocument(ctx context.Context, in DocumentScanInput) (*DocumentScanResult, error)
	MatchFaces(ctx context.Context, in FaceMatchInput) (*FaceMatchResult, error)
}
