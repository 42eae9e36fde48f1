package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/solofunds/kyc-service/internal/core/domain"
	"github.com/solofunds/kyc-service/internal/core/ports"
)

// faceMatchThreshold is the minimum similarity score accepted at step three.
// Policy constant, tunable: raising it tightens liveness verification at the
// cost of more false rejections.
const faceMatchThreshold = 0.5

// providerCountryCode is sent with every OCR request; only US documents are
// supported by the current product.
const providerCountryCode = "USA"

// KYCService implements the step-gated verification state machine.
type KYCService struct {
	repo     ports.KYCRepository
	provider ports.IdentityProvider
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewKYCService(repo ports.KYCRepository, provider ports.IdentityProvider, audit ports.AuditRecorder, log zerolog.Logger) *KYCService {
	return &KYCService{repo: repo, provider: provider, audit: audit, log: log}
}

// ConfirmBasicInfo runs step one: validates SSN format and date of birth,
// then advances the user from level 0 to 1 with the basic-info evidence.
// The user record is created lazily (atomic upsert) on first contact.
func (s *KYCService) ConfirmBasicInfo(ctx context.Context, in ports.BasicInfoInput) (err error) {
	defer func() { s.record(in.UserID, domain.StepBasicInfo, err) }()

	if in.UserID == "" || in.SSN == "" || in.FirstName == "" || in.LastName == "" || in.DOB == "" {
		return domain.ErrFieldsIncomplete
	}

	user, uerr := s.repo.EnsureUser(ctx, in.UserID)
	if uerr != nil {
		return fmt.Errorf("step one: ensure user: %w", uerr)
	}
	if gerr := user.VerificationLevel.Gate(domain.StepBasicInfo); gerr != nil {
		return gerr
	}

	if !domain.ValidSSN(in.SSN) {
		return domain.ErrInvalidSSN
	}
	dob, derr := domain.ParseDOB(in.DOB)
	if derr != nil {
		return derr
	}

	info := domain.BasicInfo{
		SSN:        in.SSN,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		DOB:        dob,
		RecordedAt: time.Now().UTC(),
	}
	if aerr := s.repo.AdvanceWithBasicInfo(ctx, user.ID, domain.LevelUnverified, info); aerr != nil {
		if errors.Is(aerr, domain.ErrStaleLevel) {
			return s.reclassify(ctx, user.ID, domain.StepBasicInfo)
		}
		return fmt.Errorf("step one: persist: %w", aerr)
	}

	s.log.Info().Str("user_id", user.ID).Msg("basic info confirmed")
	return nil
}

// ConfirmDocument runs step two: submits the document to the provider's OCR,
// checks the extracted names against the basic info on file and that a face
// was extracted, then advances the user from level 1 to 2.
func (s *KYCService) ConfirmDocument(ctx context.Context, in ports.DocumentInput) (err error) {
	defer func() { s.record(in.UserID, domain.StepDocument, err) }()

	if in.UserID == "" || in.DocumentType == "" || len(in.Document) == 0 {
		return domain.ErrFieldsIncomplete
	}
	docType, terr := domain.ParseDocumentType(in.DocumentType)
	if terr != nil {
		return terr
	}

	user, uerr := s.findUser(ctx, in.UserID)
	if uerr != nil {
		return uerr
	}
	if gerr := user.VerificationLevel.Gate(domain.StepDocument); gerr != nil {
		return gerr
	}
	basic := user.LatestBasicInfo()
	if basic == nil {
		return fmt.Errorf("step two: no basic info on file for user %s at level %d", user.ID, user.VerificationLevel)
	}

	// Provider call completes and is validated before anything is written, so
	// a provider failure leaves no partial state.
	encoded := base64.StdEncoding.EncodeToString(in.Document)
	scan, perr := s.provider.ScanDocument(ctx, ports.DocumentScanInput{
		ImageBase64:  encoded,
		CountryCode:  providerCountryCode,
		TemplateCode: docType.TemplateCode(),
	})
	if perr != nil {
		s.log.Error().Err(perr).Str("user_id", user.ID).Msg("document scan failed")
		return fmt.Errorf("step two: %w", perr)
	}

	// Uniform rejection: the response never discloses which sub-check failed.
	nameMatch := strings.EqualFold(basic.FirstName, scan.FirstName) &&
		strings.EqualFold(basic.LastName, scan.LastName)
	if !nameMatch || scan.FaceImageBase64 == "" {
		s.log.Info().Str("user_id", user.ID).Bool("name_match", nameMatch).
			Bool("face_present", scan.FaceImageBase64 != "").Msg("document rejected")
		return domain.ErrDocumentRejected
	}

	record := domain.DocumentRecord{
		Type:            docType,
		DocumentBase64:  encoded,
		FaceImageBase64: scan.FaceImageBase64,
		RecordedAt:      time.Now().UTC(),
	}
	if aerr := s.repo.AdvanceWithDocument(ctx, user.ID, domain.LevelBasicInfoConfirmed, record); aerr != nil {
		if errors.Is(aerr, domain.ErrStaleLevel) {
			return s.reclassify(ctx, user.ID, domain.StepDocument)
		}
		return fmt.Errorf("step two: persist: %w", aerr)
	}

	s.log.Info().Str("user_id", user.ID).Str("document_type", string(docType)).Msg("document confirmed")
	return nil
}

// ConfirmSelfie runs step three: matches the live capture against the face
// extracted from the document at step two, then advances the user from
// level 2 to 3 (terminal).
func (s *KYCService) ConfirmSelfie(ctx context.Context, in ports.SelfieInput) (err error) {
	defer func() { s.record(in.UserID, domain.StepSelfie, err) }()

	if in.UserID == "" || len(in.Picture) == 0 {
		return domain.ErrFieldsIncomplete
	}

	user, uerr := s.findUser(ctx, in.UserID)
	if uerr != nil {
		return uerr
	}
	if gerr := user.VerificationLevel.Gate(domain.StepSelfie); gerr != nil {
		return gerr
	}
	doc := user.LatestDocument()
	if doc == nil {
		return fmt.Errorf("step three: no document on file for user %s at level %d", user.ID, user.VerificationLevel)
	}

	encoded := base64.StdEncoding.EncodeToString(in.Picture)
	match, perr := s.provider.MatchFaces(ctx, ports.FaceMatchInput{
		SourceImageBase64: doc.FaceImageBase64,
		TargetImageBase64: encoded,
	})
	if perr != nil {
		s.log.Error().Err(perr).Str("user_id", user.ID).Msg("face match failed")
		return fmt.Errorf("step three: %w", perr)
	}
	if match.Score < faceMatchThreshold {
		s.log.Info().Str("user_id", user.ID).Float64("score", match.Score).Msg("selfie rejected")
		return domain.ErrSelfieRejected
	}

	selfie := domain.SelfieRecord{
		PictureBase64: encoded,
		RecordedAt:    time.Now().UTC(),
	}
	if aerr := s.repo.AdvanceWithSelfie(ctx, user.ID, domain.LevelDocumentConfirmed, selfie); aerr != nil {
		if errors.Is(aerr, domain.ErrStaleLevel) {
			return s.reclassify(ctx, user.ID, domain.StepSelfie)
		}
		return fmt.Errorf("step three: persist: %w", aerr)
	}

	s.log.Info().Str("user_id", user.ID).Float64("score", match.Score).Msg("user fully verified")
	return nil
}

// Status returns the user's current verification progress.
func (s *KYCService) Status(ctx context.Context, userID string) (*ports.StatusResult, error) {
	if userID == "" {
		return nil, domain.ErrFieldsIncomplete
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.StatusResult{
		UserID:            user.ID,
		VerificationLevel: int(user.VerificationLevel),
		FullyVerified:     user.VerificationLevel == domain.LevelFullyVerified,
	}, nil
}

// findUser loads the user for steps two and three, where a missing record
// means the caller skipped step one.
func (s *KYCService) findUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrStepForbidden
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// reclassify resolves a compare-and-set miss: a concurrent attempt changed
// the level between the gate check and the advance. The user is re-read so
// the caller gets the same error the gate would produce now.
func (s *KYCService) reclassify(ctx context.Context, userID string, step domain.Step) error {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return domain.ErrStepForbidden
	}
	if gerr := user.VerificationLevel.Gate(step); gerr != nil {
		return gerr
	}
	return domain.ErrStepForbidden
}

// record enqueues the attempt outcome on the audit trail (best-effort).
func (s *KYCService) record(userID string, step domain.Step, err error) {
	if s.audit == nil || userID == "" {
		return
	}
	entry := domain.AuditEntry{
		UserID:    userID,
		Step:      step.String(),
		Outcome:   domain.Outcome(err),
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	s.audit.Record(entry)
}
