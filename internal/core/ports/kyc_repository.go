package ports

import (
	"context"

	"github.com/solofunds/kyc-service/internal/core/domain"
)

// KYCRepository defines persistence operations for the verification aggregate.
//
// The Advance* methods implement the atomic unit the state machine relies on:
// a compare-and-set on (user id, expected level) that bumps the level by one
// and appends the evidence record in the same write. When the stored level no
// longer equals from, no write happens and domain.ErrStaleLevel is returned —
// this is what guarantees at-most-one successful advance per level even under
// concurrent attempts.
type KYCRepository interface {
	// EnsureUser upserts the user record (level 0, created now) and returns
	// its current state. Safe to call concurrently for the same id.
	EnsureUser(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByID returns domain.ErrUserNotFound when no record exists.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	AdvanceWithBasicInfo(ctx context.Context, userID string, from domain.VerificationLevel, info domain.BasicInfo) error
	AdvanceWithDocument(ctx context.Context, userID string, from domain.VerificationLevel, doc domain.DocumentRecord) error
	AdvanceWithSelfie(ctx context.Context, userID string, from domain.VerificationLevel, selfie domain.SelfieRecord) error
}
