package ports

import (
	"context"

	"github.com/solofunds/kyc-service/internal/core/domain"
)

// AuditRecorder accepts step-attempt outcomes for asynchronous recording.
// Recording is best-effort: implementations never block the caller and never
// surface errors into the verification flow.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// ListByUser returns the most recent entries for a user, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]domain.AuditEntry, error)
}
