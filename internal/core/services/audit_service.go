package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

type auditService struct {
	BaseService
	store portsrepo.Store
}

func NewAuditService(store portsrepo.Store, options ...ServiceOption) portssvc.AuditSvc {
	return &auditService{BaseService: newBaseService(options), store: store}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

func (s *auditService) RecordWithin(ctx context.Context, tx portsrepo.Store, entry domain.TransactionAuditLogEntry) error {
	if entry.AuditLogEntryID == "" {
		entry.AuditLogEntryID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = s.now()
	}
	if entry.Messages == nil {
		entry.Messages = []string{}
	}
	if err := tx.AuditLog().AppendAuditLogEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry for %s %s: %w", entry.Subject.Kind, entry.Subject.ID, err)
	}
	return nil
}

func (s *auditService) History(ctx context.Context, subject domain.SubjectRef) ([]domain.TransactionAuditLogEntry, error) {
	return s.store.AuditLog().ListAuditLogEntries(ctx, subject)
}
