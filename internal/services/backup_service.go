package services

import (
	"context"
	"log/slog"

	applog "profesorhub/internal/log"
)

// BackupPublisher is the messaging side of backup requests; the AMQP
// client implements it.
type BackupPublisher interface {
	PublishBackupRequest(ctx context.Context, profesorID, reason string) error
}

// BackupService publishes backup requests, degrading to a no-op when
// messaging is not configured.
type BackupService struct {
	publisher BackupPublisher
}

func NewBackupService(publisher BackupPublisher) *BackupService {
	return &BackupService{publisher: publisher}
}

func (s *BackupService) RequestBackup(ctx context.Context, profesorID, reason string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping backup request",
			applog.FieldComponent, applog.ComponentBackup,
			applog.FieldProfesorID, profesorID)
		return nil
	}
	return s.publisher.PublishBackupRequest(ctx, profesorID, reason)
}

// Enabled reports whether backup requests actually go anywhere.
func (s *BackupService) Enabled() bool {
	return s.publisher != nil
}
