package services

import (
	"context"
	"errors"
	"testing"
)

type recordingPublisher struct {
	calls []string
	err   error
}

func (r *recordingPublisher) PublishBackupRequest(_ context.Context, profesorID, reason string) error {
	r.calls = append(r.calls, profesorID+"/"+reason)
	return r.err
}

func TestRequestBackupPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewBackupService(pub)

	if err := svc.RequestBackup(context.Background(), "prof-1", "admin"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(pub.calls) != 1 || pub.calls[0] != "prof-1/admin" {
		t.Fatalf("calls = %v", pub.calls)
	}
	if !svc.Enabled() {
		t.Fatalf("expected enabled with a publisher")
	}
}

func TestRequestBackupWithoutPublisher(t *testing.T) {
	svc := NewBackupService(nil)
	if err := svc.RequestBackup(context.Background(), "prof-1", "admin"); err != nil {
		t.Fatalf("nil publisher must be a no-op, got %v", err)
	}
	if svc.Enabled() {
		t.Fatalf("expected disabled without a publisher")
	}
}

func TestRequestBackupPropagatesError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewBackupService(pub)
	if err := svc.RequestBackup(context.Background(), "prof-1", "admin"); err == nil {
		t.Fatalf("expected error from publisher")
	}
}
