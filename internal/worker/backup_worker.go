// Package worker contains the backup worker: it consumes backup requests
// from the queue, dumps tenants to timestamped JSON files and optionally
// exports the current month summary to a spreadsheet.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"profesorhub/internal/amqp"
	"profesorhub/internal/core"
	"profesorhub/internal/export"
	applog "profesorhub/internal/log"
	"profesorhub/internal/store"
)

type BackupWorker struct {
	store    store.Store
	dir      string
	exporter export.SummaryWriter

	now func() time.Time
}

func NewBackupWorker(st store.Store, dir string, exporter export.SummaryWriter) *BackupWorker {
	return &BackupWorker{
		store:    st,
		dir:      dir,
		exporter: exporter,
		now:      time.Now,
	}
}

// HandleBackupRequest processes one queue message. An empty profesor_id
// means "every tenant" (the periodic fallback publishes that form).
func (w *BackupWorker) HandleBackupRequest(ctx context.Context, msg *amqp.BackupRequestMessage) error {
	if msg.ProfesorID != "" {
		return w.backupOne(ctx, msg.ProfesorID)
	}
	return w.BackupAll(ctx)
}

// BackupAll snapshots every profesor. One failing tenant does not stop
// the rest; the first error is reported after the sweep.
func (w *BackupWorker) BackupAll(ctx context.Context) error {
	profesores, err := w.store.ListProfesores(ctx)
	if err != nil {
		return fmt.Errorf("list profesores: %w", err)
	}

	var firstErr error
	for _, p := range profesores {
		if err := w.backupOne(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Backup failed for profesor",
				applog.FieldProfesorID, p.ID, applog.FieldError, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (w *BackupWorker) backupOne(ctx context.Context, profesorID string) error {
	snap, err := w.store.DumpProfesor(ctx, profesorID)
	if err != nil {
		return fmt.Errorf("dump profesor: %w", err)
	}

	path, err := w.writeSnapshot(snap)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Backup written",
		applog.FieldComponent, applog.ComponentBackup,
		applog.FieldProfesorID, profesorID,
		"path", path,
		"estudiantes", len(snap.Students),
		"pagos", len(snap.Payments))

	if w.exporter != nil {
		if err := w.exportSummary(ctx, snap); err != nil {
			// The local snapshot is already safe; the export retries on
			// the next run.
			slog.ErrorContext(ctx, "Summary export failed",
				applog.FieldProfesorID, profesorID, applog.FieldError, err)
		}
	}
	return nil
}

func (w *BackupWorker) writeSnapshot(snap store.Snapshot) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	stamp := w.now().UTC().Format("20060102T150405Z")
	path := filepath.Join(w.dir, fmt.Sprintf("backup_%s_%s.json", stamp, snap.Profesor.ID))

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

func (w *BackupWorker) exportSummary(ctx context.Context, snap store.Snapshot) error {
	period := core.PeriodOf(w.now())

	var payments []core.Payment
	for _, p := range snap.Payments {
		if p.Periodo() == period {
			payments = append(payments, p)
		}
	}
	var expenses []core.Expense
	for _, e := range snap.Expenses {
		if !e.Fecha.IsZero() && e.Fecha.Period() == period {
			expenses = append(expenses, e)
		}
	}

	summary := core.Reconcile(period, snap.Students, payments, expenses)
	return w.exporter.AppendMonthSummary(ctx, snap.Profesor, summary)
}

// Run consumes the backup queue and keeps a periodic full-sweep fallback
// so backups happen even when nobody triggers them.
func (w *BackupWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.BackupAll(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic backup sweep failed", applog.FieldError, err)
				}
			}
		}
	}()

	return client.ConsumeBackupRequests(ctx, func(msg *amqp.BackupRequestMessage) error {
		return w.HandleBackupRequest(ctx, msg)
	})
}
