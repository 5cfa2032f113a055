// Package services orchestrates store access, aggregation and messaging
// for the HTTP layer.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"profesorhub/internal/core"
	applog "profesorhub/internal/log"
	"profesorhub/internal/store"
)

var (
	// ErrDuplicatePayment signals that the student already has a payment for
	// the period and the request did not confirm the duplicate.
	ErrDuplicatePayment = errors.New("duplicate payment for period")
	// ErrMissingFechaPago rejects a tipo unico payment without a fecha_pago.
	ErrMissingFechaPago = errors.New("fecha_pago is required for tipo unico")
)

type PaymentService struct {
	store store.Store
}

func NewPaymentService(st store.Store) *PaymentService {
	return &PaymentService{store: st}
}

// RegisterPayment validates and stores a payment. For tipo "unico" the
// period is derived from fecha_pago here, once; it is stored as-is and
// never re-derived afterwards. Without confirmDuplicate a second payment
// for the same (estudiante, mes, anio) is rejected.
func (s *PaymentService) RegisterPayment(ctx context.Context, p core.Payment, confirmDuplicate bool) (core.Payment, error) {
	if p.Tipo == "" {
		p.Tipo = core.PagoMensual
	}
	if p.Tipo == core.PagoUnico {
		if p.FechaPago.IsZero() {
			return core.Payment{}, ErrMissingFechaPago
		}
		period := p.FechaPago.Period()
		p.Mes = period.Mes
		p.Anio = period.Anio
	}

	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	if _, err := s.store.GetStudent(ctx, p.ProfesorID, p.EstudianteID); err != nil {
		return core.Payment{}, fmt.Errorf("lookup estudiante: %w", err)
	}

	if !confirmDuplicate {
		n, err := s.store.CountPayments(ctx, p.ProfesorID, p.EstudianteID, p.Periodo())
		if err != nil {
			return core.Payment{}, fmt.Errorf("check duplicates: %w", err)
		}
		if n > 0 {
			slog.InfoContext(ctx, "Duplicate payment rejected pending confirmation",
				applog.FieldProfesorID, p.ProfesorID,
				applog.FieldEstudianteID, p.EstudianteID,
				applog.FieldMes, p.Mes,
				applog.FieldAnio, p.Anio)
			return core.Payment{}, ErrDuplicatePayment
		}
	}

	created, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		return core.Payment{}, fmt.Errorf("create pago: %w", err)
	}
	return created, nil
}

// History returns a student's payments ordered newest period first.
func (s *PaymentService) History(ctx context.Context, profesorID string, estudianteID int64) ([]core.Payment, error) {
	if _, err := s.store.GetStudent(ctx, profesorID, estudianteID); err != nil {
		return nil, err
	}
	payments, err := s.store.ListPaymentsByStudent(ctx, profesorID, estudianteID)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	// Newest period first, then newest row.
	sort.Slice(payments, func(i, j int) bool {
		a, b := payments[i], payments[j]
		if a.Anio != b.Anio {
			return a.Anio > b.Anio
		}
		if a.Mes != b.Mes {
			return a.Mes > b.Mes
		}
		return a.ID > b.ID
	})
	return payments, nil
}
