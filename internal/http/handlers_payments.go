package http

import (
	"encoding/json"
	"net/http"
	"time"

	"profesorhub/internal/core"
)

type paymentRequest struct {
	EstudianteID       int64           `json:"estudiante_id"`
	Monto              json.RawMessage `json:"monto"`
	Mes                int             `json:"mes"`
	Anio               int             `json:"anio"`
	Tipo               string          `json:"tipo"`
	FechaPago          core.Date       `json:"fecha_pago"`
	ConfirmarDuplicado bool            `json:"confirmar_duplicado"`
}

// handleListPayments returns all payments, or one period's when mes/anio
// query params are present.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())

	q := r.URL.Query()
	if q.Get("mes") == "" && q.Get("anio") == "" {
		payments, err := s.store.ListPayments(r.Context(), p.ID)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, payments)
		return
	}

	period, ok := queryPeriod(r, core.PeriodOf(time.Now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid mes/anio")
		return
	}
	payments, err := s.store.ListPaymentsByPeriod(r.Context(), p.ID, period)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	var req paymentRequest
	if !readJSON(w, r, &req) {
		return
	}

	cents, err := montoCents(req.Monto)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payment := core.Payment{
		ProfesorID:   p.ID,
		EstudianteID: req.EstudianteID,
		Monto:        core.Money{Cents: cents},
		Mes:          req.Mes,
		Anio:         req.Anio,
		Tipo:         core.PaymentType(req.Tipo),
		FechaPago:    req.FechaPago,
	}
	// Tipo unico must bring its own fecha_pago, it decides the period.
	if payment.FechaPago.IsZero() && payment.Tipo != core.PagoUnico {
		payment.FechaPago = core.Date{Time: time.Now().UTC()}
	}

	created, err := s.payments.RegisterPayment(r.Context(), payment, req.ConfirmarDuplicado)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeletePayment(r.Context(), p.ID, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusOK, nil)
}
