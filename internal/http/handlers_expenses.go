package http

import (
	"encoding/json"
	"net/http"
	"time"

	"profesorhub/internal/core"
)

type expenseRequest struct {
	Descripcion string          `json:"descripcion"`
	Monto       json.RawMessage `json:"monto"`
	Categoria   string          `json:"categoria"`
	Fecha       core.Date       `json:"fecha"`
}

// handleListExpenses returns all expenses, or one calendar month's when
// mes/anio query params are present. Expenses bucket by fecha.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())

	q := r.URL.Query()
	if q.Get("mes") == "" && q.Get("anio") == "" {
		expenses, err := s.store.ListExpenses(r.Context(), p.ID)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, expenses)
		return
	}

	period, ok := queryPeriod(r, core.PeriodOf(time.Now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid mes/anio")
		return
	}
	expenses, err := s.store.ListExpensesByPeriod(r.Context(), p.ID, period)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	var req expenseRequest
	if !readJSON(w, r, &req) {
		return
	}

	cents, err := montoCents(req.Monto)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	expense := core.Expense{
		ProfesorID:  p.ID,
		Descripcion: sanitizeInput(req.Descripcion),
		Monto:       core.Money{Cents: cents},
		Categoria:   sanitizeInput(req.Categoria),
		Fecha:       req.Fecha,
	}
	if expense.Fecha.IsZero() {
		expense.Fecha = core.Date{Time: time.Now().UTC()}
	}
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !validCategoria(expense.Categoria) {
		writeError(w, http.StatusUnprocessableEntity, "unknown categoria")
		return
	}

	created, err := s.store.CreateExpense(r.Context(), expense)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusCreated, created)
}

func validCategoria(c string) bool {
	for _, known := range core.Categorias {
		if c == known {
			return true
		}
	}
	return false
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteExpense(r.Context(), p.ID, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Categorias)
}

type attendanceRequest struct {
	EstudianteID int64     `json:"estudiante_id"`
	Fecha        core.Date `json:"fecha"`
	Asistio      bool      `json:"asistio"`
}

func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	var req attendanceRequest
	if !readJSON(w, r, &req) {
		return
	}

	if _, err := s.store.GetStudent(r.Context(), p.ID, req.EstudianteID); err != nil {
		writeStoreError(w, r, err)
		return
	}

	record := core.Attendance{
		ProfesorID:   p.ID,
		EstudianteID: req.EstudianteID,
		Fecha:        req.Fecha,
		Asistio:      req.Asistio,
	}
	if record.Fecha.IsZero() {
		record.Fecha = core.Date{Time: time.Now().UTC()}
	}

	created, err := s.store.RecordAttendance(r.Context(), record)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusCreated, created)
}
