// Package memory provides an in-memory Store used in tests and as the
// default backend when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"profesorhub/internal/core"
	"profesorhub/internal/store"
)

type Store struct {
	mu sync.RWMutex

	profesores map[string]core.Profesor
	students   map[int64]core.Student
	groups     map[int64]core.Group
	payments   map[int64]core.Payment
	expenses   map[int64]core.Expense
	notes      map[int64]core.Note
	attendance map[int64]core.Attendance

	nextID int64
}

func New() *Store {
	return &Store{
		profesores: make(map[string]core.Profesor),
		students:   make(map[int64]core.Student),
		groups:     make(map[int64]core.Group),
		payments:   make(map[int64]core.Payment),
		expenses:   make(map[int64]core.Expense),
		notes:      make(map[int64]core.Note),
		attendance: make(map[int64]core.Attendance),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- profesores ---

func (s *Store) CreateProfesor(_ context.Context, p core.Profesor) (core.Profesor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profesores {
		if strings.EqualFold(existing.Email, p.Email) {
			return core.Profesor{}, store.ErrDuplicateEmail
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.profesores[p.ID] = p
	return p, nil
}

func (s *Store) GetProfesorByID(_ context.Context, id string) (core.Profesor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profesores[id]
	if !ok {
		return core.Profesor{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) GetProfesorByEmail(_ context.Context, email string) (core.Profesor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profesores {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return core.Profesor{}, store.ErrNotFound
}

func (s *Store) ListProfesores(_ context.Context) ([]core.Profesor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Profesor, 0, len(s.profesores))
	for _, p := range s.profesores {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SetProfesorVerificado(_ context.Context, id string, verificado bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profesores[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Verificado = verificado
	if verificado {
		now := time.Now().UTC()
		p.FechaVerificacion = &now
	} else {
		p.FechaVerificacion = nil
	}
	s.profesores[id] = p
	return nil
}

func (s *Store) SetProfesorDeshabilitado(_ context.Context, id string, deshabilitado bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profesores[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Deshabilitado = deshabilitado
	s.profesores[id] = p
	return nil
}

func (s *Store) UpdateProfesorPassword(_ context.Context, id string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profesores[id]
	if !ok {
		return store.ErrNotFound
	}
	p.PasswordHash = passwordHash
	s.profesores[id] = p
	return nil
}

func (s *Store) DeleteProfesor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profesores[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.profesores, id)
	for sid, st := range s.students {
		if st.ProfesorID == id {
			delete(s.students, sid)
		}
	}
	for gid, g := range s.groups {
		if g.ProfesorID == id {
			delete(s.groups, gid)
		}
	}
	for pid, p := range s.payments {
		if p.ProfesorID == id {
			delete(s.payments, pid)
		}
	}
	for eid, e := range s.expenses {
		if e.ProfesorID == id {
			delete(s.expenses, eid)
		}
	}
	for nid, n := range s.notes {
		if n.ProfesorID == id {
			delete(s.notes, nid)
		}
	}
	for aid, a := range s.attendance {
		if a.ProfesorID == id {
			delete(s.attendance, aid)
		}
	}
	return nil
}

// --- estudiantes ---

func (s *Store) CreateStudent(_ context.Context, st core.Student) (core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.ID = s.id()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	s.students[st.ID] = st
	return st, nil
}

func (s *Store) GetStudent(_ context.Context, profesorID string, id int64) (core.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok || st.ProfesorID != profesorID {
		return core.Student{}, store.ErrNotFound
	}
	return st, nil
}

func (s *Store) ListStudents(_ context.Context, profesorID string) ([]core.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Student{}
	for _, st := range s.students {
		if st.ProfesorID == profesorID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateStudent(_ context.Context, st core.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.students[st.ID]
	if !ok || existing.ProfesorID != st.ProfesorID {
		return store.ErrNotFound
	}
	st.CreatedAt = existing.CreatedAt
	s.students[st.ID] = st
	return nil
}

func (s *Store) DeleteStudent(_ context.Context, profesorID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok || st.ProfesorID != profesorID {
		return store.ErrNotFound
	}
	delete(s.students, id)
	for nid, n := range s.notes {
		if n.EstudianteID == id {
			delete(s.notes, nid)
		}
	}
	// Payments stay. Reconciliation treats them as orphaned.
	return nil
}

// --- notas ---

func (s *Store) CreateNote(_ context.Context, n core.Note) (core.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[n.EstudianteID]
	if !ok || st.ProfesorID != n.ProfesorID {
		return core.Note{}, store.ErrNotFound
	}
	n.ID = s.id()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.notes[n.ID] = n
	return n, nil
}

func (s *Store) ListNotes(_ context.Context, profesorID string, estudianteID int64) ([]core.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Note{}
	for _, n := range s.notes {
		if n.ProfesorID == profesorID && n.EstudianteID == estudianteID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) DeleteNote(_ context.Context, profesorID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.ProfesorID != profesorID {
		return store.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

// --- grupos ---

func (s *Store) CreateGroup(_ context.Context, g core.Group) (core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.id()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	s.groups[g.ID] = g
	return g, nil
}

func (s *Store) ListGroups(_ context.Context, profesorID string) ([]core.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Group{}
	for _, g := range s.groups {
		if g.ProfesorID == profesorID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateGroup(_ context.Context, g core.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.groups[g.ID]
	if !ok || existing.ProfesorID != g.ProfesorID {
		return store.ErrNotFound
	}
	g.CreatedAt = existing.CreatedAt
	s.groups[g.ID] = g
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, profesorID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok || g.ProfesorID != profesorID {
		return store.ErrNotFound
	}
	delete(s.groups, id)
	for sid, st := range s.students {
		if st.GrupoID != nil && *st.GrupoID == id {
			st.GrupoID = nil
			s.students[sid] = st
		}
	}
	return nil
}

// --- pagos ---

func (s *Store) CreatePayment(_ context.Context, p core.Payment) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.payments[p.ID] = p
	return p, nil
}

func (s *Store) ListPayments(_ context.Context, profesorID string) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Payment{}
	for _, p := range s.payments {
		if p.ProfesorID == profesorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) ListPaymentsByPeriod(_ context.Context, profesorID string, period core.Period) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Payment{}
	for _, p := range s.payments {
		if p.ProfesorID == profesorID && p.Mes == period.Mes && p.Anio == period.Anio {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListPaymentsByStudent(_ context.Context, profesorID string, estudianteID int64) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Payment{}
	for _, p := range s.payments {
		if p.ProfesorID == profesorID && p.EstudianteID == estudianteID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) ListPaymentsSince(_ context.Context, profesorID string, since time.Time) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	floor := core.PeriodOf(since)
	out := []core.Payment{}
	for _, p := range s.payments {
		if p.ProfesorID == profesorID && p.Periodo().Key() >= floor.Key() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountPayments(_ context.Context, profesorID string, estudianteID int64, period core.Period) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.payments {
		if p.ProfesorID == profesorID && p.EstudianteID == estudianteID &&
			p.Mes == period.Mes && p.Anio == period.Anio {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeletePayment(_ context.Context, profesorID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok || p.ProfesorID != profesorID {
		return store.ErrNotFound
	}
	delete(s.payments, id)
	return nil
}

// --- gastos ---

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.id()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, profesorID string) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Expense{}
	for _, e := range s.expenses {
		if e.ProfesorID == profesorID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) ListExpensesByPeriod(_ context.Context, profesorID string, period core.Period) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Expense{}
	for _, e := range s.expenses {
		if e.ProfesorID == profesorID && e.Fecha.Period() == period {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListExpensesSince(_ context.Context, profesorID string, since time.Time) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	floor := core.PeriodOf(since)
	out := []core.Expense{}
	for _, e := range s.expenses {
		if e.ProfesorID == profesorID && !e.Fecha.IsZero() && e.Fecha.Period().Key() >= floor.Key() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, profesorID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok || e.ProfesorID != profesorID {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// --- asistencia ---

func (s *Store) RecordAttendance(_ context.Context, a core.Attendance) (core.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.id()
	s.attendance[a.ID] = a
	return a, nil
}

func (s *Store) ListAttendanceByPeriod(_ context.Context, profesorID string, period core.Period) ([]core.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Attendance{}
	for _, a := range s.attendance {
		if a.ProfesorID == profesorID && a.Fecha.Period() == period {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- backup ---

func (s *Store) DumpProfesor(ctx context.Context, profesorID string) (store.Snapshot, error) {
	s.mu.RLock()
	p, ok := s.profesores[profesorID]
	s.mu.RUnlock()
	if !ok {
		return store.Snapshot{}, store.ErrNotFound
	}

	students, _ := s.ListStudents(ctx, profesorID)
	groups, _ := s.ListGroups(ctx, profesorID)
	payments, _ := s.ListPayments(ctx, profesorID)
	expenses, _ := s.ListExpenses(ctx, profesorID)

	s.mu.RLock()
	notes := []core.Note{}
	for _, n := range s.notes {
		if n.ProfesorID == profesorID {
			notes = append(notes, n)
		}
	}
	s.mu.RUnlock()
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })

	return store.Snapshot{
		Profesor: p,
		Students: students,
		Groups:   groups,
		Payments: payments,
		Expenses: expenses,
		Notes:    notes,
		TakenAt:  time.Now().UTC(),
	}, nil
}

var _ store.Store = (*Store)(nil)
