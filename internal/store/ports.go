// Package store defines the persistence ports the HTTP layer and the
// workers depend on. Implementations live in the memory and sqlite
// subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"profesorhub/internal/core"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type ProfesorStore interface {
	CreateProfesor(ctx context.Context, p core.Profesor) (core.Profesor, error)
	GetProfesorByID(ctx context.Context, id string) (core.Profesor, error)
	GetProfesorByEmail(ctx context.Context, email string) (core.Profesor, error)
	ListProfesores(ctx context.Context) ([]core.Profesor, error)
	SetProfesorVerificado(ctx context.Context, id string, verificado bool) error
	SetProfesorDeshabilitado(ctx context.Context, id string, deshabilitado bool) error
	UpdateProfesorPassword(ctx context.Context, id string, passwordHash string) error
	// DeleteProfesor removes the profesor and everything it owns.
	DeleteProfesor(ctx context.Context, id string) error
}

type StudentStore interface {
	CreateStudent(ctx context.Context, s core.Student) (core.Student, error)
	GetStudent(ctx context.Context, profesorID string, id int64) (core.Student, error)
	ListStudents(ctx context.Context, profesorID string) ([]core.Student, error)
	UpdateStudent(ctx context.Context, s core.Student) error
	DeleteStudent(ctx context.Context, profesorID string, id int64) error
}

type NoteStore interface {
	CreateNote(ctx context.Context, n core.Note) (core.Note, error)
	ListNotes(ctx context.Context, profesorID string, estudianteID int64) ([]core.Note, error)
	DeleteNote(ctx context.Context, profesorID string, id int64) error
}

type GroupStore interface {
	CreateGroup(ctx context.Context, g core.Group) (core.Group, error)
	ListGroups(ctx context.Context, profesorID string) ([]core.Group, error)
	UpdateGroup(ctx context.Context, g core.Group) error
	// DeleteGroup detaches its students rather than deleting them.
	DeleteGroup(ctx context.Context, profesorID string, id int64) error
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
	ListPayments(ctx context.Context, profesorID string) ([]core.Payment, error)
	ListPaymentsByPeriod(ctx context.Context, profesorID string, period core.Period) ([]core.Payment, error)
	ListPaymentsByStudent(ctx context.Context, profesorID string, estudianteID int64) ([]core.Payment, error)
	// ListPaymentsSince returns payments whose stored period falls on or
	// after the month containing since.
	ListPaymentsSince(ctx context.Context, profesorID string, since time.Time) ([]core.Payment, error)
	CountPayments(ctx context.Context, profesorID string, estudianteID int64, period core.Period) (int, error)
	DeletePayment(ctx context.Context, profesorID string, id int64) error
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, profesorID string) ([]core.Expense, error)
	ListExpensesByPeriod(ctx context.Context, profesorID string, period core.Period) ([]core.Expense, error)
	ListExpensesSince(ctx context.Context, profesorID string, since time.Time) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, profesorID string, id int64) error
}

type AttendanceStore interface {
	RecordAttendance(ctx context.Context, a core.Attendance) (core.Attendance, error)
	ListAttendanceByPeriod(ctx context.Context, profesorID string, period core.Period) ([]core.Attendance, error)
}

// Snapshot is a full dump of one profesor's data, used by the backup worker.
type Snapshot struct {
	Profesor core.Profesor  `json:"profesor"`
	Students []core.Student `json:"estudiantes"`
	Groups   []core.Group   `json:"grupos"`
	Payments []core.Payment `json:"pagos"`
	Expenses []core.Expense `json:"gastos"`
	Notes    []core.Note    `json:"notas"`
	TakenAt  time.Time      `json:"taken_at"`
}

type BackupStore interface {
	// DumpProfesor assembles a snapshot of everything a profesor owns.
	DumpProfesor(ctx context.Context, profesorID string) (Snapshot, error)
}

// Store is the composed persistence surface.
type Store interface {
	ProfesorStore
	StudentStore
	NoteStore
	GroupStore
	PaymentStore
	ExpenseStore
	AttendanceStore
	BackupStore
	Close() error
}
