// Package sqlite is the durable Store backed by an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	applog "profesorhub/internal/log"

	"profesorhub/internal/core"
	"profesorhub/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }
func fmtDate(d core.Date) string { return d.Format(dateLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by SQLite defaults use datetime('now').
		t, _ = time.Parse("2006-01-02 15:04:05", s)
	}
	return t.UTC()
}

func parseDate(s string) core.Date {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

// --- profesores ---

func (r *Repository) CreateProfesor(ctx context.Context, p core.Profesor) (core.Profesor, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profesores (id, nombre, apellido, email, password_hash, verificado, deshabilitado, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Nombre, p.Apellido, p.Email, p.PasswordHash, p.Verificado, p.Deshabilitado, fmtTime(p.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.Profesor{}, store.ErrDuplicateEmail
		}
		return core.Profesor{}, fmt.Errorf("create profesor: %w", err)
	}

	slog.InfoContext(ctx, "Profesor created",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldProfesorID, p.ID,
		"email", p.Email)
	return p, nil
}

func isUniqueViolation(err error) bool {
	// modernc's driver reports SQLITE_CONSTRAINT_UNIQUE in the message.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

func (r *Repository) scanProfesor(row interface{ Scan(...any) error }) (core.Profesor, error) {
	var (
		p                 core.Profesor
		fechaVer, created sql.NullString
	)
	err := row.Scan(&p.ID, &p.Nombre, &p.Apellido, &p.Email, &p.PasswordHash,
		&p.Verificado, &p.Deshabilitado, &fechaVer, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Profesor{}, store.ErrNotFound
		}
		return core.Profesor{}, fmt.Errorf("scan profesor: %w", err)
	}
	if fechaVer.Valid {
		t := parseTime(fechaVer.String)
		p.FechaVerificacion = &t
	}
	if created.Valid {
		p.CreatedAt = parseTime(created.String)
	}
	return p, nil
}

const profesorCols = `id, nombre, apellido, email, password_hash, verificado, deshabilitado, fecha_verificacion, created_at`

func (r *Repository) GetProfesorByID(ctx context.Context, id string) (core.Profesor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profesorCols+` FROM profesores WHERE id = ?`, id)
	return r.scanProfesor(row)
}

func (r *Repository) GetProfesorByEmail(ctx context.Context, email string) (core.Profesor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profesorCols+` FROM profesores WHERE email = ? COLLATE NOCASE`, email)
	return r.scanProfesor(row)
}

func (r *Repository) ListProfesores(ctx context.Context) ([]core.Profesor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profesorCols+` FROM profesores ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list profesores: %w", err)
	}
	defer rows.Close()

	out := []core.Profesor{}
	for rows.Next() {
		p, err := r.scanProfesor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) SetProfesorVerificado(ctx context.Context, id string, verificado bool) error {
	var fechaVer any
	if verificado {
		fechaVer = fmtTime(time.Now())
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE profesores SET verificado = ?, fecha_verificacion = ? WHERE id = ?`,
		verificado, fechaVer, id)
	if err != nil {
		return fmt.Errorf("set verificado: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) SetProfesorDeshabilitado(ctx context.Context, id string, deshabilitado bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profesores SET deshabilitado = ? WHERE id = ?`, deshabilitado, id)
	if err != nil {
		return fmt.Errorf("set deshabilitado: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) UpdateProfesorPassword(ctx context.Context, id string, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profesores SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteProfesor(ctx context.Context, id string) error {
	// ON DELETE CASCADE on profesor_id clears everything owned, pagos
	// included. Only pagos.estudiante_id lacks a foreign key, so payments
	// survive student deletion but not tenant deletion.
	res, err := r.db.ExecContext(ctx, `DELETE FROM profesores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profesor: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Profesor deleted with all owned data",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldProfesorID, id)
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- estudiantes ---

func (r *Repository) CreateStudent(ctx context.Context, s core.Student) (core.Student, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO estudiantes (profesor_id, nombre, apellido, telefono, grupo_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ProfesorID, s.Nombre, s.Apellido, s.Telefono, s.GrupoID, fmtTime(s.CreatedAt))
	if err != nil {
		return core.Student{}, fmt.Errorf("create estudiante: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return core.Student{}, fmt.Errorf("last insert id: %w", err)
	}
	return s, nil
}

func (r *Repository) scanStudent(row interface{ Scan(...any) error }) (core.Student, error) {
	var (
		s       core.Student
		grupoID sql.NullInt64
		created string
	)
	err := row.Scan(&s.ID, &s.ProfesorID, &s.Nombre, &s.Apellido, &s.Telefono, &grupoID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Student{}, store.ErrNotFound
		}
		return core.Student{}, fmt.Errorf("scan estudiante: %w", err)
	}
	if grupoID.Valid {
		s.GrupoID = &grupoID.Int64
	}
	s.CreatedAt = parseTime(created)
	return s, nil
}

const studentCols = `id, profesor_id, nombre, apellido, telefono, grupo_id, created_at`

func (r *Repository) GetStudent(ctx context.Context, profesorID string, id int64) (core.Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studentCols+` FROM estudiantes WHERE id = ? AND profesor_id = ?`, id, profesorID)
	return r.scanStudent(row)
}

func (r *Repository) ListStudents(ctx context.Context, profesorID string) ([]core.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentCols+` FROM estudiantes WHERE profesor_id = ? ORDER BY id`, profesorID)
	if err != nil {
		return nil, fmt.Errorf("list estudiantes: %w", err)
	}
	defer rows.Close()

	out := []core.Student{}
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateStudent(ctx context.Context, s core.Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE estudiantes SET nombre = ?, apellido = ?, telefono = ?, grupo_id = ?
		WHERE id = ? AND profesor_id = ?`,
		s.Nombre, s.Apellido, s.Telefono, s.GrupoID, s.ID, s.ProfesorID)
	if err != nil {
		return fmt.Errorf("update estudiante: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteStudent(ctx context.Context, profesorID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM estudiantes WHERE id = ? AND profesor_id = ?`, id, profesorID)
	if err != nil {
		return fmt.Errorf("delete estudiante: %w", err)
	}
	return requireRow(res)
}

// --- notas ---

func (r *Repository) CreateNote(ctx context.Context, n core.Note) (core.Note, error) {
	if _, err := r.GetStudent(ctx, n.ProfesorID, n.EstudianteID); err != nil {
		return core.Note{}, err
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO estudiante_notas (profesor_id, estudiante_id, contenido, created_at)
		VALUES (?, ?, ?, ?)`,
		n.ProfesorID, n.EstudianteID, n.Contenido, fmtTime(n.CreatedAt))
	if err != nil {
		return core.Note{}, fmt.Errorf("create nota: %w", err)
	}
	n.ID, err = res.LastInsertId()
	if err != nil {
		return core.Note{}, fmt.Errorf("last insert id: %w", err)
	}
	return n, nil
}

func (r *Repository) ListNotes(ctx context.Context, profesorID string, estudianteID int64) ([]core.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profesor_id, estudiante_id, contenido, created_at
		FROM estudiante_notas WHERE profesor_id = ? AND estudiante_id = ?
		ORDER BY id DESC`, profesorID, estudianteID)
	if err != nil {
		return nil, fmt.Errorf("list notas: %w", err)
	}
	defer rows.Close()

	out := []core.Note{}
	for rows.Next() {
		var (
			n       core.Note
			created string
		)
		if err := rows.Scan(&n.ID, &n.ProfesorID, &n.EstudianteID, &n.Contenido, &created); err != nil {
			return nil, fmt.Errorf("scan nota: %w", err)
		}
		n.CreatedAt = parseTime(created)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteNote(ctx context.Context, profesorID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM estudiante_notas WHERE id = ? AND profesor_id = ?`, id, profesorID)
	if err != nil {
		return fmt.Errorf("delete nota: %w", err)
	}
	return requireRow(res)
}

// --- grupos ---

func (r *Repository) CreateGroup(ctx context.Context, g core.Group) (core.Group, error) {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO grupos (profesor_id, nombre, color, created_at)
		VALUES (?, ?, ?, ?)`,
		g.ProfesorID, g.Nombre, g.Color, fmtTime(g.CreatedAt))
	if err != nil {
		return core.Group{}, fmt.Errorf("create grupo: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.Group{}, fmt.Errorf("last insert id: %w", err)
	}
	return g, nil
}

func (r *Repository) ListGroups(ctx context.Context, profesorID string) ([]core.Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profesor_id, nombre, color, created_at
		FROM grupos WHERE profesor_id = ? ORDER BY id`, profesorID)
	if err != nil {
		return nil, fmt.Errorf("list grupos: %w", err)
	}
	defer rows.Close()

	out := []core.Group{}
	for rows.Next() {
		var (
			g       core.Group
			created string
		)
		if err := rows.Scan(&g.ID, &g.ProfesorID, &g.Nombre, &g.Color, &created); err != nil {
			return nil, fmt.Errorf("scan grupo: %w", err)
		}
		g.CreatedAt = parseTime(created)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateGroup(ctx context.Context, g core.Group) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE grupos SET nombre = ?, color = ? WHERE id = ? AND profesor_id = ?`,
		g.Nombre, g.Color, g.ID, g.ProfesorID)
	if err != nil {
		return fmt.Errorf("update grupo: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteGroup(ctx context.Context, profesorID string, id int64) error {
	// ON DELETE SET NULL on estudiantes.grupo_id detaches the students.
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM grupos WHERE id = ? AND profesor_id = ?`, id, profesorID)
	if err != nil {
		return fmt.Errorf("delete grupo: %w", err)
	}
	return requireRow(res)
}

// --- pagos ---

const paymentCols = `id, profesor_id, estudiante_id, monto_cents, mes, anio, tipo, fecha_pago, created_at`

func (r *Repository) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pagos (profesor_id, estudiante_id, monto_cents, mes, anio, tipo, fecha_pago, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProfesorID, p.EstudianteID, p.Monto.Cents, p.Mes, p.Anio, string(p.Tipo),
		fmtDate(p.FechaPago), fmtTime(p.CreatedAt))
	if err != nil {
		return core.Payment{}, fmt.Errorf("create pago: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved",
		applog.FieldComponent, applog.ComponentStorage,
		"id", p.ID,
		applog.FieldEstudianteID, p.EstudianteID,
		applog.FieldMontoCents, p.Monto.Cents,
		applog.FieldMes, p.Mes,
		applog.FieldAnio, p.Anio,
		"tipo", p.Tipo)
	return p, nil
}

func (r *Repository) queryPayments(ctx context.Context, query string, args ...any) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pagos: %w", err)
	}
	defer rows.Close()

	out := []core.Payment{}
	for rows.Next() {
		var (
			p              core.Payment
			tipo           string
			fecha, created string
		)
		if err := rows.Scan(&p.ID, &p.ProfesorID, &p.EstudianteID, &p.Monto.Cents,
			&p.Mes, &p.Anio, &tipo, &fecha, &created); err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		p.Tipo = core.PaymentType(tipo)
		p.FechaPago = parseDate(fecha)
		p.CreatedAt = parseTime(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) ListPayments(ctx context.Context, profesorID string) ([]core.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT `+paymentCols+` FROM pagos WHERE profesor_id = ? ORDER BY id DESC`, profesorID)
}

func (r *Repository) ListPaymentsByPeriod(ctx context.Context, profesorID string, period core.Period) ([]core.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT `+paymentCols+` FROM pagos WHERE profesor_id = ? AND mes = ? AND anio = ? ORDER BY id`,
		profesorID, period.Mes, period.Anio)
}

func (r *Repository) ListPaymentsByStudent(ctx context.Context, profesorID string, estudianteID int64) ([]core.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT `+paymentCols+` FROM pagos WHERE profesor_id = ? AND estudiante_id = ? ORDER BY id DESC`,
		profesorID, estudianteID)
}

func (r *Repository) ListPaymentsSince(ctx context.Context, profesorID string, since time.Time) ([]core.Payment, error) {
	floor := core.PeriodOf(since)
	return r.queryPayments(ctx,
		`SELECT `+paymentCols+` FROM pagos WHERE profesor_id = ? AND (anio * 12 + mes) >= ? ORDER BY id`,
		profesorID, floor.Anio*12+floor.Mes)
}

func (r *Repository) CountPayments(ctx context.Context, profesorID string, estudianteID int64, period core.Period) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pagos
		WHERE profesor_id = ? AND estudiante_id = ? AND mes = ? AND anio = ?`,
		profesorID, estudianteID, period.Mes, period.Anio).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pagos: %w", err)
	}
	return n, nil
}

func (r *Repository) DeletePayment(ctx context.Context, profesorID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pagos WHERE id = ? AND profesor_id = ?`, id, profesorID)
	if err != nil {
		return fmt.Errorf("delete pago: %w", err)
	}
	return requireRow(res)
}

// --- gastos ---

const expenseCols = `id, profesor_id, descripcion, monto_cents, categoria, fecha, created_at`

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO gastos (profesor_id, descripcion, monto_cents, categoria, fecha, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ProfesorID, e.Descripcion, e.Monto.Cents, e.Categoria, fmtDate(e.Fecha), fmtTime(e.CreatedAt))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create gasto: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		applog.FieldComponent, applog.ComponentStorage,
		"id", e.ID,
		"descripcion", e.Descripcion,
		applog.FieldMontoCents, e.Monto.Cents,
		applog.FieldCategoria, e.Categoria)
	return e, nil
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query gastos: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var (
			e              core.Expense
			fecha, created string
		)
		if err := rows.Scan(&e.ID, &e.ProfesorID, &e.Descripcion, &e.Monto.Cents,
			&e.Categoria, &fecha, &created); err != nil {
			return nil, fmt.Errorf("scan gasto: %w", err)
		}
		e.Fecha = parseDate(fecha)
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) ListExpenses(ctx context.Context, profesorID string) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseCols+` FROM gastos WHERE profesor_id = ? ORDER BY id DESC`, profesorID)
}

func (r *Repository) ListExpensesByPeriod(ctx context.Context, profesorID string, period core.Period) ([]core.Expense, error) {
	prefix := period.Key() // fecha is "YYYY-MM-DD", prefix match selects the month
	return r.queryExpenses(ctx,
		`SELECT `+expenseCols+` FROM gastos WHERE profesor_id = ? AND fecha LIKE ? ORDER BY id`,
		profesorID, prefix+"-%")
}

func (r *Repository) ListExpensesSince(ctx context.Context, profesorID string, since time.Time) ([]core.Expense, error) {
	floor := core.PeriodOf(since).Key() + "-01"
	return r.queryExpenses(ctx,
		`SELECT `+expenseCols+` FROM gastos WHERE profesor_id = ? AND fecha >= ? ORDER BY id`,
		profesorID, floor)
}

func (r *Repository) DeleteExpense(ctx context.Context, profesorID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM gastos WHERE id = ? AND profesor_id = ?`, id, profesorID)
	if err != nil {
		return fmt.Errorf("delete gasto: %w", err)
	}
	return requireRow(res)
}

// --- asistencia ---

func (r *Repository) RecordAttendance(ctx context.Context, a core.Attendance) (core.Attendance, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO clases (profesor_id, estudiante_id, fecha, asistio)
		VALUES (?, ?, ?, ?)`,
		a.ProfesorID, a.EstudianteID, fmtDate(a.Fecha), a.Asistio)
	if err != nil {
		return core.Attendance{}, fmt.Errorf("record clase: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Attendance{}, fmt.Errorf("last insert id: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAttendanceByPeriod(ctx context.Context, profesorID string, period core.Period) ([]core.Attendance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profesor_id, estudiante_id, fecha, asistio
		FROM clases WHERE profesor_id = ? AND fecha LIKE ? ORDER BY id`,
		profesorID, period.Key()+"-%")
	if err != nil {
		return nil, fmt.Errorf("list clases: %w", err)
	}
	defer rows.Close()

	out := []core.Attendance{}
	for rows.Next() {
		var (
			a     core.Attendance
			fecha string
		)
		if err := rows.Scan(&a.ID, &a.ProfesorID, &a.EstudianteID, &fecha, &a.Asistio); err != nil {
			return nil, fmt.Errorf("scan clase: %w", err)
		}
		a.Fecha = parseDate(fecha)
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- backup ---

func (r *Repository) DumpProfesor(ctx context.Context, profesorID string) (store.Snapshot, error) {
	p, err := r.GetProfesorByID(ctx, profesorID)
	if err != nil {
		return store.Snapshot{}, err
	}
	students, err := r.ListStudents(ctx, profesorID)
	if err != nil {
		return store.Snapshot{}, err
	}
	groups, err := r.ListGroups(ctx, profesorID)
	if err != nil {
		return store.Snapshot{}, err
	}
	payments, err := r.ListPayments(ctx, profesorID)
	if err != nil {
		return store.Snapshot{}, err
	}
	expenses, err := r.ListExpenses(ctx, profesorID)
	if err != nil {
		return store.Snapshot{}, err
	}

	notes := []core.Note{}
	for _, s := range students {
		ns, err := r.ListNotes(ctx, profesorID, s.ID)
		if err != nil {
			return store.Snapshot{}, err
		}
		notes = append(notes, ns...)
	}

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

var _ store.Store = (*Repository)(nil)
