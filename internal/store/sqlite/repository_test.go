package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"profesorhub/internal/core"
	"profesorhub/internal/store"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func newProfesor(t *testing.T, r *Repository, email string) core.Profesor {
	t.Helper()
	p, err := r.CreateProfesor(context.Background(), core.Profesor{
		Nombre: "Ana", Apellido: "García", Email: email, PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create profesor: %v", err)
	}
	return p
}

func TestProfesorRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	got, err := r.GetProfesorByEmail(ctx, "ANA@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("id mismatch: %q vs %q", got.ID, p.ID)
	}

	if _, err := r.CreateProfesor(ctx, core.Profesor{
		Nombre: "Otra", Apellido: "Ana", Email: "ana@example.com", PasswordHash: "y",
	}); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestVerificacionSetsFecha(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	if err := r.SetProfesorVerificado(ctx, p.ID, true); err != nil {
		t.Fatalf("verify: %v", err)
	}
	got, _ := r.GetProfesorByID(ctx, p.ID)
	if !got.Verificado || got.FechaVerificacion == nil {
		t.Fatalf("verification not recorded: %+v", got)
	}

	if err := r.SetProfesorVerificado(ctx, p.ID, false); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	got, _ = r.GetProfesorByID(ctx, p.ID)
	if got.Verificado || got.FechaVerificacion != nil {
		t.Fatalf("revocation not recorded: %+v", got)
	}
}

func TestStudentAndGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	g, err := r.CreateGroup(ctx, core.Group{ProfesorID: p.ID, Nombre: "Lunes 17h", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("create grupo: %v", err)
	}
	s, err := r.CreateStudent(ctx, core.Student{
		ProfesorID: p.ID, Nombre: "Luis", Apellido: "Pérez", GrupoID: &g.ID,
	})
	if err != nil {
		t.Fatalf("create estudiante: %v", err)
	}

	if err := r.DeleteGroup(ctx, p.ID, g.ID); err != nil {
		t.Fatalf("delete grupo: %v", err)
	}
	got, err := r.GetStudent(ctx, p.ID, s.ID)
	if err != nil {
		t.Fatalf("student must survive group deletion: %v", err)
	}
	if got.GrupoID != nil {
		t.Fatalf("grupo_id should be null after group deletion")
	}
}

func TestPaymentPeriodQueries(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	mk := func(estudianteID int64, mes, anio int) {
		t.Helper()
		_, err := r.CreatePayment(ctx, core.Payment{
			ProfesorID: p.ID, EstudianteID: estudianteID,
			Monto: core.Money{Cents: 150000}, Mes: mes, Anio: anio,
			Tipo: core.PagoMensual, FechaPago: core.NewDate(anio, mes, 10),
		})
		if err != nil {
			t.Fatalf("create pago: %v", err)
		}
	}
	mk(1, 3, 2025)
	mk(1, 3, 2025)
	mk(2, 2, 2025)
	mk(2, 12, 2024)

	byPeriod, err := r.ListPaymentsByPeriod(ctx, p.ID, core.Period{Mes: 3, Anio: 2025})
	if err != nil {
		t.Fatalf("by period: %v", err)
	}
	if len(byPeriod) != 2 {
		t.Fatalf("period list = %d, want 2", len(byPeriod))
	}

	n, err := r.CountPayments(ctx, p.ID, 1, core.Period{Mes: 3, Anio: 2025})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	since, err := r.ListPaymentsSince(ctx, p.ID, core.NewDate(2025, 1, 1).Time)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(since) != 3 {
		t.Fatalf("since list = %d, want 3", len(since))
	}
}

func TestExpensePeriodQueries(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	mk := func(anio, mes, dia int) {
		t.Helper()
		_, err := r.CreateExpense(ctx, core.Expense{
			ProfesorID: p.ID, Descripcion: "Fotocopias",
			Monto: core.Money{Cents: 30000}, Categoria: "Material",
			Fecha: core.NewDate(anio, mes, dia),
		})
		if err != nil {
			t.Fatalf("create gasto: %v", err)
		}
	}
	mk(2025, 3, 1)
	mk(2025, 3, 31)
	mk(2025, 2, 15)

	byPeriod, err := r.ListExpensesByPeriod(ctx, p.ID, core.Period{Mes: 3, Anio: 2025})
	if err != nil {
		t.Fatalf("by period: %v", err)
	}
	if len(byPeriod) != 2 {
		t.Fatalf("period list = %d, want 2", len(byPeriod))
	}

	since, err := r.ListExpensesSince(ctx, p.ID, core.NewDate(2025, 3, 1).Time)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("since list = %d, want 2", len(since))
	}
}

func TestDeleteProfesorRemovesEverything(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	s, _ := r.CreateStudent(ctx, core.Student{ProfesorID: p.ID, Nombre: "Luis", Apellido: "Pérez"})
	r.CreateNote(ctx, core.Note{ProfesorID: p.ID, EstudianteID: s.ID, Contenido: "ok"})
	r.CreatePayment(ctx, core.Payment{
		ProfesorID: p.ID, EstudianteID: s.ID, Monto: core.Money{Cents: 1},
		Mes: 1, Anio: 2025, Tipo: core.PagoMensual, FechaPago: core.NewDate(2025, 1, 1),
	})

	if err := r.DeleteProfesor(ctx, p.ID); err != nil {
		t.Fatalf("delete profesor: %v", err)
	}
	if _, err := r.GetProfesorByID(ctx, p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("profesor still present: %v", err)
	}
	if pagos, _ := r.ListPayments(ctx, p.ID); len(pagos) != 0 {
		t.Fatalf("pagos still present")
	}
	if students, _ := r.ListStudents(ctx, p.ID); len(students) != 0 {
		t.Fatalf("estudiantes still present")
	}
}

func TestDumpProfesor(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := newProfesor(t, r, "ana@example.com")

	s, _ := r.CreateStudent(ctx, core.Student{ProfesorID: p.ID, Nombre: "Luis", Apellido: "Pérez"})
	r.CreateNote(ctx, core.Note{ProfesorID: p.ID, EstudianteID: s.ID, Contenido: "avanza bien"})

	snap, err := r.DumpProfesor(ctx, p.ID)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(snap.Students) != 1 || len(snap.Notes) != 1 {
		t.Fatalf("snapshot incomplete: %+v", snap)
	}
}
