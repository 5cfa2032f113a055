package services

import (
	"context"
	"testing"
	"time"

	"profesorhub/internal/core"
)

func TestMonthSummary(t *testing.T) {
	ctx := context.Background()
	st, p, s := seed(t)
	s2, _ := st.CreateStudent(ctx, core.Student{ProfesorID: p.ID, Nombre: "Eva", Apellido: "Ruiz"})
	_ = s2

	st.CreatePayment(ctx, core.Payment{
		ProfesorID: p.ID, EstudianteID: s.ID,
		Monto: core.Money{Cents: 150000}, Mes: 3, Anio: 2025, Tipo: core.PagoMensual,
	})
	st.CreateExpense(ctx, core.Expense{
		ProfesorID: p.ID, Descripcion: "Alquiler aula",
		Monto: core.Money{Cents: 30000}, Categoria: "Alquiler", Fecha: core.NewDate(2025, 3, 1),
	})

	svc := NewDashboardService(st)
	sum, err := svc.MonthSummary(ctx, p.ID, core.Period{Mes: 3, Anio: 2025})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalCobrado.Cents != 150000 || sum.TotalGastado.Cents != 30000 || sum.Balance.Cents != 120000 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.PctPaid != 50 {
		t.Fatalf("pct = %d, want 50", sum.PctPaid)
	}
}

func TestMonthSummaryRejectsBadPeriod(t *testing.T) {
	st, p, _ := seed(t)
	svc := NewDashboardService(st)
	if _, err := svc.MonthSummary(context.Background(), p.ID, core.Period{Mes: 13, Anio: 2025}); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestSeriesUsesRosterDenominator(t *testing.T) {
	ctx := context.Background()
	st, p, s := seed(t)
	st.CreateStudent(ctx, core.Student{ProfesorID: p.ID, Nombre: "Eva", Apellido: "Ruiz"})

	st.CreatePayment(ctx, core.Payment{
		ProfesorID: p.ID, EstudianteID: s.ID,
		Monto: core.Money{Cents: 100000}, Mes: 3, Anio: 2025, Tipo: core.PagoMensual,
	})

	svc := NewDashboardService(st)
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	series, err := svc.Series(ctx, p.ID, now)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != core.SeriesLength {
		t.Fatalf("series length = %d", len(series))
	}
	last := series[len(series)-1]
	if last.Ingresos.Cents != 100000 || last.PctPaid != 50 {
		t.Fatalf("last bucket = %+v", last)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	st, p, s := seed(t)
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	// Six pending students beyond the payer; preview caps at five.
	for i := 0; i < 6; i++ {
		st.CreateStudent(ctx, core.Student{
			ProfesorID: p.ID, Nombre: "Est", Apellido: "Pendiente",
			CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		})
	}
	st.CreateGroup(ctx, core.Group{ProfesorID: p.ID, Nombre: "Lunes"})

	st.CreatePayment(ctx, core.Payment{
		ProfesorID: p.ID, EstudianteID: s.ID,
		Monto: core.Money{Cents: 150000}, Mes: 3, Anio: 2025, Tipo: core.PagoMensual,
	})
	st.CreatePayment(ctx, core.Payment{
		ProfesorID: p.ID, EstudianteID: s.ID,
		Monto: core.Money{Cents: 100000}, Mes: 2, Anio: 2025, Tipo: core.PagoMensual,
	})

	svc := NewDashboardService(st)
	stats, err := svc.Stats(ctx, p.ID, now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalEstudiantes != 7 {
		t.Fatalf("total estudiantes = %d, want 7", stats.TotalEstudiantes)
	}
	if stats.TotalGrupos != 1 {
		t.Fatalf("grupos = %d", stats.TotalGrupos)
	}
	if stats.IngresosMes.Cents != 150000 || stats.IngresosMesPrev.Cents != 100000 {
		t.Fatalf("ingresos = %+v", stats)
	}
	if stats.DeltaIngresos.Cents != 50000 {
		t.Fatalf("delta = %d, want 50000", stats.DeltaIngresos.Cents)
	}
	if stats.TotalPendientes != 6 {
		t.Fatalf("pendientes = %d, want 6", stats.TotalPendientes)
	}
	if len(stats.PendientesPreview) != 5 {
		t.Fatalf("preview = %d, want 5", len(stats.PendientesPreview))
	}
	// Only the six created inside the period count as new.
	if stats.NuevosEstudiantes != 6 {
		t.Fatalf("nuevos = %d, want 6", stats.NuevosEstudiantes)
	}
	if stats.ProgresoAsistencia != 0 {
		t.Fatalf("asistencia = %d, want 0 without records", stats.ProgresoAsistencia)
	}
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	st, p, s := seed(t)
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	st.CreatePayment(ctx, core.Payment{
		ProfesorID: p.ID, EstudianteID: s.ID,
		Monto: core.Money{Cents: 150000}, Mes: 3, Anio: 2025, Tipo: core.PagoMensual,
	})

	svc := NewDashboardService(st)
	report, err := svc.Progress(ctx, p.ID, core.Period{Mes: 3, Anio: 2025}, now)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if report.Resumen.TotalCobrado.Cents != 150000 {
		t.Fatalf("resumen = %+v", report.Resumen)
	}
	if len(report.Series) != core.SeriesLength {
		t.Fatalf("series length = %d", len(report.Series))
	}
}
