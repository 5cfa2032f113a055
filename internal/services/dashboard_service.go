package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"profesorhub/internal/core"
	"profesorhub/internal/store"
)

// pendingPreviewLimit caps the pending-students preview on the dashboard.
const pendingPreviewLimit = 5

// DashboardStats is the home-view snapshot for the current period.
type DashboardStats struct {
	Periodo            core.Period    `json:"periodo"`
	TotalEstudiantes   int            `json:"total_estudiantes"`
	NuevosEstudiantes  int            `json:"nuevos_estudiantes"`
	TotalGrupos        int            `json:"total_grupos"`
	IngresosMes        core.Money     `json:"ingresos_mes_cents"`
	IngresosMesPrev    core.Money     `json:"ingresos_mes_anterior_cents"`
	DeltaIngresos      core.Money     `json:"delta_ingresos_cents"`
	PendientesPreview  []core.Student `json:"pendientes_preview"`
	TotalPendientes    int            `json:"total_pendientes"`
	ProgresoAsistencia int            `json:"progreso_asistencia"`
}

// ProgressReport is the Progreso view: full reconciliation for one period
// plus the trailing 12-month series.
type ProgressReport struct {
	Resumen core.MonthSummary  `json:"resumen"`
	Series  []core.MonthBucket `json:"series"`
}

type DashboardService struct {
	store store.Store
}

func NewDashboardService(st store.Store) *DashboardService {
	return &DashboardService{store: st}
}

// monthSnapshot loads the immutable inputs Reconcile needs, in parallel.
func (s *DashboardService) monthSnapshot(ctx context.Context, profesorID string, period core.Period) (students []core.Student, payments []core.Payment, expenses []core.Expense, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.store.ListStudents(gctx, profesorID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.store.ListPaymentsByPeriod(gctx, profesorID, period)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpensesByPeriod(gctx, profesorID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, fmt.Errorf("load month snapshot: %w", err)
	}
	return students, payments, expenses, nil
}

// MonthSummary reconciles one period for one tenant.
func (s *DashboardService) MonthSummary(ctx context.Context, profesorID string, period core.Period) (core.MonthSummary, error) {
	if err := period.Validate(); err != nil {
		return core.MonthSummary{}, err
	}
	students, payments, expenses, err := s.monthSnapshot(ctx, profesorID, period)
	if err != nil {
		return core.MonthSummary{}, err
	}
	return core.Reconcile(period, students, payments, expenses), nil
}

// Series builds the trailing 12-month series anchored at now.
func (s *DashboardService) Series(ctx context.Context, profesorID string, now time.Time) ([]core.MonthBucket, error) {
	var (
		students []core.Student
		payments []core.Payment
		expenses []core.Expense
	)
	since := core.SeriesStart(now)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.store.ListStudents(gctx, profesorID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.store.ListPaymentsSince(gctx, profesorID, since)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpensesSince(gctx, profesorID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load series snapshot: %w", err)
	}

	return core.BuildSeries(now, payments, expenses, len(students)), nil
}

// Progress returns the full reconciliation plus the series.
func (s *DashboardService) Progress(ctx context.Context, profesorID string, period core.Period, now time.Time) (ProgressReport, error) {
	summary, err := s.MonthSummary(ctx, profesorID, period)
	if err != nil {
		return ProgressReport{}, err
	}
	series, err := s.Series(ctx, profesorID, now)
	if err != nil {
		return ProgressReport{}, err
	}
	return ProgressReport{Resumen: summary, Series: series}, nil
}

// Stats assembles the dashboard home view for the period containing now.
func (s *DashboardService) Stats(ctx context.Context, profesorID string, now time.Time) (DashboardStats, error) {
	period := core.PeriodOf(now)

	var (
		groups     []core.Group
		prevPagos  []core.Payment
		attendance []core.Attendance
	)
	students, payments, expenses, err := s.monthSnapshot(ctx, profesorID, period)
	if err != nil {
		return DashboardStats{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.store.ListGroups(gctx, profesorID)
		return err
	})
	g.Go(func() error {
		var err error
		prevPagos, err = s.store.ListPaymentsByPeriod(gctx, profesorID, period.Prev())
		return err
	})
	g.Go(func() error {
		var err error
		attendance, err = s.store.ListAttendanceByPeriod(gctx, profesorID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, fmt.Errorf("load dashboard snapshot: %w", err)
	}

	summary := core.Reconcile(period, students, payments, expenses)

	var prevTotal int64
	for _, p := range prevPagos {
		prevTotal += p.Monto.Cents
	}

	nuevos := 0
	for _, st := range students {
		if core.PeriodOf(st.CreatedAt) == period {
			nuevos++
		}
	}

	preview := summary.PendingStudents
	if len(preview) > pendingPreviewLimit {
		preview = preview[:pendingPreviewLimit]
	}

	return DashboardStats{
		Periodo:            period,
		TotalEstudiantes:   len(students),
		NuevosEstudiantes:  nuevos,
		TotalGrupos:        len(groups),
		IngresosMes:        summary.TotalCobrado,
		IngresosMesPrev:    core.Money{Cents: prevTotal},
		DeltaIngresos:      core.Money{Cents: summary.TotalCobrado.Cents - prevTotal},
		PendientesPreview:  preview,
		TotalPendientes:    len(summary.PendingStudents),
		ProgresoAsistencia: core.AverageAttendance(attendance),
	}, nil
}
