package core

import "math"

// MonthSummary is the reconciliation of one (mes, anio) period: who paid,
// who is pending, and the money totals.
type MonthSummary struct {
	Periodo         Period    `json:"periodo"`
	TotalCobrado    Money     `json:"total_cobrado_cents"`
	TotalGastado    Money     `json:"total_gastado_cents"`
	Balance         Money     `json:"balance_cents"`
	PaidStudents    []Student `json:"pagaron"`
	PendingStudents []Student `json:"pendientes"`
	PctPaid         int       `json:"pct_pagaron"`
	// Duplicados counts payment rows beyond the first per student in the
	// period; a data-quality signal, never an error.
	Duplicados int `json:"duplicados"`
}

// Reconcile classifies students into paid/pending for one period and sums
// the period's money flows. Pure function: payments and expenses must
// already be filtered to the target period and tenant.
//
// A student counts as paid once regardless of how many payments they have,
// but every payment's monto adds to TotalCobrado. Payments whose
// estudiante_id matches no student still add to TotalCobrado and are
// silently excluded from both lists. An empty roster yields PctPaid 0.
func Reconcile(period Period, students []Student, payments []Payment, expenses []Expense) MonthSummary {
	sum := MonthSummary{
		Periodo:         period,
		PaidStudents:    []Student{},
		PendingStudents: []Student{},
	}

	paid := make(map[int64]bool, len(payments))
	for _, p := range payments {
		sum.TotalCobrado.Cents += p.Monto.Cents
		if paid[p.EstudianteID] {
			sum.Duplicados++
			continue
		}
		paid[p.EstudianteID] = true
	}

	for _, e := range expenses {
		sum.TotalGastado.Cents += e.Monto.Cents
	}
	sum.Balance.Cents = sum.TotalCobrado.Cents - sum.TotalGastado.Cents

	for _, s := range students {
		if paid[s.ID] {
			sum.PaidStudents = append(sum.PaidStudents, s)
		} else {
			sum.PendingStudents = append(sum.PendingStudents, s)
		}
	}

	sum.PctPaid = roundedPct(len(sum.PaidStudents), len(students))
	return sum
}

// roundedPct returns round(100*n/total), or 0 when total is 0.
func roundedPct(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

// AverageAttendance returns the rounded mean of per-student attendance
// percentages. Students with no class records contribute nothing; no
// records at all yields 0, matching the optional nature of the data.
func AverageAttendance(records []Attendance) int {
	type tally struct{ total, attended int }
	byStudent := make(map[int64]*tally)
	for _, r := range records {
		t := byStudent[r.EstudianteID]
		if t == nil {
			t = &tally{}
			byStudent[r.EstudianteID] = t
		}
		t.total++
		if r.Asistio {
			t.attended++
		}
	}
	if len(byStudent) == 0 {
		return 0
	}
	var acc float64
	for _, t := range byStudent {
		if t.total > 0 {
			acc += 100 * float64(t.attended) / float64(t.total)
		}
	}
	return int(math.Round(acc / float64(len(byStudent))))
}
