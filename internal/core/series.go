package core

import "time"

// SeriesLength is the fixed number of months in the rolling series.
const SeriesLength = 12

// MonthBucket is one point of the rolling series.
type MonthBucket struct {
	Anio     int   `json:"anio"`
	Mes      int   `json:"mes"`
	Ingresos Money `json:"ingresos_cents"`
	Egresos  Money `json:"egresos_cents"`
	Balance  Money `json:"balance_cents"`
	PctPaid  int   `json:"pct_pagaron"`
}

// SeriesWindow returns the trailing 12 calendar periods ending at now,
// oldest first.
func SeriesWindow(now time.Time) [SeriesLength]Period {
	var window [SeriesLength]Period
	for i := 0; i < SeriesLength; i++ {
		// time.Date normalizes out-of-range months across year boundaries.
		d := time.Date(now.Year(), now.Month()-time.Month(SeriesLength-1-i), 1, 0, 0, 0, 0, time.UTC)
		window[i] = Period{Mes: int(d.Month()), Anio: d.Year()}
	}
	return window
}

// SeriesStart returns the first day of the oldest period in the window,
// the coarse lower bound loaders use to prefilter expenses.
func SeriesStart(now time.Time) time.Time {
	first := SeriesWindow(now)[0]
	return time.Date(first.Anio, time.Month(first.Mes), 1, 0, 0, 0, 0, time.UTC)
}

// BuildSeries produces the trailing 12-month series anchored at now:
// income, expense, balance and payment rate per calendar month, oldest
// first. Always exactly 12 buckets; months without activity stay
// zero-filled so charts keep a fixed width.
//
// Payments bucket by their stored (mes, anio); rows outside the window
// (possible because loaders prefilter by year only) drop silently.
// Expenses bucket by the calendar date of fecha; zero dates are skipped.
// totalStudents is the all-time roster size, the fixed denominator for
// each bucket's payment rate; 0 yields a 0 rate, never a division error.
func BuildSeries(now time.Time, payments []Payment, expenses []Expense, totalStudents int) []MonthBucket {
	window := SeriesWindow(now)

	index := make(map[Period]int, SeriesLength)
	buckets := make([]MonthBucket, SeriesLength)
	paidIDs := make([]map[int64]bool, SeriesLength)
	for i, p := range window {
		index[p] = i
		buckets[i] = MonthBucket{Anio: p.Anio, Mes: p.Mes}
		paidIDs[i] = make(map[int64]bool)
	}

	for _, p := range payments {
		i, ok := index[p.Periodo()]
		if !ok {
			continue
		}
		buckets[i].Ingresos.Cents += p.Monto.Cents
		paidIDs[i][p.EstudianteID] = true
	}

	for _, e := range expenses {
		if e.Fecha.IsZero() {
			continue
		}
		i, ok := index[e.Fecha.Period()]
		if !ok {
			continue
		}
		buckets[i].Egresos.Cents += e.Monto.Cents
	}

	for i := range buckets {
		buckets[i].Balance.Cents = buckets[i].Ingresos.Cents - buckets[i].Egresos.Cents
		buckets[i].PctPaid = roundedPct(len(paidIDs[i]), totalStudents)
	}
	return buckets
}
