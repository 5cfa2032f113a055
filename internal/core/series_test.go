package core

import (
	"testing"
	"time"
)

func anchor() time.Time {
	return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestSeriesWindow(t *testing.T) {
	window := SeriesWindow(anchor())
	if window[0] != (Period{Mes: 4, Anio: 2024}) {
		t.Fatalf("window start = %v, want 2024-04", window[0])
	}
	if window[11] != (Period{Mes: 3, Anio: 2025}) {
		t.Fatalf("window end = %v, want 2025-03", window[11])
	}
	for i := 1; i < len(window); i++ {
		if window[i].Key() <= window[i-1].Key() {
			t.Fatalf("window not strictly increasing at %d: %v then %v", i, window[i-1], window[i])
		}
	}
}

func TestBuildSeriesEmpty(t *testing.T) {
	series := BuildSeries(anchor(), nil, nil, 0)
	if len(series) != SeriesLength {
		t.Fatalf("len = %d, want %d", len(series), SeriesLength)
	}
	for i, b := range series {
		if b.Ingresos.Cents != 0 || b.Egresos.Cents != 0 || b.Balance.Cents != 0 || b.PctPaid != 0 {
			t.Fatalf("bucket %d not zero-filled: %+v", i, b)
		}
	}
	if series[0].Anio != 2024 || series[0].Mes != 4 {
		t.Fatalf("first bucket = %d-%02d, want 2024-04", series[0].Anio, series[0].Mes)
	}
	if series[11].Anio != 2025 || series[11].Mes != 3 {
		t.Fatalf("last bucket = %d-%02d, want 2025-03", series[11].Anio, series[11].Mes)
	}
}

func TestBuildSeriesBucketing(t *testing.T) {
	payments := []Payment{
		{EstudianteID: 1, Monto: Money{Cents: 100000}, Mes: 3, Anio: 2025, Tipo: PagoMensual},
		{EstudianteID: 2, Monto: Money{Cents: 50000}, Mes: 3, Anio: 2025, Tipo: PagoMensual},
		{EstudianteID: 1, Monto: Money{Cents: 80000}, Mes: 12, Anio: 2024, Tipo: PagoMensual},
		// Outside the window: survives the coarse year prefilter, dropped here.
		{EstudianteID: 1, Monto: Money{Cents: 999900}, Mes: 1, Anio: 2024, Tipo: PagoMensual},
	}
	expenses := []Expense{
		{Monto: Money{Cents: 30000}, Fecha: NewDate(2025, 3, 31)},
		{Monto: Money{Cents: 20000}, Fecha: NewDate(2024, 12, 1)},
		// Zero date (unparseable upstream) must be skipped, not crash.
		{Monto: Money{Cents: 11111}},
	}

	series := BuildSeries(anchor(), payments, expenses, 4)

	last := series[11] // 2025-03
	if last.Ingresos.Cents != 150000 {
		t.Fatalf("2025-03 ingresos = %d, want 150000", last.Ingresos.Cents)
	}
	if last.Egresos.Cents != 30000 {
		t.Fatalf("2025-03 egresos = %d, want 30000", last.Egresos.Cents)
	}
	if last.Balance.Cents != 120000 {
		t.Fatalf("2025-03 balance = %d, want 120000", last.Balance.Cents)
	}
	if last.PctPaid != 50 { // 2 of 4 students
		t.Fatalf("2025-03 pct = %d, want 50", last.PctPaid)
	}

	dec := series[8] // 2024-12
	if dec.Anio != 2024 || dec.Mes != 12 {
		t.Fatalf("bucket 8 = %d-%02d, want 2024-12", dec.Anio, dec.Mes)
	}
	if dec.Ingresos.Cents != 80000 || dec.Egresos.Cents != 20000 || dec.Balance.Cents != 60000 {
		t.Fatalf("2024-12 = %+v", dec)
	}
	if dec.PctPaid != 25 { // 1 of 4
		t.Fatalf("2024-12 pct = %d, want 25", dec.PctPaid)
	}

	var total int64
	for _, b := range series {
		total += b.Ingresos.Cents
	}
	if total != 230000 {
		t.Fatalf("window total = %d, want 230000 (out-of-window payment must be dropped)", total)
	}
}

func TestBuildSeriesDistinctPayersPerBucket(t *testing.T) {
	// Two payments by the same student in one month count once for the rate.
	payments := []Payment{
		{EstudianteID: 7, Monto: Money{Cents: 1000}, Mes: 3, Anio: 2025, Tipo: PagoMensual},
		{EstudianteID: 7, Monto: Money{Cents: 1000}, Mes: 3, Anio: 2025, Tipo: PagoMensual},
	}
	series := BuildSeries(anchor(), payments, nil, 2)
	if got := series[11].PctPaid; got != 50 {
		t.Fatalf("pct = %d, want 50", got)
	}
}

func TestSeriesStart(t *testing.T) {
	want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if got := SeriesStart(anchor()); !got.Equal(want) {
		t.Fatalf("series start = %v, want %v", got, want)
	}
}
