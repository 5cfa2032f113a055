package core

import (
	"testing"
	"time"
)

func TestPeriodValidate(t *testing.T) {
	cases := []struct {
		p  Period
		ok bool
	}{
		{Period{Mes: 1, Anio: 2025}, true},
		{Period{Mes: 12, Anio: 2025}, true},
		{Period{Mes: 0, Anio: 2025}, false},
		{Period{Mes: 13, Anio: 2025}, false},
		{Period{Mes: 6, Anio: 1999}, false},
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPeriodKeyAndPrev(t *testing.T) {
	if got := (Period{Mes: 3, Anio: 2025}).Key(); got != "2025-03" {
		t.Fatalf("key = %q, want 2025-03", got)
	}
	if got := (Period{Mes: 1, Anio: 2025}).Prev(); got != (Period{Mes: 12, Anio: 2024}) {
		t.Fatalf("prev across year = %v", got)
	}
	if got := (Period{Mes: 7, Anio: 2025}).Prev(); got != (Period{Mes: 6, Anio: 2025}) {
		t.Fatalf("prev = %v", got)
	}
}

func TestPaymentValidate(t *testing.T) {
	good := Payment{
		EstudianteID: 1,
		Monto:        Money{Cents: 150000},
		Mes:          3,
		Anio:         2025,
		Tipo:         PagoMensual,
		FechaPago:    NewDate(2025, 3, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Payment{
		{EstudianteID: 0, Monto: Money{Cents: 1}, Mes: 3, Anio: 2025, Tipo: PagoMensual},
		{EstudianteID: 1, Monto: Money{Cents: 0}, Mes: 3, Anio: 2025, Tipo: PagoMensual},
		{EstudianteID: 1, Monto: Money{Cents: 1}, Mes: 13, Anio: 2025, Tipo: PagoMensual},
		{EstudianteID: 1, Monto: Money{Cents: 1}, Mes: 3, Anio: 2025, Tipo: "anual"},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Descripcion: "Fotocopias",
		Monto:       Money{Cents: 30000},
		Categoria:   "Material",
		Fecha:       NewDate(2025, 3, 5),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Descripcion: "", Monto: Money{Cents: 1}, Categoria: "Otro", Fecha: NewDate(2025, 1, 1)},
		{Descripcion: "a", Monto: Money{Cents: 0}, Categoria: "Otro", Fecha: NewDate(2025, 1, 1)},
		{Descripcion: "a", Monto: Money{Cents: 1}, Categoria: "", Fecha: NewDate(2025, 1, 1)},
		{Descripcion: "a", Monto: Money{Cents: 1}, Categoria: "Otro", Fecha: Date{Time: time.Time{}}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestStudentValidate(t *testing.T) {
	if err := (Student{Nombre: "Ana", Apellido: "Pérez"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Student{Nombre: "", Apellido: "Pérez"}).Validate(); err == nil {
		t.Fatalf("expected error for empty nombre")
	}
	if err := (Student{Nombre: "Ana", Apellido: " "}).Validate(); err == nil {
		t.Fatalf("expected error for blank apellido")
	}
}

func TestPaymentPeriodoUsesStoredFields(t *testing.T) {
	// A payment dated at a month boundary stays in its stored period.
	p := Payment{
		EstudianteID: 1,
		Monto:        Money{Cents: 1000},
		Mes:          2,
		Anio:         2025,
		Tipo:         PagoMensual,
		FechaPago:    NewDate(2025, 3, 1),
	}
	if got := p.Periodo(); got != (Period{Mes: 2, Anio: 2025}) {
		t.Fatalf("periodo = %v, want stored (2, 2025)", got)
	}
}
