package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// PagoMensual is a payment registered against an explicit (mes, anio) period.
	PagoMensual PaymentType = "mensual"
	// PagoUnico is a one-off payment whose (mes, anio) is derived from
	// fecha_pago once at creation and stored as-is from then on.
	PagoUnico PaymentType = "unico"
)

// Categorias are the fixed expense categories.
var Categorias = []string{"Material", "Alquiler", "Servicios", "Transporte", "Equipamiento", "Otro"}

type (
	PaymentType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Period identifies a (month, year) bucket for payments and expenses.
	Period struct {
		Mes  int
		Anio int
	}

	// Profesor is the tenant. Every other entity is exclusively owned by one.
	Profesor struct {
		ID                string     `json:"id"`
		Nombre            string     `json:"nombre"`
		Apellido          string     `json:"apellido"`
		Email             string     `json:"email"`
		PasswordHash      string     `json:"-"`
		Verificado        bool       `json:"verificado"`
		Deshabilitado     bool       `json:"deshabilitado"`
		FechaVerificacion *time.Time `json:"fecha_verificacion,omitempty"`
		CreatedAt         time.Time  `json:"created_at"`
	}

	Student struct {
		ID         int64     `json:"id"`
		ProfesorID string    `json:"profesor_id"`
		Nombre     string    `json:"nombre"`
		Apellido   string    `json:"apellido"`
		Telefono   string    `json:"telefono,omitempty"`
		GrupoID    *int64    `json:"grupo_id,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
	}

	Group struct {
		ID         int64     `json:"id"`
		ProfesorID string    `json:"profesor_id"`
		Nombre     string    `json:"nombre"`
		Color      string    `json:"color"`
		CreatedAt  time.Time `json:"created_at"`
	}

	// Payment is one payment event attributed to a student for a (mes, anio)
	// period. Aggregation buckets by Mes/Anio, never by FechaPago.
	Payment struct {
		ID           int64       `json:"id"`
		ProfesorID   string      `json:"profesor_id"`
		EstudianteID int64       `json:"estudiante_id"`
		Monto        Money       `json:"monto_cents"`
		Mes          int         `json:"mes"`
		Anio         int         `json:"anio"`
		Tipo         PaymentType `json:"tipo"`
		FechaPago    Date        `json:"fecha_pago"`
		CreatedAt    time.Time   `json:"created_at"`
	}

	Expense struct {
		ID          int64     `json:"id"`
		ProfesorID  string    `json:"profesor_id"`
		Descripcion string    `json:"descripcion"`
		Monto       Money     `json:"monto_cents"`
		Categoria   string    `json:"categoria"`
		Fecha       Date      `json:"fecha"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// Note is a free-form annotation a profesor keeps on a student.
	Note struct {
		ID           int64     `json:"id"`
		ProfesorID   string    `json:"profesor_id"`
		EstudianteID int64     `json:"estudiante_id"`
		Contenido    string    `json:"contenido"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// Attendance is one class record; average attendance feeds the
	// dashboard's progress stat and is optional data.
	Attendance struct {
		ID           int64  `json:"id"`
		ProfesorID   string `json:"profesor_id"`
		EstudianteID int64  `json:"estudiante_id"`
		Fecha        Date   `json:"fecha"`
		Asistio      bool   `json:"asistio"`
	}
)

var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyNombre      = errors.New("empty nombre")
	ErrEmptyApellido    = errors.New("empty apellido")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategoria   = errors.New("empty categoria")
	ErrInvalidTipo      = errors.New("invalid payment type")
	ErrMissingStudent   = errors.New("missing estudiante_id")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Period returns the calendar period the date falls in.
func (d Date) Period() Period {
	return Period{Mes: int(d.Time.Month()), Anio: d.Time.Year()}
}

const dateLayout = "2006-01-02"

// MarshalJSON renders the date as "YYYY-MM-DD". Zero dates become null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Tolerate full timestamps from older clients.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return errors.New("invalid date, want YYYY-MM-DD")
		}
	}
	d.Time = t.UTC()
	return nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Mes: int(t.Month()), Anio: t.Year()}
}

func (p Period) Validate() error {
	if p.Mes < 1 || p.Mes > 12 {
		return ErrInvalidMonth
	}
	if p.Anio < 2000 || p.Anio > 2100 {
		return ErrInvalidYear
	}
	return nil
}

// Key returns the sortable "YYYY-MM" bucket key.
func (p Period) Key() string {
	const digits = "0123456789"
	y := p.Anio
	return string([]byte{
		digits[y/1000%10], digits[y/100%10], digits[y/10%10], digits[y%10],
		'-', digits[p.Mes/10%10], digits[p.Mes%10],
	})
}

// Prev returns the previous calendar month, crossing year boundaries.
func (p Period) Prev() Period {
	if p.Mes == 1 {
		return Period{Mes: 12, Anio: p.Anio - 1}
	}
	return Period{Mes: p.Mes - 1, Anio: p.Anio}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (pr Profesor) Validate() error {
	if strings.TrimSpace(pr.Nombre) == "" {
		return ErrEmptyNombre
	}
	if strings.TrimSpace(pr.Apellido) == "" {
		return ErrEmptyApellido
	}
	if !strings.Contains(pr.Email, "@") {
		return errors.New("invalid email")
	}
	return nil
}

func (s Student) Validate() error {
	if strings.TrimSpace(s.Nombre) == "" {
		return ErrEmptyNombre
	}
	if strings.TrimSpace(s.Apellido) == "" {
		return ErrEmptyApellido
	}
	if len(s.Nombre) > 100 || len(s.Apellido) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.Nombre) == "" {
		return ErrEmptyNombre
	}
	if g.Color != "" && !strings.HasPrefix(g.Color, "#") {
		return errors.New("color must be a hex value")
	}
	return nil
}

func (p Payment) Validate() error {
	if p.EstudianteID == 0 {
		return ErrMissingStudent
	}
	if err := p.Monto.Validate(); err != nil {
		return err
	}
	if err := (Period{Mes: p.Mes, Anio: p.Anio}).Validate(); err != nil {
		return err
	}
	switch p.Tipo {
	case PagoMensual, PagoUnico:
	default:
		return ErrInvalidTipo
	}
	return nil
}

// Periodo returns the period the payment is attributed to. This is always
// the stored (Mes, Anio) pair, never re-derived from FechaPago.
func (p Payment) Periodo() Period {
	return Period{Mes: p.Mes, Anio: p.Anio}
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Descripcion)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Descripcion) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Monto.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Categoria) == "" {
		return ErrEmptyCategoria
	}
	if err := e.Fecha.Validate(); err != nil {
		return err
	}
	return nil
}

func (n Note) Validate() error {
	if len(strings.TrimSpace(n.Contenido)) == 0 {
		return errors.New("empty note")
	}
	if len(n.Contenido) > 2000 {
		return errors.New("note too long (max 2000 characters)")
	}
	return nil
}
