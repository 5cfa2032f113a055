package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"profesorhub/internal/config"
	"profesorhub/internal/core"
	"profesorhub/internal/store/memory"
)

const testAdminToken = "secret-admin-token"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Port:       "0",
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		AdminToken: testAdminToken,
	}
	srv := NewServer(cfg, memory.New(), nil)
	t.Cleanup(func() { srv.cacheManager.Stop(); srv.rateLimiter.stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func doAdmin(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-Admin-Token", testAdminToken)
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

// registerVerified registers a profesor, verifies it through the admin
// surface and returns a session token.
func registerVerified(t *testing.T, srv *Server, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"nombre":"Ana","apellido":"Diaz","email":%q,"password":"secret1"}`, email)
	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Profesor
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	rr = doAdmin(t, srv, http.MethodPost, "/api/admin/profesores/"+created.ID+"/verificar", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("verificar status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", fmt.Sprintf(`{"email":%q,"password":"secret1"}`, email))
	if rr.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", rr.Code, rr.Body.String())
	}
	var session sessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return session.Token
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "", "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestUnverifiedGate(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
		`{"nombre":"Ana","apellido":"Diaz","email":"ana@example.com","password":"secret1"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
		`{"email":"ana@example.com","password":"secret1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unverified login status=%d", rr.Code)
	}
	var session sessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	// Profile works while pending.
	rr = doJSON(t, srv, http.MethodGet, "/api/auth/me", session.Token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("me status=%d", rr.Code)
	}

	// Everything else is forbidden until the admin verifies.
	rr = doJSON(t, srv, http.MethodGet, "/api/estudiantes", session.Token, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before verification, got %d", rr.Code)
	}
}

func TestAuthFailures(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/estudiantes", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/estudiantes", "not-a-jwt", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
		`{"email":"nobody@example.com","password":"whatever"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email login status=%d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profesores", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad admin token status=%d", rec.Code)
	}
}

func TestDuplicateEmailRegistration(t *testing.T) {
	srv := newTestServer(t)
	registerVerified(t, srv, "ana@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
		`{"nombre":"Otra","apellido":"Ana","email":"ANA@example.com","password":"secret1"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rr.Code)
	}
}

func TestStudentCRUDAndTenantIsolation(t *testing.T) {
	srv := newTestServer(t)
	tokenA := registerVerified(t, srv, "a@example.com")
	tokenB := registerVerified(t, srv, "b@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/estudiantes", tokenA,
		`{"nombre":"Juan","apellido":"Perez","telefono":"123"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create student status=%d body=%s", rr.Code, rr.Body.String())
	}
	var student core.Student
	if err := json.Unmarshal(rr.Body.Bytes(), &student); err != nil {
		t.Fatalf("decode student: %v", err)
	}

	// Other tenant cannot see it.
	rr = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/estudiantes/%d", student.ID), tokenB, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/estudiantes/%d", student.ID), tokenA,
		`{"nombre":"Juan","apellido":"Gomez","telefono":"123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update student status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/estudiantes", tokenA,
		`{"nombre":"","apellido":"Perez"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty nombre status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/estudiantes/%d", student.ID), tokenA, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete student status=%d", rr.Code)
	}
}

func TestPaymentDuplicateFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerVerified(t, srv, "a@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/estudiantes", token,
		`{"nombre":"Juan","apellido":"Perez"}`)
	var student core.Student
	if err := json.Unmarshal(rr.Body.Bytes(), &student); err != nil {
		t.Fatalf("decode student: %v", err)
	}

	pago := fmt.Sprintf(`{"estudiante_id":%d,"monto":"1500.50","mes":3,"anio":2025}`, student.ID)
	rr = doJSON(t, srv, http.MethodPost, "/api/pagos", token, pago)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first pago status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Payment
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode pago: %v", err)
	}
	if created.Monto.Cents != 150050 {
		t.Fatalf("monto cents = %d, want 150050", created.Monto.Cents)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/pagos", token, pago)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate pago status=%d, want 409", rr.Code)
	}

	confirmed := fmt.Sprintf(`{"estudiante_id":%d,"monto":"1500.50","mes":3,"anio":2025,"confirmar_duplicado":true}`, student.ID)
	rr = doJSON(t, srv, http.MethodPost, "/api/pagos", token, confirmed)
	if rr.Code != http.StatusCreated {
		t.Fatalf("confirmed duplicate status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/pagos?mes=3&anio=2025", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list pagos status=%d", rr.Code)
	}
	var payments []core.Payment
	if err := json.Unmarshal(rr.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode pagos: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("pagos in period = %d, want 2", len(payments))
	}
}

func TestPaymentFechaPagoDefaults(t *testing.T) {
	srv := newTestServer(t)
	token := registerVerified(t, srv, "a@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/estudiantes", token,
		`{"nombre":"Juan","apellido":"Perez"}`)
	var student core.Student
	if err := json.Unmarshal(rr.Body.Bytes(), &student); err != nil {
		t.Fatalf("decode student: %v", err)
	}

	// A mensual payment without fecha_pago gets today's date.
	pago := fmt.Sprintf(`{"estudiante_id":%d,"monto":"1000","mes":3,"anio":2025}`, student.ID)
	rr = doJSON(t, srv, http.MethodPost, "/api/pagos", token, pago)
	if rr.Code != http.StatusCreated {
		t.Fatalf("pago status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Payment
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode pago: %v", err)
	}
	if created.FechaPago.IsZero() {
		t.Fatal("fecha_pago should default to today for mensual payments")
	}
	today := time.Now().UTC().Format("2006-01-02")
	if got := created.FechaPago.Format("2006-01-02"); got != today {
		t.Fatalf("fecha_pago = %s, want %s", got, today)
	}

	// Tipo unico still requires an explicit fecha_pago.
	unico := fmt.Sprintf(`{"estudiante_id":%d,"monto":"1000","tipo":"unico"}`, student.ID)
	rr = doJSON(t, srv, http.MethodPost, "/api/pagos", token, unico)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unico without fecha_pago status=%d, want 422", rr.Code)
	}
}

func TestUnknownStudentPayment(t *testing.T) {
	srv := newTestServer(t)
	token := registerVerified(t, srv, "a@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/pagos", token,
		`{"estudiante_id":999,"monto":100,"mes":3,"anio":2025}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown student pago status=%d, want 404", rr.Code)
	}
}

func TestExpenseValidation(t *testing.T) {
	srv := newTestServer(t)
	token := registerVerified(t, srv, "a@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/gastos", token,
		`{"descripcion":"fotocopias","monto":"250.00","categoria":"Material","fecha":"2025-03-10"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create gasto status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/gastos", token,
		`{"descripcion":"x","monto":"10","categoria":"Inventada","fecha":"2025-03-10"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown categoria status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/gastos/categorias", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("categorias status=%d", rr.Code)
	}
	var cats []string
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categorias: %v", err)
	}
	if len(cats) != len(core.Categorias) {
		t.Fatalf("categorias = %d, want %d", len(cats), len(core.Categorias))
	}
}

func TestMonthSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerVerified(t, srv, "a@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/estudiantes", token,
		`{"nombre":"Juan","apellido":"Perez"}`)
	var student core.Student
	if err := json.Unmarshal(rr.Body.Bytes(), &student); err != nil {
		t.Fatalf("decode student: %v", err)
	}
	doJSON(t, srv, http.MethodPost, "/api/estudiantes", token,
		`{"nombre":"Lucia","apellido":"Gomez"}`)

	pago := fmt.Sprintf(`{"estudiante_id":%d,"monto":"1000","mes":3,"anio":2025}`, student.ID)
	if rr := doJSON(t, srv, http.MethodPost, "/api/pagos", token, pago); rr.Code != http.StatusCreated {
		t.Fatalf("pago status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/dashboard/resumen?mes=3&anio=2025", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("resumen status=%d body=%s", rr.Code, rr.Body.String())
	}
	var summary core.MonthSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode resumen: %v", err)
	}
	if summary.TotalCobrado.Cents != 100000 {
		t.Fatalf("total cobrado = %d, want 100000", summary.TotalCobrado.Cents)
	}
	if summary.PctPaid != 50 {
		t.Fatalf("pct paid = %d, want 50", summary.PctPaid)
	}

	// Second read hits the cache and must agree.
	rr = doJSON(t, srv, http.MethodGet, "/api/dashboard/resumen?mes=3&anio=2025", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cached resumen status=%d", rr.Code)
	}

	// A write invalidates; the next read reflects it.
	pago2 := fmt.Sprintf(`{"estudiante_id":%d,"monto":"500","mes":3,"anio":2025,"confirmar_duplicado":true}`, student.ID)
	if rr := doJSON(t, srv, http.MethodPost, "/api/pagos", token, pago2); rr.Code != http.StatusCreated {
		t.Fatalf("second pago status=%d", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodGet, "/api/dashboard/resumen?mes=3&anio=2025", token, "")
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode resumen after write: %v", err)
	}
	if summary.TotalCobrado.Cents != 150000 {
		t.Fatalf("total cobrado after write = %d, want 150000", summary.TotalCobrado.Cents)
	}
}

func TestSeriesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerVerified(t, srv, "a@example.com")

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/series", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("series status=%d", rr.Code)
	}
	var series []core.MonthBucket
	if err := json.Unmarshal(rr.Body.Bytes(), &series); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if len(series) != core.SeriesLength {
		t.Fatalf("series length = %d, want %d", len(series), core.SeriesLength)
	}
}

func TestAdminDisableBlocksLogin(t *testing.T) {
	srv := newTestServer(t)
	registerVerified(t, srv, "a@example.com")

	rr := doAdmin(t, srv, http.MethodGet, "/api/admin/profesores", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list profesores status=%d", rr.Code)
	}
	var profesores []core.Profesor
	if err := json.Unmarshal(rr.Body.Bytes(), &profesores); err != nil {
		t.Fatalf("decode profesores: %v", err)
	}
	if len(profesores) != 1 {
		t.Fatalf("profesores = %d, want 1", len(profesores))
	}

	rr = doAdmin(t, srv, http.MethodPost, "/api/admin/profesores/"+profesores[0].ID+"/deshabilitar", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("deshabilitar status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
		`{"email":"a@example.com","password":"secret1"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("disabled login status=%d, want 403", rr.Code)
	}
}
