// Package http exposes the JSON API consumed by the SPA.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"profesorhub/internal/cache"
	"profesorhub/internal/config"
	"profesorhub/internal/core"
	"profesorhub/internal/services"
	"profesorhub/internal/store"
)

type Server struct {
	http.Server

	store      store.Store
	payments   *services.PaymentService
	dashboard  *services.DashboardService
	backup     *services.BackupService
	jwtSecret  string
	sessionTTL time.Duration
	adminToken string

	rateLimiter  *rateLimiter
	summaryCache *cache.LRUCache[core.MonthSummary]
	seriesCache  *cache.LRUCache[[]core.MonthBucket]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, caches and middleware into a ready-to-run server.
func NewServer(cfg *config.Config, st store.Store, backupPublisher services.BackupPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		store:      st,
		payments:   services.NewPaymentService(st),
		dashboard:  services.NewDashboardService(st),
		backup:     services.NewBackupService(backupPublisher),
		jwtSecret:  cfg.JWTSecret,
		sessionTTL: cfg.SessionTTL,
		adminToken: cfg.AdminToken,

		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRU[core.MonthSummary](200, 5*time.Minute),
		seriesCache:  cache.NewLRU[[]core.MonthBucket](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.seriesCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.withAuth(true, s.handleMe))

	// Admin panel
	mux.HandleFunc("GET /api/admin/profesores", s.withAdmin(s.handleAdminListProfesores))
	mux.HandleFunc("POST /api/admin/profesores/{id}/verificar", s.withAdmin(s.handleAdminVerify))
	mux.HandleFunc("POST /api/admin/profesores/{id}/revocar", s.withAdmin(s.handleAdminRevoke))
	mux.HandleFunc("POST /api/admin/profesores/{id}/habilitar", s.withAdmin(s.handleAdminEnable))
	mux.HandleFunc("POST /api/admin/profesores/{id}/deshabilitar", s.withAdmin(s.handleAdminDisable))
	mux.HandleFunc("POST /api/admin/profesores/{id}/password", s.withAdmin(s.handleAdminResetPassword))
	mux.HandleFunc("DELETE /api/admin/profesores/{id}", s.withAdmin(s.handleAdminDeleteProfesor))
	mux.HandleFunc("POST /api/admin/backup", s.withAdmin(s.handleAdminBackup))

	// Estudiantes
	mux.HandleFunc("GET /api/estudiantes", s.withAuth(false, s.handleListStudents))
	mux.HandleFunc("POST /api/estudiantes", s.withAuth(false, s.handleCreateStudent))
	mux.HandleFunc("GET /api/estudiantes/{id}", s.withAuth(false, s.handleGetStudent))
	mux.HandleFunc("PUT /api/estudiantes/{id}", s.withAuth(false, s.handleUpdateStudent))
	mux.HandleFunc("DELETE /api/estudiantes/{id}", s.withAuth(false, s.handleDeleteStudent))
	mux.HandleFunc("GET /api/estudiantes/{id}/pagos", s.withAuth(false, s.handlePaymentHistory))
	mux.HandleFunc("GET /api/estudiantes/{id}/notas", s.withAuth(false, s.handleListNotes))
	mux.HandleFunc("POST /api/estudiantes/{id}/notas", s.withAuth(false, s.handleCreateNote))
	mux.HandleFunc("DELETE /api/notas/{id}", s.withAuth(false, s.handleDeleteNote))

	// Grupos
	mux.HandleFunc("GET /api/grupos", s.withAuth(false, s.handleListGroups))
	mux.HandleFunc("POST /api/grupos", s.withAuth(false, s.handleCreateGroup))
	mux.HandleFunc("PUT /api/grupos/{id}", s.withAuth(false, s.handleUpdateGroup))
	mux.HandleFunc("DELETE /api/grupos/{id}", s.withAuth(false, s.handleDeleteGroup))

	// Pagos
	mux.HandleFunc("GET /api/pagos", s.withAuth(false, s.handleListPayments))
	mux.HandleFunc("POST /api/pagos", s.withAuth(false, s.handleCreatePayment))
	mux.HandleFunc("DELETE /api/pagos/{id}", s.withAuth(false, s.handleDeletePayment))

	// Gastos
	mux.HandleFunc("GET /api/gastos", s.withAuth(false, s.handleListExpenses))
	mux.HandleFunc("POST /api/gastos", s.withAuth(false, s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/gastos/{id}", s.withAuth(false, s.handleDeleteExpense))
	mux.HandleFunc("GET /api/gastos/categorias", s.withAuth(false, s.handleListCategories))

	// Clases (attendance)
	mux.HandleFunc("POST /api/clases", s.withAuth(false, s.handleRecordAttendance))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", s.withAuth(false, s.handleDashboardStats))
	mux.HandleFunc("GET /api/dashboard/resumen", s.withAuth(false, s.handleMonthSummary))
	mux.HandleFunc("GET /api/dashboard/series", s.withAuth(false, s.handleSeries))
	mux.HandleFunc("GET /api/dashboard/progreso", s.withAuth(false, s.handleProgress))

	return s
}

// Shutdown stops background goroutines along with the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateTenant evicts every cached view of one tenant after a write.
func (s *Server) invalidateTenant(profesorID string) {
	s.summaryCache.DeletePrefix(profesorID + ":")
	s.seriesCache.DeletePrefix(profesorID + ":")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
