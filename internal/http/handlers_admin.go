package http

import (
	"log/slog"
	"net/http"

	"profesorhub/internal/auth"
	applog "profesorhub/internal/log"
)

func (s *Server) handleAdminListProfesores(w http.ResponseWriter, r *http.Request) {
	profesores, err := s.store.ListProfesores(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profesores)
}

func (s *Server) handleAdminVerify(w http.ResponseWriter, r *http.Request) {
	s.setVerificado(w, r, true)
}

func (s *Server) handleAdminRevoke(w http.ResponseWriter, r *http.Request) {
	s.setVerificado(w, r, false)
}

func (s *Server) setVerificado(w http.ResponseWriter, r *http.Request, verificado bool) {
	id := r.PathValue("id")
	if err := s.store.SetProfesorVerificado(r.Context(), id, verificado); err != nil {
		writeStoreError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Verification changed",
		applog.FieldComponent, applog.ComponentAdmin,
		applog.FieldProfesorID, id,
		"verificado", verificado)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleAdminEnable(w http.ResponseWriter, r *http.Request) {
	s.setDeshabilitado(w, r, false)
}

func (s *Server) handleAdminDisable(w http.ResponseWriter, r *http.Request) {
	s.setDeshabilitado(w, r, true)
}

func (s *Server) setDeshabilitado(w http.ResponseWriter, r *http.Request, deshabilitado bool) {
	id := r.PathValue("id")
	if err := s.store.SetProfesorDeshabilitado(r.Context(), id, deshabilitado); err != nil {
		writeStoreError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Enabled state changed",
		applog.FieldComponent, applog.ComponentAdmin,
		applog.FieldProfesorID, id,
		"deshabilitado", deshabilitado)
	writeJSON(w, http.StatusOK, nil)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !readJSON(w, r, &req) {
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := r.PathValue("id")
	if err := s.store.UpdateProfesorPassword(r.Context(), id, hash); err != nil {
		writeStoreError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Password reset",
		applog.FieldComponent, applog.ComponentAdmin,
		applog.FieldProfesorID, id)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleAdminDeleteProfesor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteProfesor(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(id)
	writeJSON(w, http.StatusOK, nil)
}

type backupRequest struct {
	ProfesorID string `json:"profesor_id"`
}

// handleAdminBackup queues a backup, for one tenant or for all of them.
func (s *Server) handleAdminBackup(w http.ResponseWriter, r *http.Request) {
	var req backupRequest
	if !readJSON(w, r, &req) {
		return
	}
	if !s.backup.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "backups not configured")
		return
	}
	if err := s.backup.RequestBackup(r.Context(), req.ProfesorID, "admin"); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
