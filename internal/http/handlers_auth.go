package http

import (
	"log/slog"
	"net/http"
	"strings"

	"profesorhub/internal/auth"
	"profesorhub/internal/core"
	applog "profesorhub/internal/log"
)

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string        `json:"token"`
	Profesor core.Profesor `json:"profesor"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !readJSON(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	profesor := core.Profesor{
		Nombre:       sanitizeInput(req.Nombre),
		Apellido:     sanitizeInput(req.Apellido),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}
	if err := profesor.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateProfesor(r.Context(), profesor)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Profesor registered, pending verification",
		applog.FieldComponent, applog.ComponentAuth,
		applog.FieldProfesorID, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readJSON(w, r, &req) {
		return
	}

	profesor, err := s.store.GetProfesorByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !auth.CheckPassword(profesor.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if profesor.Deshabilitado {
		writeError(w, http.StatusForbidden, "account disabled")
		return
	}

	token, err := auth.GenerateToken(s.jwtSecret, profesor, s.sessionTTL)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Login",
		applog.FieldComponent, applog.ComponentAuth,
		applog.FieldProfesorID, profesor.ID,
		"verificado", profesor.Verificado)
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Profesor: profesor})
}

// handleMe returns the tenant profile; the SPA polls it while the
// account awaits verification.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profesor, ok := profesorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, profesor)
}
