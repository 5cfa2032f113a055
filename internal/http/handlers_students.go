package http

import (
	"net/http"

	"profesorhub/internal/core"
)

type studentRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Telefono string `json:"telefono"`
	GrupoID  *int64 `json:"grupo_id"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	students, err := s.store.ListStudents(r.Context(), p.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	var req studentRequest
	if !readJSON(w, r, &req) {
		return
	}

	student := core.Student{
		ProfesorID: p.ID,
		Nombre:     sanitizeInput(req.Nombre),
		Apellido:   sanitizeInput(req.Apellido),
		Telefono:   sanitizeInput(req.Telefono),
		GrupoID:    req.GrupoID,
	}
	if err := student.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateStudent(r.Context(), student)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	student, err := s.store.GetStudent(r.Context(), p.ID, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req studentRequest
	if !readJSON(w, r, &req) {
		return
	}

	student := core.Student{
		ID:         id,
		ProfesorID: p.ID,
		Nombre:     sanitizeInput(req.Nombre),
		Apellido:   sanitizeInput(req.Apellido),
		Telefono:   sanitizeInput(req.Telefono),
		GrupoID:    req.GrupoID,
	}
	if err := student.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateStudent(r.Context(), student); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusOK, student)
}

// handleDeleteStudent removes the student and their notes. Payments stay
// so the books still balance for past months.
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteStudent(r.Context(), p.ID, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	history, err := s.payments.History(r.Context(), p.ID, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type noteRequest struct {
	Contenido string `json:"contenido"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	notes, err := s.store.ListNotes(r.Context(), p.ID, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req noteRequest
	if !readJSON(w, r, &req) {
		return
	}

	// The student must exist and belong to this tenant.
	if _, err := s.store.GetStudent(r.Context(), p.ID, id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	note := core.Note{
		ProfesorID:   p.ID,
		EstudianteID: id,
		Contenido:    sanitizeInput(req.Contenido),
	}
	if err := note.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateNote(r.Context(), note)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteNote(r.Context(), p.ID, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
