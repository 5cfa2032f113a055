package http

import (
	"net/http"

	"profesorhub/internal/core"
)

type groupRequest struct {
	Nombre string `json:"nombre"`
	Color  string `json:"color"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	groups, err := s.store.ListGroups(r.Context(), p.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	var req groupRequest
	if !readJSON(w, r, &req) {
		return
	}

	group := core.Group{
		ProfesorID: p.ID,
		Nombre:     sanitizeInput(req.Nombre),
		Color:      sanitizeInput(req.Color),
	}
	if err := group.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateGroup(r.Context(), group)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req groupRequest
	if !readJSON(w, r, &req) {
		return
	}

	group := core.Group{
		ID:         id,
		ProfesorID: p.ID,
		Nombre:     sanitizeInput(req.Nombre),
		Color:      sanitizeInput(req.Color),
	}
	if err := group.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateGroup(r.Context(), group); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusOK, group)
}

// handleDeleteGroup deletes the group; its students are detached, not
// deleted.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteGroup(r.Context(), p.ID, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.invalidateTenant(p.ID)
	writeJSON(w, http.StatusOK, nil)
}
