package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"submerge/internal/store"
)

type presetRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Options     json.RawMessage `json:"options"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.store.ListPresets()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if presets == nil {
		presets = []store.Preset{}
	}
	s.respond(w, http.StatusOK, presets)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := decodeOptions(req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.store.CreatePreset(store.Preset{
		Name:        req.Name,
		Description: req.Description,
		Options:     opts,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPreset(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

// handleUpdatePreset replaces the stored preset: the request carries the
// full new state, with omitted option keys falling back to defaults.
func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.validate.Validate(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := decodeOptions(req.Options)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.store.UpdatePreset(store.Preset{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Options:     opts,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePreset(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondNoContent(w)
}
