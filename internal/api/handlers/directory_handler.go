package handlers

import (
	"net/http"

	"github.com/esc-directory/consultants/internal/services"
)

// DirectoryHandler serves the aggregate views.
type DirectoryHandler struct {
	svc services.DirectoryService
}

func NewDirectoryHandler(svc services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

func (h *DirectoryHandler) Services(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Services(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DirectoryHandler) Regions(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Regions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DirectoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
