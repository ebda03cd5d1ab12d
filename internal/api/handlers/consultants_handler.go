package handlers

import (
	"net/http"

	"github.com/esc-directory/consultants/internal/api/types"
	"github.com/esc-directory/consultants/internal/models"
	"github.com/esc-directory/consultants/internal/services"
)

type ConsultantsHandler struct {
	svc services.ConsultantService
}

func NewConsultantsHandler(svc services.ConsultantService) *ConsultantsHandler {
	return &ConsultantsHandler{svc: svc}
}

// List handles GET /api/consultants?service=&region=&search=
func (h *ConsultantsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := services.ListFilters{
		Service: q.Get("service"),
		Region:  q.Get("region"),
		Search:  q.Get("search"),
	}
	// No stored value contains invalid UTF-8 or NUL, so such a filter matches nothing.
	if !storableText(f.Service) || !storableText(f.Region) || !storableText(f.Search) {
		writeJSON(w, http.StatusOK, []models.Consultant{})
		return
	}
	items, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/consultants/{id}
func (h *ConsultantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := consultantID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create handles POST /api/consultants
func (h *ConsultantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ConsultantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.Create(r.Context(), req.ToInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/consultants/{id}
func (h *ConsultantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := consultantID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.ConsultantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.Update(r.Context(), id, req.ToInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/consultants/{id}
func (h *ConsultantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := consultantID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeleteResponse{Message: "consultant deleted", DeletedID: res.DeletedID})
}
