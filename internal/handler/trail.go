package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trails/internal/domain"
)

// ListTrails handles GET /api/trails.
// Supports optional ?difficulty=, ?page= and ?limit= query parameters.
// Without page or limit every trail is returned; with them the response is
// one page and X-Total-Count carries the number of matching trails.
func (s *Server) ListTrails(w http.ResponseWriter, r *http.Request) {
	var (
		difficulty  *string
		page, limit *int
	)
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "difficulty", query, &difficulty); err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &page); err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	var filter domain.TrailFilter
	if difficulty != nil {
		filter.Difficulty = domain.Difficulty(*difficulty)
	}
	params := domain.NewPaginationParams(page, limit)

	trails, total, err := s.trails.List(r.Context(), filter, params)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.internalError(w, r, err)
		return
	}

	if params != nil {
		w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	}
	writeJSON(w, http.StatusOK, trails)
}

// GetTrail handles GET /api/trails/{id}.
func (s *Server) GetTrail(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, paramBody(err.Error()))
		return
	}

	trail, err := s.trails.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("trail not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trail)
}
