package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (h *Handler) GetAllCrews(w http.ResponseWriter, r *http.Request) {
	crews, err := h.repository.GetAllCrews()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "crew list", crews)
}

func (h *Handler) GetCrew(w http.ResponseWriter, r *http.Request) {
	crew := r.Context().Value(CrewCtx).(*domain.Crew)
	h.successResponse(w, r, "crew details", crew)
}

func (h *Handler) CreateCrew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		SortOrder int32  `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	crew := &domain.Crew{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}

	if err := h.repository.CreateCrew(crew); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "crews_name_key":
				h.errorResponse(w, r, "a crew with this name already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "crew created", crew)
}

func (h *Handler) UpdateCrew(w http.ResponseWriter, r *http.Request) {
	crew := r.Context().Value(CrewCtx).(*domain.Crew)

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int32  `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		crew.Name = *req.Name
	}
	if req.SortOrder != nil {
		crew.SortOrder = *req.SortOrder
	}

	if err := h.repository.UpdateCrew(crew); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "crews_name_key":
				h.errorResponse(w, r, "a crew with this name already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "crew updated", crew)
}

func (h *Handler) DeleteCrew(w http.ResponseWriter, r *http.Request) {
	crew := r.Context().Value(CrewCtx).(*domain.Crew)

	if err := h.repository.DeleteCrew(crew.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "crew deleted", nil)
}
