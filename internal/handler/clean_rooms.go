package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (h *Handler) GetAllCleanRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.repository.GetAllCleanRooms()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "clean room list", rooms)
}

func (h *Handler) GetCleanRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(CleanRoomCtx).(*domain.CleanRoom)
	h.successResponse(w, r, "clean room details", room)
}

func (h *Handler) CreateCleanRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Number      int32  `json:"number" validate:"required,min=1"`
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	room := &domain.CleanRoom{
		Number:      req.Number,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.repository.CreateCleanRoom(room); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "clean_rooms_number_key":
				h.errorResponse(w, r, "a clean room with this number already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "clean room created", room)
}

func (h *Handler) UpdateCleanRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(CleanRoomCtx).(*domain.CleanRoom)

	var req struct {
		Number      *int32  `json:"number" validate:"omitempty,min=1"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Number != nil {
		room.Number = *req.Number
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = *req.Description
	}

	if err := h.repository.UpdateCleanRoom(room); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "clean_rooms_number_key":
				h.errorResponse(w, r, "a clean room with this number already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "clean room updated", room)
}

func (h *Handler) DeleteCleanRoom(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(CleanRoomCtx).(*domain.CleanRoom)

	if err := h.repository.DeleteCleanRoom(room.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "clean room deleted", nil)
}

func (h *Handler) GetCleanRoomIsolators(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(CleanRoomCtx).(*domain.CleanRoom)

	isolators, err := h.repository.GetIsolatorsByCleanRoomID(room.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "isolator list", isolators)
}

func (h *Handler) CreateIsolator(w http.ResponseWriter, r *http.Request) {
	room := r.Context().Value(CleanRoomCtx).(*domain.CleanRoom)

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

	iso := &domain.Isolator{
		CleanRoomID: room.ID,
		Name:        req.Name,
		SortOrder:   req.SortOrder,
	}

	// also creates the L/R sections
	if err := h.repository.CreateIsolator(iso); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "isolators_clean_room_id_name_key":
				h.errorResponse(w, r, "an isolator with this name already exists in the room")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "isolator created", iso)
}

func (h *Handler) UpdateIsolator(w http.ResponseWriter, r *http.Request) {
	isolatorIDParam := chi.URLParam(r, "id")
	isolatorID, err := strconv.ParseInt(isolatorIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid isolator ID")
		return
	}

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int32  `json:"sortOrder"`
		IsActive  *bool   `json:"isActive"`
		Version   int32   `json:"version"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	iso, err := h.repository.GetIsolatorByID(isolatorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "isolator not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if req.Name != nil {
		iso.Name = *req.Name
	}
	if req.SortOrder != nil {
		iso.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		iso.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateIsolator(iso); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "isolator updated", iso)
}

func (h *Handler) GetAllIsolatorSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.repository.GetAllIsolatorSections()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "isolator section list", sections)
}

func (h *Handler) UpdateIsolatorSection(w http.ResponseWriter, r *http.Request) {
	section := r.Context().Value(IsolatorSectionCtx).(*domain.IsolatorSection)

	var req struct {
		IsActive *bool `json:"isActive" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SetIsolatorSectionActive(section.ID, *req.IsActive); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	section.IsActive = *req.IsActive
	h.successResponse(w, r, "isolator section updated", section)
}

func (h *Handler) GetEligibleOperators(w http.ResponseWriter, r *http.Request) {
	section := r.Context().Value(IsolatorSectionCtx).(*domain.IsolatorSection)

	on, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}

	operators, err := h.repository.GetEligibleStaffForSection(section.ID, on)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "eligible operators", operators)
}
