package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (h *Handler) GetAllShiftTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllShiftTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift template list", templates)
}

func (h *Handler) GetShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)
	h.successResponse(w, r, "shift template details", st)
}

func (h *Handler) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
		Block     string `json:"block" validate:"required,oneof=AM PM"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := &domain.ShiftTemplate{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Block:     domain.ShiftBlock(req.Block),
	}

	if err := domain.ValidateShiftTemplateTime(st); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.CreateShiftTemplate(st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shift_templates_name_key":
				h.errorResponse(w, r, "a shift template with this name already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift template created", st)
}

func (h *Handler) UpdateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	var req struct {
		Name      *string `json:"name"`
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
		Block     *string `json:"block" validate:"omitempty,oneof=AM PM"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if req.Block != nil {
		st.Block = domain.ShiftBlock(*req.Block)
	}

	if err := domain.ValidateShiftTemplateTime(st); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.UpdateShiftTemplate(st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shift_templates_name_key":
				h.errorResponse(w, r, "a shift template with this name already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift template updated", st)
}

func (h *Handler) DeleteShiftTemplate(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if err := h.repository.DeleteShiftTemplate(st.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "assignments_shift_template_id_fkey":
				h.errorResponse(w, r, "shift template is still referenced by rota assignments")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift template deleted", nil)
}
