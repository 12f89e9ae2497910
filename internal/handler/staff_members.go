package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func (h *Handler) GetAllStaffMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.repository.GetAllStaffMembers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff list", members)
}

func (h *Handler) GetStaffMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)
	h.successResponse(w, r, "staff member details", member)
}

func (h *Handler) CreateStaffMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName    string `json:"firstName" validate:"required"`
		LastName     string `json:"lastName" validate:"required"`
		Email        string `json:"email" validate:"omitempty,email"`
		MobileNumber string `json:"mobileNumber"`
		Role         string `json:"role" validate:"required,oneof=OPERATIVE SUPERVISOR"`
		CrewID       *int64 `json:"crewID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := &domain.StaffMember{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Role:         domain.StaffRole(req.Role),
		CrewID:       req.CrewID,
	}

	if err := h.repository.CreateStaffMember(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_members_crew_id_fkey":
				h.errorResponse(w, r, "crew does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "staff member created", member)
}

func (h *Handler) UpdateStaffMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	var req struct {
		FirstName    *string `json:"firstName"`
		LastName     *string `json:"lastName"`
		Email        *string `json:"email" validate:"omitempty,email"`
		MobileNumber *string `json:"mobileNumber"`
		Role         *string `json:"role" validate:"omitempty,oneof=OPERATIVE SUPERVISOR"`
		CrewID       *int64  `json:"crewID"`
		IsActive     *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.MobileNumber != nil {
		member.MobileNumber = *req.MobileNumber
	}
	if req.Role != nil {
		member.Role = domain.StaffRole(*req.Role)
	}
	if req.CrewID != nil {
		member.CrewID = req.CrewID
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateStaffMember(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_members_crew_id_fkey":
				h.errorResponse(w, r, "crew does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "staff member updated", member)
}

func (h *Handler) DeleteStaffMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	if err := h.repository.DeleteStaffMember(member.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member deleted", nil)
}
