package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *Handler) GetValidations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")

	validations, err := h.repository.GetOperatorValidations(q, status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "validation list", validations)
}

func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(OperatorValidationCtx).(*domain.OperatorValidation)
	h.successResponse(w, r, "validation details", v)
}

func (h *Handler) CreateValidation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID           int64      `json:"staffID" validate:"required"`
		IsolatorSectionID int64      `json:"isolatorSectionID" validate:"required"`
		Status            string     `json:"status" validate:"required,oneof=VALID IN_TRAINING RESTRICTED SUSPENDED"`
		ValidFrom         time.Time  `json:"validFrom" validate:"required"`
		ExpiresOn         *time.Time `json:"expiresOn"`
		AssessedBy        string     `json:"assessedBy"`
		EvidenceRef       string     `json:"evidenceRef"`
		Notes             string     `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	v := &domain.OperatorValidation{
		StaffID:           req.StaffID,
		IsolatorSectionID: req.IsolatorSectionID,
		Status:            domain.ValidationStatus(req.Status),
		ValidFrom:         req.ValidFrom,
		ExpiresOn:         req.ExpiresOn,
		AssessedBy:        req.AssessedBy,
		EvidenceRef:       req.EvidenceRef,
		Notes:             req.Notes,
	}

	if err := v.ValidateWindow(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.CreateOperatorValidation(v); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "operator_validations_staff_id_isolator_section_id_key":
				h.errorResponse(w, r, "a validation record already exists for this operator and section")
			case "operator_validations_staff_id_fkey":
				h.errorResponse(w, r, "staff member does not exist")
			case "operator_validations_isolator_section_id_fkey":
				h.errorResponse(w, r, "isolator section does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "validation created", v)
}

func (h *Handler) UpdateValidation(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(OperatorValidationCtx).(*domain.OperatorValidation)

	var req struct {
		Status      *string    `json:"status" validate:"omitempty,oneof=VALID IN_TRAINING RESTRICTED SUSPENDED"`
		ValidFrom   *time.Time `json:"validFrom"`
		ExpiresOn   *time.Time `json:"expiresOn"`
		ClearExpiry bool       `json:"clearExpiry"`
		AssessedBy  *string    `json:"assessedBy"`
		EvidenceRef *string    `json:"evidenceRef"`
		Notes       *string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Status != nil {
		v.Status = domain.ValidationStatus(*req.Status)
	}
	if req.ValidFrom != nil {
		v.ValidFrom = *req.ValidFrom
	}
	if req.ExpiresOn != nil {
		v.ExpiresOn = req.ExpiresOn
	}
	if req.ClearExpiry {
		v.ExpiresOn = nil
	}
	if req.AssessedBy != nil {
		v.AssessedBy = *req.AssessedBy
	}
	if req.EvidenceRef != nil {
		v.EvidenceRef = *req.EvidenceRef
	}
	if req.Notes != nil {
		v.Notes = *req.Notes
	}

	if err := v.ValidateWindow(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.UpdateOperatorValidation(v); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "validation updated", v)
}

func (h *Handler) DeleteValidation(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(OperatorValidationCtx).(*domain.OperatorValidation)

	if err := h.repository.DeleteOperatorValidation(v.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "validation deleted", nil)
}

// QuickUpdateValidation backs the matrix view: set the status (and optional
// expiry) of a (staff, section) pair in one call, creating the record when it
// does not exist yet. action "remove" drops the pair's record instead, so the
// matrix client never has to resolve a validation ID.
func (h *Handler) QuickUpdateValidation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StaffID           int64      `json:"staffID" validate:"required"`
		IsolatorSectionID int64      `json:"isolatorSectionID" validate:"required"`
		Action            string     `json:"action" validate:"omitempty,oneof=set remove"`
		Status            string     `json:"status" validate:"omitempty,oneof=VALID IN_TRAINING RESTRICTED SUSPENDED"`
		ExpiresOn         *time.Time `json:"expiresOn"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Action == "remove" {
		if err := h.repository.DeleteOperatorValidationByPair(req.StaffID, req.IsolatorSectionID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "validation removed", nil)
		return
	}

	if req.Status == "" {
		h.errorResponse(w, r, "status is required")
		return
	}

	v := &domain.OperatorValidation{
		StaffID:           req.StaffID,
		IsolatorSectionID: req.IsolatorSectionID,
		Status:            domain.ValidationStatus(req.Status),
		ValidFrom:         time.Now().UTC(),
		ExpiresOn:         req.ExpiresOn,
	}

	if err := v.ValidateWindow(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.UpsertOperatorValidation(v); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "operator_validations_staff_id_fkey":
				h.errorResponse(w, r, "staff member does not exist")
			case "operator_validations_isolator_section_id_fkey":
				h.errorResponse(w, r, "isolator section does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "validation saved", v)
}

type ValidationMatrixCell struct {
	SectionID    int64                    `json:"sectionID"`
	ValidationID *int64                   `json:"validationID"`
	Status       *domain.ValidationStatus `json:"status"`
	ExpiresOn    *time.Time               `json:"expiresOn"`
	Effective    bool                     `json:"effective"`
}

type ValidationMatrixRow struct {
	Staff      *domain.StaffMember    `json:"staff"`
	ValidCount int                    `json:"validCount"`
	Cells      []ValidationMatrixCell `json:"cells"`
}

type ValidationMatrix struct {
	Date       string                    `json:"date"`
	TotalSides int                       `json:"totalSides"`
	Sections   []*domain.IsolatorSection `json:"sections"`
	Rows       []ValidationMatrixRow     `json:"rows"`
}

// GetValidationMatrix renders the operatives-by-sections qualification grid
// for a given date (today when omitted). Each row carries the number of
// sections the operative holds a VALID record for, against the totalSides
// denominator. `q` narrows the rows by name or email; `active=false`
// includes inactive operatives.
func (h *Handler) GetValidationMatrix(w http.ResponseWriter, r *http.Request) {
	on, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		h.errorResponse(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))
	activeOnly := r.URL.Query().Get("active") != "false"

	members, err := h.repository.GetAllStaffMembers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sections, err := h.repository.GetAllIsolatorSections()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	validations, err := h.repository.GetAllOperatorValidations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	activeSections := make([]*domain.IsolatorSection, 0, len(sections))
	for _, sec := range sections {
		if sec.IsActive {
			activeSections = append(activeSections, sec)
		}
	}

	type pair struct {
		staffID   int64
		sectionID int64
	}
	byPair := make(map[pair]*domain.OperatorValidation, len(validations))
	for _, v := range validations {
		byPair[pair{v.StaffID, v.IsolatorSectionID}] = v
	}

	matrix := ValidationMatrix{
		Date:       on.Format("2006-01-02"),
		TotalSides: len(activeSections),
		Sections:   activeSections,
		Rows:       make([]ValidationMatrixRow, 0, len(members)),
	}

	for _, m := range members {
		if m.Role != domain.StaffRoleOperative {
			continue
		}
		if activeOnly && !m.IsActive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(m.FullName()), q) && !strings.Contains(strings.ToLower(m.Email), q) {
			continue
		}

		row := ValidationMatrixRow{
			Staff: m,
			Cells: make([]ValidationMatrixCell, 0, len(activeSections)),
		}
		for _, sec := range activeSections {
			cell := ValidationMatrixCell{SectionID: sec.ID}
			if v, ok := byPair[pair{m.ID, sec.ID}]; ok {
				cell.ValidationID = &v.ID
				cell.Status = &v.Status
				cell.ExpiresOn = v.ExpiresOn
				cell.Effective = v.EffectiveOn(on)
				if v.Status == domain.ValidationValid {
					row.ValidCount++
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		matrix.Rows = append(matrix.Rows, row)
	}

	h.successResponse(w, r, "validation matrix", matrix)
}
