package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/FraserR1188/Skedaddle/internal/domain"
	"github.com/FraserR1188/Skedaddle/internal/utils"
)

// actorUsername resolves the logged-in user's username for the audit trail.
func (h *Handler) actorUsername(r *http.Request) (string, error) {
	subString := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		return "", err
	}

	user, err := h.repository.GetUserByID(sub)
	if err != nil {
		return "", err
	}

	return user.Username, nil
}

type DailyRota struct {
	Date        string               `json:"date"`
	Day         *domain.RotaDay      `json:"day"`
	Assignments []*domain.Assignment `json:"assignments"`
}

// GetDailyRota returns the day with its assignments. A date nobody has
// touched yet comes back as a DRAFT shell without creating a row.
func (h *Handler) GetDailyRota(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(RotaDateCtx).(time.Time)

	rota := DailyRota{
		Date:        date.Format("2006-01-02"),
		Assignments: []*domain.Assignment{},
	}

	day, err := h.repository.GetRotaDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rota.Day = &domain.RotaDay{Date: date, Status: domain.RotaDayDraft}
			h.successResponse(w, r, "daily rota", rota)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	rota.Day = day

	assignments, err := h.repository.GetAssignmentsByRotaDayID(day.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	rota.Assignments = assignments

	h.successResponse(w, r, "daily rota", rota)
}

type rotaReference struct {
	staffByID     map[int64]*domain.StaffMember
	roomsByID     map[int64]*domain.CleanRoom
	sectionsByID  map[int64]*domain.IsolatorSection
	isolatorsByID map[int64]*domain.Isolator
	templatesByID map[int64]*domain.ShiftTemplate
	validations   []*domain.OperatorValidation
}

func (h *Handler) loadRotaReference() (*rotaReference, error) {
	members, err := h.repository.GetAllStaffMembers()
	if err != nil {
		return nil, err
	}
	rooms, err := h.repository.GetAllCleanRooms()
	if err != nil {
		return nil, err
	}
	sections, err := h.repository.GetAllIsolatorSections()
	if err != nil {
		return nil, err
	}
	isolators, err := h.repository.GetAllIsolators()
	if err != nil {
		return nil, err
	}
	templates, err := h.repository.GetAllShiftTemplates()
	if err != nil {
		return nil, err
	}
	validations, err := h.repository.GetAllOperatorValidations()
	if err != nil {
		return nil, err
	}

	ref := &rotaReference{
		staffByID:     make(map[int64]*domain.StaffMember, len(members)),
		roomsByID:     make(map[int64]*domain.CleanRoom, len(rooms)),
		sectionsByID:  make(map[int64]*domain.IsolatorSection, len(sections)),
		isolatorsByID: make(map[int64]*domain.Isolator, len(isolators)),
		templatesByID: make(map[int64]*domain.ShiftTemplate, len(templates)),
		validations:   validations,
	}
	for _, m := range members {
		ref.staffByID[m.ID] = m
	}
	for _, room := range rooms {
		ref.roomsByID[room.ID] = room
	}
	for _, sec := range sections {
		ref.sectionsByID[sec.ID] = sec
	}
	for _, iso := range isolators {
		ref.isolatorsByID[iso.ID] = iso
	}
	for _, st := range templates {
		ref.templatesByID[st.ID] = st
	}

	return ref, nil
}

// hydrate fills the display fields the rule checks and audit snapshots need.
func (ref *rotaReference) hydrate(a *domain.Assignment) error {
	staff, ok := ref.staffByID[a.StaffID]
	if !ok {
		return fmt.Errorf("staff member %d does not exist", a.StaffID)
	}
	a.StaffName = staff.FullName()

	room, ok := ref.roomsByID[a.CleanRoomID]
	if !ok {
		return fmt.Errorf("clean room %d does not exist", a.CleanRoomID)
	}
	a.RoomName = room.Name

	st, ok := ref.templatesByID[a.ShiftTemplateID]
	if !ok {
		return fmt.Errorf("shift template %d does not exist", a.ShiftTemplateID)
	}
	a.ShiftName = st.Name
	a.Block = st.Block

	if a.IsolatorSectionID != nil {
		sec, ok := ref.sectionsByID[*a.IsolatorSectionID]
		if !ok {
			return fmt.Errorf("isolator section %d does not exist", *a.IsolatorSectionID)
		}
		a.SectionName = sec.DisplayName()
	}

	return nil
}

func (ref *rotaReference) checkRules(date time.Time, assignments []*domain.Assignment, capacity int) error {
	if err := utils.ValidateNoDoubleBooking(assignments); err != nil {
		return err
	}
	if err := utils.ValidateTargets(assignments, ref.staffByID, ref.sectionsByID); err != nil {
		return err
	}
	if err := utils.ValidateRoomSupervision(assignments); err != nil {
		return err
	}
	if err := utils.ValidateIsolatorCapacity(assignments, ref.sectionsByID, capacity); err != nil {
		return err
	}
	return utils.ValidateOperatorQualifications(date, assignments, ref.staffByID, ref.sectionsByID, ref.isolatorsByID, ref.validations)
}

// ReplaceDayAssignments swaps in a full assignment set for the day after the
// scheduling rules pass. Published days stay editable; re-publishing bumps
// the version.
func (h *Handler) ReplaceDayAssignments(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(RotaDateCtx).(time.Time)

	var req struct {
		Assignments []struct {
			StaffID           int64  `json:"staffID" validate:"required"`
			ShiftTemplateID   int64  `json:"shiftTemplateID" validate:"required"`
			CleanRoomID       int64  `json:"cleanRoomID" validate:"required"`
			IsolatorSectionID *int64 `json:"isolatorSectionID"`
			Notes             string `json:"notes"`
		} `json:"assignments" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ref, err := h.loadRotaReference()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	proposed := make([]*domain.Assignment, 0, len(req.Assignments))
	for _, in := range req.Assignments {
		a := &domain.Assignment{
			StaffID:           in.StaffID,
			ShiftTemplateID:   in.ShiftTemplateID,
			CleanRoomID:       in.CleanRoomID,
			IsolatorSectionID: in.IsolatorSectionID,
			Notes:             in.Notes,
		}
		if err := ref.hydrate(a); err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		proposed = append(proposed, a)
	}

	if err := ref.checkRules(date, proposed, h.config.Rota.IsolatorCapacity); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	actor, err := h.actorUsername(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	day, err := h.repository.GetOrCreateRotaDay(date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	events, err := h.repository.ReplaceRotaDayAssignments(day, actor, proposed)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	assignments, err := h.repository.GetAssignmentsByRotaDayID(day.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("saved %d assignments (%d changes)", len(assignments), len(events)), DailyRota{
		Date:        date.Format("2006-01-02"),
		Day:         day,
		Assignments: assignments,
	})
}

// PublishRotaDay re-runs the scheduling rules, marks the day PUBLISHED and
// emails every assigned staff member their duties.
func (h *Handler) PublishRotaDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(RotaDateCtx).(time.Time)

	day, err := h.repository.GetRotaDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "cannot publish an empty rota day")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	assignments, err := h.repository.GetAssignmentsByRotaDayID(day.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(assignments) == 0 {
		h.errorResponse(w, r, "cannot publish an empty rota day")
		return
	}

	ref, err := h.loadRotaReference()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// a validation may have lapsed since the draft was saved
	if err := ref.checkRules(date, assignments, h.config.Rota.IsolatorCapacity); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	actor, err := h.actorUsername(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.PublishRotaDay(day, actor); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "the day was modified by someone else, reload and retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.notifyPublishedDay(day, assignments, ref); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "rota day published", day)
}

func dutyLine(a *domain.Assignment) string {
	target := a.RoomName
	if a.SectionName != "" {
		target = a.RoomName + " - " + a.SectionName
	}
	return fmt.Sprintf("%s (%s): %s", a.Block, a.ShiftName, target)
}

func (h *Handler) notifyPublishedDay(day *domain.RotaDay, assignments []*domain.Assignment, ref *rotaReference) error {
	dutiesByStaff := make(map[int64][]string)
	for _, a := range assignments {
		dutiesByStaff[a.StaffID] = append(dutiesByStaff[a.StaffID], dutyLine(a))
	}

	for staffID, duties := range dutiesByStaff {
		staff := ref.staffByID[staffID]
		if staff == nil || staff.Email == "" {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "rota_published",
			To:   staff.Email,
			Data: domain.RotaPublishedMailData{
				FullName: staff.FullName(),
				Date:     day.Date.Format("Monday, 2 January 2006"),
				Version:  day.PublishVersion,
				Duties:   duties,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) GetRotaDayAudit(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(RotaDateCtx).(time.Time)

	day, err := h.repository.GetRotaDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "audit trail", []*domain.RotaDayAuditEvent{})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	events, err := h.repository.GetAuditEventsByRotaDayID(day.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "audit trail", events)
}

type CalendarCell struct {
	Date    string          `json:"date"`
	InMonth bool            `json:"inMonth"`
	Day     *domain.RotaDay `json:"day"`
}

type MonthlyCalendar struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Weeks [][]CalendarCell `json:"weeks"`
}

// monthGrid returns the Monday-first week grid covering the month, padded
// with the leading and trailing days of the neighbouring months.
func monthGrid(year int, month time.Month) (time.Time, time.Time, [][]time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	gridStart := first.AddDate(0, 0, -mondayOffset(first.Weekday()))

	last := first.AddDate(0, 1, -1)
	gridEnd := last.AddDate(0, 0, 6-mondayOffset(last.Weekday()))

	weeks := [][]time.Time{}
	for cursor := gridStart; !cursor.After(gridEnd); {
		week := make([]time.Time, 0, 7)
		for i := 0; i < 7; i++ {
			week = append(week, cursor)
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}

	return gridStart, gridEnd, weeks
}

func mondayOffset(d time.Weekday) int {
	// time.Weekday starts on Sunday
	return (int(d) + 6) % 7
}

func (h *Handler) GetMonthlyCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.errorResponse(w, r, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		h.errorResponse(w, r, "invalid month")
		return
	}

	gridStart, gridEnd, weeks := monthGrid(year, time.Month(month))

	days, err := h.repository.GetRotaDaysInRange(gridStart, gridEnd)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	daysByDate := make(map[string]*domain.RotaDay, len(days))
	for _, day := range days {
		daysByDate[day.Date.Format("2006-01-02")] = day
	}

	calendar := MonthlyCalendar{
		Year:  year,
		Month: month,
		Weeks: make([][]CalendarCell, 0, len(weeks)),
	}
	for _, week := range weeks {
		cells := make([]CalendarCell, 0, 7)
		for _, d := range week {
			key := d.Format("2006-01-02")
			cells = append(cells, CalendarCell{
				Date:    key,
				InMonth: d.Month() == time.Month(month),
				Day:     daysByDate[key],
			})
		}
		calendar.Weeks = append(calendar.Weeks, cells)
	}

	h.successResponse(w, r, "monthly calendar", calendar)
}
