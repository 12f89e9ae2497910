package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FraserR1188/Skedaddle/internal/domain"
)

func TestMonthGrid(t *testing.T) {
	// March 2026 starts on a Sunday and ends on a Tuesday
	gridStart, gridEnd, weeks := monthGrid(2026, time.March)

	assert.Equal(t, "2026-02-23", gridStart.Format("2006-01-02"))
	assert.Equal(t, "2026-04-05", gridEnd.Format("2006-01-02"))
	require.Len(t, weeks, 6)

	for _, week := range weeks {
		require.Len(t, week, 7)
		assert.Equal(t, time.Monday, week[0].Weekday())
		assert.Equal(t, time.Sunday, week[6].Weekday())
	}

	assert.Equal(t, "2026-03-01", weeks[0][6].Format("2006-01-02"))
}

func TestMonthGridMonthStartingOnMonday(t *testing.T) {
	// June 2026 starts on a Monday, so the grid needs no leading padding
	gridStart, gridEnd, weeks := monthGrid(2026, time.June)

	assert.Equal(t, "2026-06-01", gridStart.Format("2006-01-02"))
	assert.Equal(t, "2026-07-05", gridEnd.Format("2006-01-02"))
	assert.Len(t, weeks, 5)
}

func TestDutyLine(t *testing.T) {
	secID := int64(10)

	isolatorDuty := &domain.Assignment{
		IsolatorSectionID: &secID,
		RoomName:          "Aseptic Suite 1",
		SectionName:       "Isolator A L",
		ShiftName:         "Early",
		Block:             domain.BlockAM,
	}
	assert.Equal(t, "AM (Early): Aseptic Suite 1 - Isolator A L", dutyLine(isolatorDuty))

	roomDuty := &domain.Assignment{
		RoomName:  "Aseptic Suite 1",
		ShiftName: "Late",
		Block:     domain.BlockPM,
	}
	assert.Equal(t, "PM (Late): Aseptic Suite 1", dutyLine(roomDuty))
}

func rotaDayRequest(t *testing.T, method, date, body string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(method, "/rota/days/"+date, strings.NewReader(body))
	ctx := context.WithValue(r.Context(), RotaDateCtx, mustParseDate(t, date))
	ctx = context.WithValue(ctx, SubCtxKey, "1")
	return r.WithContext(ctx)
}

func rotaDayColumns() []string {
	return []string{"id", "date", "status", "publish_version", "published_at", "created_at", "version"}
}

func assignmentRowColumns() []string {
	return []string{
		"id", "rota_day_id", "staff_id", "shift_template_id", "clean_room_id",
		"isolator_section_id", "notes", "staff_name", "room_name", "section_name",
		"shift_name", "block",
	}
}

// expectRotaReference queues the reference-data queries the rota handlers run
// before checking the scheduling rules: one supervisor, one clean room, one
// AM shift template, no isolators.
func expectRotaReference(mock sqlmock.Sqlmock) {
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM staff_members s")).
		WillReturnRows(sqlmock.NewRows(staffMemberColumns()).
			AddRow(2, "Sarah", "Jones", "sarah.jones@example.com", "", "SUPERVISOR", nil, "", true, now, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM clean_rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "name", "description", "created_at", "version"}).
			AddRow(1, 1, "Aseptic Suite 1", "", now, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM isolator_sections sec")).
		WillReturnRows(sqlmock.NewRows(isolatorSectionColumns()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM isolators")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "clean_room_id", "name", "sort_order", "is_active", "created_at", "version"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM shift_templates")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_time", "end_time", "block", "created_at", "version"}).
			AddRow(1, "Early", "07:00:00", "13:00:00", "AM", now, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM operator_validations ov")).
		WithArgs("", "").
		WillReturnRows(sqlmock.NewRows(operatorValidationColumns()))
}

func expectActorLookup(mock sqlmock.Sqlmock) {
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "full_name", "email", "role", "is_active", "created_at", "version"}).
			AddRow("planner1", "x", "Planner One", "planner@example.com", "MANAGER", true, now, 1))
}

func TestPublishRotaDayRejectsEmptyDay(t *testing.T) {
	t.Run("day row does not exist", func(t *testing.T) {
		h, mock := newTestHandler(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM rota_days WHERE date = $1")).
			WillReturnError(sql.ErrNoRows)

		rec := httptest.NewRecorder()
		h.PublishRotaDay(rec, rotaDayRequest(t, http.MethodPost, "2026-03-16", ""))

		ok, msg := decodeResponse(t, rec, nil)
		assert.False(t, ok)
		assert.Equal(t, "cannot publish an empty rota day", msg)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("day row exists without assignments", func(t *testing.T) {
		h, mock := newTestHandler(t)
		date := mustParseDate(t, "2026-03-16")
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM rota_days WHERE date = $1")).
			WillReturnRows(sqlmock.NewRows(rotaDayColumns()).AddRow(7, date, "DRAFT", 0, nil, now, 1))
		mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(assignmentRowColumns()))

		rec := httptest.NewRecorder()
		h.PublishRotaDay(rec, rotaDayRequest(t, http.MethodPost, "2026-03-16", ""))

		ok, msg := decodeResponse(t, rec, nil)
		assert.False(t, ok)
		assert.Equal(t, "cannot publish an empty rota day", msg)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPublishRotaDayVersionConflictResponse(t *testing.T) {
	h, mock := newTestHandler(t)
	date := mustParseDate(t, "2026-03-16")
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM rota_days WHERE date = $1")).
		WillReturnRows(sqlmock.NewRows(rotaDayColumns()).AddRow(7, date, "DRAFT", 0, nil, now, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns()).
			AddRow(3, 7, 2, 1, 1, nil, "", "Sarah Jones", "Aseptic Suite 1", "", "Early", "AM"))
	expectRotaReference(mock)
	expectActorLookup(mock)

	// someone else saved the day in between, so the versioned UPDATE misses
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE rota_days")).
		WithArgs("PUBLISHED", int64(7), 1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	rec := httptest.NewRecorder()
	h.PublishRotaDay(rec, rotaDayRequest(t, http.MethodPost, "2026-03-16", ""))

	ok, msg := decodeResponse(t, rec, nil)
	assert.False(t, ok)
	assert.Equal(t, "the day was modified by someone else, reload and retry", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceDayAssignmentsKeepsPublishedStatus(t *testing.T) {
	h, mock := newTestHandler(t)
	date := mustParseDate(t, "2026-03-16")
	now := time.Now()

	expectRotaReference(mock)
	expectActorLookup(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rota_days")).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows(rotaDayColumns()).AddRow(7, date, "PUBLISHED", 2, now, now, 3))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns()).
			AddRow(3, 7, 2, 1, 1, nil, "", "Sarah Jones", "Aseptic Suite 1", "", "Early", "AM"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE rota_day_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs(int64(7), int64(2), int64(1), int64(1), nil, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments a")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns()).
			AddRow(4, 7, 2, 1, 1, nil, "", "Sarah Jones", "Aseptic Suite 1", "", "Early", "AM"))

	body := `{"assignments":[{"staffID":2,"shiftTemplateID":1,"cleanRoomID":1}]}`
	rec := httptest.NewRecorder()
	h.ReplaceDayAssignments(rec, rotaDayRequest(t, http.MethodPut, "2026-03-16", body))

	var rota DailyRota
	ok, msg := decodeResponse(t, rec, &rota)
	require.True(t, ok, msg)
	assert.Equal(t, "saved 1 assignments (0 changes)", msg)

	// editing a published day must not knock it back to DRAFT
	require.NotNil(t, rota.Day)
	assert.Equal(t, domain.RotaDayPublished, rota.Day.Status)
	assert.Equal(t, int32(2), rota.Day.PublishVersion)
	require.Len(t, rota.Assignments, 1)

	// no UPDATE of rota_days was expected, and none may have run
	assert.NoError(t, mock.ExpectationsWereMet())
}
