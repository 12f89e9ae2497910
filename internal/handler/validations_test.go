package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectMatrixStaff(mock sqlmock.Sqlmock) {
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM staff_members s")).
		WillReturnRows(sqlmock.NewRows(staffMemberColumns()).
			AddRow(1, "James", "Smith", "james.smith@example.com", "", "OPERATIVE", nil, "", true, now, 1).
			AddRow(2, "Emma", "Taylor", "emma.taylor@example.com", "", "OPERATIVE", nil, "", true, now, 1).
			AddRow(3, "Sarah", "Jones", "sarah.jones@example.com", "", "SUPERVISOR", nil, "", true, now, 1).
			AddRow(4, "Lucy", "Brown", "lucy.brown@example.com", "", "OPERATIVE", nil, "", false, now, 1))
}

func expectMatrixSections(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM isolator_sections sec")).
		WillReturnRows(sqlmock.NewRows(isolatorSectionColumns()).
			AddRow(10, 5, "L", true, "Isolator A", 1, "Aseptic Suite 1").
			AddRow(11, 5, "R", true, "Isolator A", 1, "Aseptic Suite 1").
			AddRow(12, 6, "L", false, "Isolator B", 1, "Aseptic Suite 1"))
}

func TestGetValidationMatrixCounts(t *testing.T) {
	h, mock := newTestHandler(t)
	now := time.Now()

	expectMatrixStaff(mock)
	expectMatrixSections(mock)
	mock.ExpectQuery(regexp.QuoteMeta("FROM operator_validations ov")).
		WithArgs("", "").
		WillReturnRows(sqlmock.NewRows(operatorValidationColumns()).
			AddRow(100, 1, 10, "VALID", now, nil, "", "", "", now, now, 1, "James Smith", "Isolator A L").
			AddRow(101, 1, 11, "IN_TRAINING", now, nil, "", "", "", now, now, 1, "James Smith", "Isolator A R").
			AddRow(102, 2, 10, "VALID", now, nil, "", "", "", now, now, 1, "Emma Taylor", "Isolator A L"))

	rec := httptest.NewRecorder()
	h.GetValidationMatrix(rec, httptest.NewRequest(http.MethodGet, "/validations/matrix?date=2026-03-15", nil))

	var matrix ValidationMatrix
	ok, msg := decodeResponse(t, rec, &matrix)
	require.True(t, ok, msg)

	// the retired Isolator B side stays out of the denominator
	assert.Equal(t, 2, matrix.TotalSides)
	require.Len(t, matrix.Sections, 2)

	// supervisors and inactive operatives do not get rows
	require.Len(t, matrix.Rows, 2)

	byStaff := make(map[int64]ValidationMatrixRow, len(matrix.Rows))
	for _, row := range matrix.Rows {
		byStaff[row.Staff.ID] = row
	}

	// IN_TRAINING does not count towards the valid tally
	assert.Equal(t, 1, byStaff[1].ValidCount)
	assert.Len(t, byStaff[1].Cells, 2)
	assert.Equal(t, 1, byStaff[2].ValidCount)
}

func TestGetValidationMatrixFilters(t *testing.T) {
	cases := []struct {
		name         string
		query        string
		wantStaffIDs []int64
	}{
		{"search narrows by name", "?q=emma", []int64{2}},
		{"search matches email", "?q=smith@example", []int64{1}},
		{"inactive operatives on request", "?active=false", []int64{1, 2, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mock := newTestHandler(t)

			expectMatrixStaff(mock)
			expectMatrixSections(mock)
			mock.ExpectQuery(regexp.QuoteMeta("FROM operator_validations ov")).
				WithArgs("", "").
				WillReturnRows(sqlmock.NewRows(operatorValidationColumns()))

			rec := httptest.NewRecorder()
			h.GetValidationMatrix(rec, httptest.NewRequest(http.MethodGet, "/validations/matrix"+tc.query, nil))

			var matrix ValidationMatrix
			ok, msg := decodeResponse(t, rec, &matrix)
			require.True(t, ok, msg)

			gotStaffIDs := make([]int64, 0, len(matrix.Rows))
			for _, row := range matrix.Rows {
				gotStaffIDs = append(gotStaffIDs, row.Staff.ID)
			}
			assert.ElementsMatch(t, tc.wantStaffIDs, gotStaffIDs)
		})
	}
}

func TestQuickUpdateValidationRemove(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM operator_validations WHERE staff_id = $1 AND isolator_section_id = $2")).
		WithArgs(int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"staffID":1,"isolatorSectionID":10,"action":"remove"}`
	rec := httptest.NewRecorder()
	h.QuickUpdateValidation(rec, httptest.NewRequest(http.MethodPost, "/validations/quick", strings.NewReader(body)))

	ok, msg := decodeResponse(t, rec, nil)
	assert.True(t, ok, msg)
	assert.Equal(t, "validation removed", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuickUpdateValidationRequiresStatus(t *testing.T) {
	h, mock := newTestHandler(t)

	body := `{"staffID":1,"isolatorSectionID":10}`
	rec := httptest.NewRecorder()
	h.QuickUpdateValidation(rec, httptest.NewRequest(http.MethodPost, "/validations/quick", strings.NewReader(body)))

	ok, msg := decodeResponse(t, rec, nil)
	assert.False(t, ok)
	assert.Equal(t, "status is required", msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}
