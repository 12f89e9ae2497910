package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/FraserR1188/Skedaddle/internal/config"
	"github.com/FraserR1188/Skedaddle/internal/repository"
)

// newTestHandler wires a Handler over a sqlmock-backed repository. The amqp
// channel and redis client stay nil, so tests must stick to paths that do
// not publish or touch the OTP store.
func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	cfg.Rota.IsolatorCapacity = 6

	h, err := NewHandler(cfg, repository.NewRepository(cfg, db), nil, nil)
	require.NoError(t, err)

	return h, mock
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) (bool, string) {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	if data != nil && string(resp.Data) != "null" {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}

	return resp.Success, resp.Message
}

func staffMemberColumns() []string {
	return []string{
		"id", "first_name", "last_name", "email", "mobile_number", "role",
		"crew_id", "crew_name", "is_active", "created_at", "version",
	}
}

func isolatorSectionColumns() []string {
	return []string{"id", "isolator_id", "section", "is_active", "isolator_name", "clean_room_id", "room_name"}
}

func operatorValidationColumns() []string {
	return []string{
		"id", "staff_id", "isolator_section_id", "status", "valid_from", "expires_on",
		"assessed_by", "evidence_ref", "notes", "created_at", "updated_at", "version",
		"staff_name", "section_name",
	}
}

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
