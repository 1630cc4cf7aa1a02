// internal/audit/recorder_test.go
package audit

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMock(t *testing.T) (*Recorder, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRecorder(db, time.Second, logger.NewTestLogger(t)), mock
}

func sampleEvent() models.WizardEvent {
	return models.WizardEvent{
		Flow:      "verification",
		SessionID: "s-1",
		UserID:    "user-1",
		Type:      models.EventSubmissionFailed,
		Step:      2,
		Substep:   4,
		Detail:    "endpoint down",
		Duration:  1500 * time.Millisecond,
		At:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ==========================
// Record Tests
// ==========================

func TestRecord_InsertsEvent(t *testing.T) {
	r, mock := setupMock(t)
	e := sampleEvent()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wizard_events")).
		WithArgs("verification", "s-1", "user-1", "submission_failed", 2, 4, "endpoint down", int64(1500), e.At).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r.Record(context.Background(), e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_FailureIsSwallowed(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wizard_events")).
		WillReturnError(errors.New("connection refused"))

	assert.NotPanics(t, func() { r.Record(context.Background(), sampleEvent()) })
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_CancelledRequestStillWrites(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wizard_events")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Record(ctx, sampleEvent())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Query Tests
// ==========================

func TestRecent(t *testing.T) {
	r, mock := setupMock(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"flow", "session_id", "user_id", "event_type", "step", "substep", "detail", "duration_ms", "occurred_at",
	}).
		AddRow("listing", "s-2", "user-1", "submitted", 3, 1, "", 800, at).
		AddRow("listing", "s-2", "user-1", "advanced", 2, 1, "2.1", 0, at.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT flow, session_id")).
		WithArgs("user-1", "listing", 50).
		WillReturnRows(rows)

	events, err := r.Recent(context.Background(), "user-1", "listing", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventSubmitted, events[0].Type)
	assert.Equal(t, 800*time.Millisecond, events[0].Duration)
	assert.Equal(t, "2.1", events[1].Detail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent_QueryError(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT flow, session_id")).
		WillReturnError(errors.New("timeout"))

	_, err := r.Recent(context.Background(), "user-1", "listing", 10)
	assert.Error(t, err)
}

func TestEnsureSchema(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS wizard_events")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
