package rewards

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vendwars/vote-ledger/datastore/grantserver"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create a sql mock: %s", err)
	}
	cleanup := func() {
		if err := mockDB.Close(); err != nil {
			if !strings.Contains(err.Error(), "all expectations were already fulfilled") {
				t.Errorf("failed to close the mock database: %s", err)
			}
		}
	}
	pg := &Postgres{grantserver.Postgres{DB: sqlx.NewDb(mockDB, "sqlmock")}}
	return pg, mock, cleanup
}

func TestGetCreditSummaryQuery(t *testing.T) {
	pg, mock, cleanup := newMockPostgres(t)
	defer cleanup()

	userID := uuid.NewV4()

	rows := sqlmock.NewRows([]string{"pending_amount", "failed_amount", "stuck_amount", "settled_amount"}).
		AddRow("25", "5", "0", "60")
	mock.ExpectQuery(`select(.|\n)*from pending_credits`).
		WithArgs(userID, 5).
		WillReturnRows(rows)

	summary, err := pg.GetCreditSummary(context.Background(), userID, 5)
	assert.NoError(t, err)
	assert.True(t, summary.PendingAmount.Equal(decimal.New(25, 0)))
	assert.True(t, summary.FailedAmount.Equal(decimal.New(5, 0)))
	assert.True(t, summary.SettledAmount.Equal(decimal.New(60, 0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequeueFailedCreditsQuery(t *testing.T) {
	pg, mock, cleanup := newMockPostgres(t)
	defer cleanup()

	userID := uuid.NewV4()

	mock.ExpectBegin()
	mock.ExpectExec(`update pending_credits`).
		WithArgs(userID, 5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`update votes(.|\n)*credit_status = 'pending'`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	requeued, err := pg.RequeueFailedCredits(context.Background(), userID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), requeued)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequeueFailedCreditsNoneEligible(t *testing.T) {
	pg, mock, cleanup := newMockPostgres(t)
	defer cleanup()

	userID := uuid.NewV4()

	mock.ExpectBegin()
	mock.ExpectExec(`update pending_credits`).
		WithArgs(userID, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	requeued, err := pg.RequeueFailedCredits(context.Background(), userID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), requeued)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserLedgerStateNotFound(t *testing.T) {
	pg, mock, cleanup := newMockPostgres(t)
	defer cleanup()

	userID := uuid.NewV4()

	mock.ExpectQuery(`select \* from user_ledger_states`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	state, err := pg.GetUserLedgerState(context.Background(), userID)
	assert.NoError(t, err)
	assert.Nil(t, state)
	assert.NoError(t, mock.ExpectationsWereMet())
}
