// +build integration

package rewards

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/vendwars/vote-ledger/clients/chain"
	mockchain "github.com/vendwars/vote-ledger/clients/chain/mock"
)

type PostgresTestSuite struct {
	suite.Suite
}

func TestPostgresTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

func (suite *PostgresTestSuite) SetupSuite() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err, "Failed to get postgres conn")

	m, err := pg.NewMigrate()
	suite.Require().NoError(err, "Failed to create migrate instance")

	ver, dirty, _ := m.Version()
	if dirty {
		suite.Require().NoError(m.Force(int(ver)))
	}
	if ver > 0 {
		suite.Require().NoError(m.Down(), "Failed to migrate down cleanly")
	}

	suite.Require().NoError(pg.Migrate(), "Failed to fully migrate")
}

func (suite *PostgresTestSuite) SetupTest() {
	suite.CleanDB()
}

func (suite *PostgresTestSuite) TearDownTest() {
	suite.CleanDB()
}

func (suite *PostgresTestSuite) CleanDB() {
	tables := []string{"pending_credits", "votes", "user_ledger_states"}

	pg, err := NewPostgres("", false)
	suite.Require().NoError(err, "Failed to get postgres conn")

	for _, table := range tables {
		_, err = pg.RawDB().Exec("delete from " + table)
		suite.Require().NoError(err, "Failed to get clean table")
	}
}

func (suite *PostgresTestSuite) TestSubmitVote() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	vendorID := uuid.NewV4()
	now := time.Now().UTC()

	vote, state, err := pg.SubmitVote(context.Background(), voterID, vendorID, false, nil, now, false, DefaultGuardConfig())
	suite.Require().NoError(err, "Failed to submit vote")

	suite.Require().True(vote.Reward.Equal(decimal.New(6, 0)), "first vote carries the streak bonus: 5 + 1, got %s", vote.Reward)
	suite.Require().Equal(1, state.Streak)
	suite.Require().True(vote.StreakAdvanced)

	var credit PendingCredit
	err = pg.RawDB().Get(&credit, `select * from pending_credits where vote_id = $1`, vote.ID)
	suite.Require().NoError(err, "a pending credit is created with the vote")
	suite.Require().Equal(CreditStatusPending, credit.Status)
	suite.Require().True(credit.Amount.Equal(vote.Reward))

	fetched, err := pg.GetUserLedgerState(context.Background(), voterID)
	suite.Require().NoError(err)
	suite.Require().True(fetched.PendingBalance.Equal(vote.Reward))
}

func (suite *PostgresTestSuite) TestSubmitVoteDailyCapUnderConcurrency() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	vendorID := uuid.NewV4()
	now := time.Now().UTC()
	cfg := DefaultGuardConfig()

	attempts := 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := pg.SubmitVote(context.Background(), voterID, vendorID, false, nil, now, false, cfg)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	rejected := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		rejErr, ok := err.(*RejectionError)
		suite.Require().True(ok, "unexpected error: %v", err)
		suite.Require().Equal(RejectionDailyCapReached, rejErr.Reason)
		rejected++
	}

	suite.Require().Equal(cfg.DailyVoteCap, accepted, "exactly the cap is admitted")
	suite.Require().Equal(attempts-cfg.DailyVoteCap, rejected)

	var count int
	err = pg.RawDB().Get(&count, `select count(*) from votes where voter_id = $1`, voterID)
	suite.Require().NoError(err)
	suite.Require().Equal(cfg.DailyVoteCap, count)
}

func (suite *PostgresTestSuite) TestSubmitVoteStreakAdvancesAcrossDays() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	cfg := DefaultGuardConfig()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	vote, state, err := pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, base, false, cfg)
	suite.Require().NoError(err)
	suite.Require().Equal(1, state.Streak)
	suite.Require().True(vote.Reward.Equal(decimal.New(6, 0)))

	// second vote the same day, no bonus
	vote, state, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, base.Add(2*time.Hour), false, cfg)
	suite.Require().NoError(err)
	suite.Require().Equal(1, state.Streak)
	suite.Require().True(vote.Reward.Equal(decimal.New(5, 0)))
	suite.Require().False(vote.StreakAdvanced)

	// next day advances
	vote, state, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, base.AddDate(0, 0, 1), false, cfg)
	suite.Require().NoError(err)
	suite.Require().Equal(2, state.Streak)
	suite.Require().True(vote.Reward.Equal(decimal.New(7, 0)))

	// a missed day resets
	vote, state, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, base.AddDate(0, 0, 3), false, cfg)
	suite.Require().NoError(err)
	suite.Require().Equal(1, state.Streak)
	suite.Require().True(vote.Reward.Equal(decimal.New(6, 0)))
}

func (suite *PostgresTestSuite) TestSubmitVoteWeeklyVendorCap() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	cfg := DefaultGuardConfig()
	cfg.WeeklyVendorCap = 2
	now := time.Now().UTC()

	vendorA := uuid.NewV4()
	vendorB := uuid.NewV4()

	_, _, err = pg.SubmitVote(context.Background(), voterID, vendorA, false, nil, now, false, cfg)
	suite.Require().NoError(err)
	_, _, err = pg.SubmitVote(context.Background(), voterID, vendorB, false, nil, now, false, cfg)
	suite.Require().NoError(err)

	// a third vendor exceeds the distinct set
	_, _, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, now, false, cfg)
	rejErr, ok := err.(*RejectionError)
	suite.Require().True(ok)
	suite.Require().Equal(RejectionWeeklyCapReached, rejErr.Reason)

	// but a vendor already counted this week is still admissible
	_, _, err = pg.SubmitVote(context.Background(), voterID, vendorA, false, nil, now, false, cfg)
	suite.Require().NoError(err)
}

func (suite *PostgresTestSuite) TestSubmitVoteDuplicateAttestation() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	cfg := DefaultGuardConfig()
	now := time.Now().UTC()
	ref := "attestation-abc"

	_, _, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), true, &ref, now, false, cfg)
	suite.Require().NoError(err)

	_, _, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), true, &ref, now.Add(time.Hour), false, cfg)
	rejErr, ok := err.(*RejectionError)
	suite.Require().True(ok)
	suite.Require().Equal(RejectionDuplicateAttestation, rejErr.Reason)
}

func (suite *PostgresTestSuite) TestSettlementLifecycle() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	cfg := DefaultGuardConfig()
	now := time.Now().UTC()

	voteA, _, err := pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, now, false, cfg)
	suite.Require().NoError(err)
	voteB, _, err := pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), true, strPtr("att-1"), now, false, cfg)
	suite.Require().NoError(err)

	owed := voteA.Reward.Add(voteB.Reward)

	batchID := uuid.NewV4()
	credits, err := pg.AcquirePendingCredits(context.Background(), batchID, voterID)
	suite.Require().NoError(err)
	suite.Require().Len(credits, 2)
	for _, credit := range credits {
		suite.Require().Equal(CreditStatusInFlight, credit.Status)
	}

	// a second acquisition finds nothing, the batch owns the credits
	more, err := pg.AcquirePendingCredits(context.Background(), uuid.NewV4(), voterID)
	suite.Require().NoError(err)
	suite.Require().Len(more, 0)

	settled, err := pg.MarkBatchSettled(context.Background(), batchID, "0xabc")
	suite.Require().NoError(err)
	suite.Require().True(settled.Equal(owed))

	state, err := pg.GetUserLedgerState(context.Background(), voterID)
	suite.Require().NoError(err)
	suite.Require().True(state.PendingBalance.Equal(decimal.Zero), "pending balance drains on settlement")

	// settled is terminal, a late failure projection touches nothing
	err = pg.MarkBatchFailed(context.Background(), batchID, "late failure", false)
	suite.Require().Error(err)

	summary, err := pg.GetCreditSummary(context.Background(), voterID, 5)
	suite.Require().NoError(err)
	suite.Require().True(summary.SettledAmount.Equal(owed))
	suite.Require().True(summary.PendingAmount.Equal(decimal.Zero))
}

func (suite *PostgresTestSuite) TestFailedCreditsRequeueUntilStuck() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	voterID := uuid.NewV4()
	cfg := DefaultGuardConfig()
	now := time.Now().UTC()

	vote, _, err := pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, now, false, cfg)
	suite.Require().NoError(err)

	maxAttempts := 2
	for i := 0; i < maxAttempts; i++ {
		batchID := uuid.NewV4()
		credits, err := pg.AcquirePendingCredits(context.Background(), batchID, voterID)
		suite.Require().NoError(err)
		suite.Require().Len(credits, 1)

		err = pg.MarkBatchFailed(context.Background(), batchID, "transfer refused", false)
		suite.Require().NoError(err)

		requeued, err := pg.RequeueFailedCredits(context.Background(), voterID, maxAttempts)
		suite.Require().NoError(err)
		if i < maxAttempts-1 {
			suite.Require().Equal(int64(1), requeued)

			// the vote projection follows the credit back to pending
			var voteStatus string
			err = pg.RawDB().Get(&voteStatus, `select credit_status from votes where id = $1`, vote.ID)
			suite.Require().NoError(err)
			suite.Require().Equal("pending", voteStatus)
		} else {
			suite.Require().Equal(int64(0), requeued, "attempts exhausted, the credit is stuck")
		}
	}

	summary, err := pg.GetCreditSummary(context.Background(), voterID, maxAttempts)
	suite.Require().NoError(err)
	suite.Require().True(summary.StuckAmount.Equal(vote.Reward))
	suite.Require().True(summary.FailedAmount.Equal(decimal.Zero))

	// the failed amount never left the user's pending balance
	state, err := pg.GetUserLedgerState(context.Background(), voterID)
	suite.Require().NoError(err)
	suite.Require().True(state.PendingBalance.Equal(vote.Reward))
}

func (suite *PostgresTestSuite) TestLinkRecipientAddressAndBalance() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	userID := uuid.NewV4()

	err = pg.LinkRecipientAddress(context.Background(), userID, "vendor-wallet")
	suite.Require().NoError(err)

	state, err := pg.GetUserLedgerState(context.Background(), userID)
	suite.Require().NoError(err)
	suite.Require().Equal("vendor-wallet", *state.RecipientAddress)

	err = pg.SetLastKnownChainBalance(context.Background(), userID, decimal.New(55, 0))
	suite.Require().NoError(err)

	state, err = pg.GetUserLedgerState(context.Background(), userID)
	suite.Require().NoError(err)
	suite.Require().True(state.LastKnownChainBalance.Equal(decimal.New(55, 0)))
	suite.Require().NotNil(state.LastReconciledAt)
}

type recordingWorker struct {
	mu      sync.Mutex
	settled []uuid.UUID
}

func (w *recordingWorker) SettleUser(ctx context.Context, userID uuid.UUID, recipient string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settled = append(w.settled, userID)
	return nil
}

func (w *recordingWorker) ReconcileUser(ctx context.Context, userID uuid.UUID, recipient string) error {
	return w.SettleUser(ctx, userID, recipient)
}

func (suite *PostgresTestSuite) TestRunNextSettlementJob() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	worker := &recordingWorker{}

	// nothing eligible yet
	attempted, err := pg.RunNextSettlementJob(context.Background(), worker)
	suite.Require().NoError(err)
	suite.Require().False(attempted)

	voterID := uuid.NewV4()
	_, _, err = pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, time.Now().UTC(), false, DefaultGuardConfig())
	suite.Require().NoError(err)

	// pending credits alone are not enough without a linked address
	attempted, err = pg.RunNextSettlementJob(context.Background(), worker)
	suite.Require().NoError(err)
	suite.Require().False(attempted)

	err = pg.LinkRecipientAddress(context.Background(), voterID, "vendor-wallet")
	suite.Require().NoError(err)

	attempted, err = pg.RunNextSettlementJob(context.Background(), worker)
	suite.Require().NoError(err)
	suite.Require().True(attempted)
	suite.Require().Equal([]uuid.UUID{voterID}, worker.settled)
}

func (suite *PostgresTestSuite) TestRunNextReconcileJob() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	worker := &recordingWorker{}
	userID := uuid.NewV4()

	err = pg.LinkRecipientAddress(context.Background(), userID, "vendor-wallet")
	suite.Require().NoError(err)

	// never reconciled counts as stale
	attempted, err := pg.RunNextReconcileJob(context.Background(), worker, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().True(attempted)

	err = pg.SetLastKnownChainBalance(context.Background(), userID, decimal.Zero)
	suite.Require().NoError(err)

	// freshly reconciled is skipped
	attempted, err = pg.RunNextReconcileJob(context.Background(), worker, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().False(attempted)
}

func (suite *PostgresTestSuite) TestRunNextSettlementJobDrivesService() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	mockCtrl := gomock.NewController(suite.T())
	defer mockCtrl.Finish()
	mockChain := mockchain.NewMockClient(mockCtrl)
	service := newTestService(pg, mockChain)

	voterID := uuid.NewV4()
	vote, _, err := pg.SubmitVote(context.Background(), voterID, uuid.NewV4(), false, nil, time.Now().UTC(), false, DefaultGuardConfig())
	suite.Require().NoError(err)

	err = pg.LinkRecipientAddress(context.Background(), voterID, "vendor-wallet")
	suite.Require().NoError(err)

	mockChain.EXPECT().
		Transfer(gomock.Any(), "vendor-wallet", decimalEq{vote.Reward}, gomock.Any()).
		Return(&chain.TransferResponse{TxRef: "0xsweep", Accepted: true}, nil)

	attempted, err := pg.RunNextSettlementJob(context.Background(), service)
	suite.Require().NoError(err)
	suite.Require().True(attempted)

	state, err := pg.GetUserLedgerState(context.Background(), voterID)
	suite.Require().NoError(err)
	suite.Require().True(state.PendingBalance.Equal(decimal.Zero))

	summary, err := pg.GetCreditSummary(context.Background(), voterID, defaultSettlementAttempts)
	suite.Require().NoError(err)
	suite.Require().True(summary.SettledAmount.Equal(vote.Reward))

	// drained, nothing left to sweep
	attempted, err = pg.RunNextSettlementJob(context.Background(), service)
	suite.Require().NoError(err)
	suite.Require().False(attempted)
}

func (suite *PostgresTestSuite) TestRunNextReconcileJobDrivesService() {
	pg, err := NewPostgres("", false)
	suite.Require().NoError(err)

	mockCtrl := gomock.NewController(suite.T())
	defer mockCtrl.Finish()
	mockChain := mockchain.NewMockClient(mockCtrl)
	service := newTestService(pg, mockChain)

	userID := uuid.NewV4()
	err = pg.LinkRecipientAddress(context.Background(), userID, "vendor-wallet")
	suite.Require().NoError(err)

	mockChain.EXPECT().BalanceOf(gomock.Any(), "vendor-wallet").Return(decimal.New(42, 0), nil)

	attempted, err := pg.RunNextReconcileJob(context.Background(), service, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().True(attempted)

	state, err := pg.GetUserLedgerState(context.Background(), userID)
	suite.Require().NoError(err)
	suite.Require().True(state.LastKnownChainBalance.Equal(decimal.New(42, 0)))

	// the refreshed row is no longer stale
	attempted, err = pg.RunNextReconcileJob(context.Background(), service, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().False(attempted)
}

func strPtr(s string) *string {
	return &s
}
