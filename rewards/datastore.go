package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/vendwars/vote-ledger/datastore/grantserver"
	"github.com/vendwars/vote-ledger/utils/logging"
)

// submitVoteMaxRetries bounds how often a submission colliding on the
// (voter, vendor, day, seq) unique index is re-run against fresh counts
const submitVoteMaxRetries = 3

// Datastore abstracts over the underlying datastore
type Datastore interface {
	// SubmitVote admits, prices and persists a vote plus its pending credit as one atomic unit
	SubmitVote(ctx context.Context, voterID, vendorID uuid.UUID, verified bool, attestationRef *string, now time.Time, territoryContested bool, cfg GuardConfig) (*VoteRecord, *UserLedgerState, error)
	// GetUserLedgerState returns the ledger state for a user, nil when the user has never voted
	GetUserLedgerState(ctx context.Context, userID uuid.UUID) (*UserLedgerState, error)
	// LinkRecipientAddress records the user's settlement address
	LinkRecipientAddress(ctx context.Context, userID uuid.UUID, recipient string) error
	// RequeueFailedCredits flips failed credits under the attempt budget back to pending
	RequeueFailedCredits(ctx context.Context, userID uuid.UUID, maxAttempts int) (int64, error)
	// AcquirePendingCredits claims every pending credit of the user for the given batch
	AcquirePendingCredits(ctx context.Context, batchID, userID uuid.UUID) ([]PendingCredit, error)
	// MarkBatchSettled projects a successful transfer onto the batch members
	MarkBatchSettled(ctx context.Context, batchID uuid.UUID, txRef string) (decimal.Decimal, error)
	// MarkBatchFailed projects a failed transfer onto the batch members
	MarkBatchFailed(ctx context.Context, batchID uuid.UUID, lastError string, ackLost bool) error
	// GetCreditSummary returns pending/failed/stuck/settled totals for a user
	GetCreditSummary(ctx context.Context, userID uuid.UUID, maxAttempts int) (*CreditSummary, error)
	// SetLastKnownChainBalance overwrites the cached external balance, the external ledger always wins
	SetLastKnownChainBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
	// RunNextSettlementJob settles one user with settleable credits if there is one waiting
	RunNextSettlementJob(ctx context.Context, worker SettlementWorker) (bool, error)
	// RunNextReconcileJob refreshes one user's cached balance if one is stale
	RunNextReconcileJob(ctx context.Context, worker ReconcileWorker, staleBefore time.Time) (bool, error)
}

// ReadOnlyDatastore includes all database methods that can be made with a read only db connection
type ReadOnlyDatastore interface {
	// GetUserLedgerState returns the ledger state for a user, nil when the user has never voted
	GetUserLedgerState(ctx context.Context, userID uuid.UUID) (*UserLedgerState, error)
	// GetCreditSummary returns pending/failed/stuck/settled totals for a user
	GetCreditSummary(ctx context.Context, userID uuid.UUID, maxAttempts int) (*CreditSummary, error)
}

// Postgres is a Datastore wrapper around a postgres database
type Postgres struct {
	grantserver.Postgres
}

// NewPostgres creates a new Postgres Datastore
func NewPostgres(databaseURL string, performMigration bool) (*Postgres, error) {
	pg, err := grantserver.NewPostgres(databaseURL, performMigration)
	if pg != nil {
		return &Postgres{*pg}, err
	}
	return nil, err
}

// isUniqueViolation reports whether the error is a postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// SubmitVote runs the whole admissibility / streak / reward / persist sequence
// in one transaction keyed on the user's ledger row. A concurrent writer that
// loses the race on the (voter, vendor, day, seq) unique index re-reads the
// counts and retries, so the daily cap holds without in-process locks.
func (pg *Postgres) SubmitVote(ctx context.Context, voterID, vendorID uuid.UUID, verified bool, attestationRef *string, now time.Time, territoryContested bool, cfg GuardConfig) (*VoteRecord, *UserLedgerState, error) {
	var (
		vote  *VoteRecord
		state *UserLedgerState
		err   error
	)
	for i := 0; i < submitVoteMaxRetries; i++ {
		vote, state, err = pg.submitVoteTx(ctx, voterID, vendorID, verified, attestationRef, now, territoryContested, cfg)
		if err == nil || !isUniqueViolation(err) {
			return vote, state, err
		}
	}
	return nil, nil, fmt.Errorf("vote submission lost the day slot race %d times: %w", submitVoteMaxRetries, err)
}

func (pg *Postgres) submitVoteTx(ctx context.Context, voterID, vendorID uuid.UUID, verified bool, attestationRef *string, now time.Time, territoryContested bool, cfg GuardConfig) (*VoteRecord, *UserLedgerState, error) {
	day := calendarDay(now)
	weekStart := day.AddDate(0, 0, -6)

	tx, err := pg.DB.Beginx()
	if err != nil {
		return nil, nil, err
	}
	defer pg.RollbackTx(tx)

	// ensure the ledger row exists, then lock it to serialize all of this
	// user's submissions across instances
	_, err = tx.Exec(`insert into user_ledger_states (user_id) values ($1) on conflict (user_id) do nothing`, voterID)
	if err != nil {
		return nil, nil, err
	}

	var state UserLedgerState
	err = tx.Get(&state, `select * from user_ledger_states where user_id = $1 for update`, voterID)
	if err != nil {
		return nil, nil, err
	}

	var stats voteStats
	err = tx.Get(&stats.votesForVendorToday,
		`select count(*) from votes where voter_id = $1 and vendor_id = $2 and vote_day = $3`,
		voterID, vendorID, day)
	if err != nil {
		return nil, nil, err
	}

	err = tx.Get(&stats.distinctVendorsInWeek,
		`select count(distinct vendor_id) from votes where voter_id = $1 and vote_day between $2 and $3`,
		voterID, weekStart, day)
	if err != nil {
		return nil, nil, err
	}

	err = tx.Get(&stats.vendorCountedInWeek,
		`select exists(select 1 from votes where voter_id = $1 and vendor_id = $2 and vote_day between $3 and $4)`,
		voterID, vendorID, weekStart, day)
	if err != nil {
		return nil, nil, err
	}

	if verified && attestationRef != nil {
		err = tx.Get(&stats.duplicateAttestation,
			`select exists(select 1 from votes where voter_id = $1 and attestation_ref = $2 and created_at > $3)`,
			voterID, *attestationRef, now.Add(-cfg.AttestationWindow))
		if err != nil {
			return nil, nil, err
		}
	}

	if reason := admitVote(stats, cfg); reason != nil {
		return nil, nil, &RejectionError{Reason: *reason}
	}

	var votedToday bool
	err = tx.Get(&votedToday,
		`select exists(select 1 from votes where voter_id = $1 and vote_day = $2)`,
		voterID, day)
	if err != nil {
		return nil, nil, err
	}

	streakAdvanced := false
	if !votedToday {
		if state.LastStreakDay != nil && day.Before(calendarDay(*state.LastStreakDay)) {
			logging.Logger(ctx, "rewards.SubmitVote").Warn().
				Str("voter_id", voterID.String()).
				Time("vote_day", day).
				Time("last_streak_day", *state.LastStreakDay).
				Msg("vote day precedes the recorded streak day")
		}
		_, streakAdvanced = advanceStreak(&state, day)
		if streakAdvanced {
			_, err = tx.Exec(
				`update user_ledger_states set streak = $2, last_streak_day = $3, updated_at = current_timestamp where user_id = $1`,
				voterID, state.Streak, state.LastStreakDay)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	reward := computeReward(verified, state.Streak, streakAdvanced, territoryContested)

	votes := []VoteRecord{}
	// day_seq is the observed count; the unique index rejects the N-th
	// concurrent writer so the cap cannot be breached by a race
	err = tx.Select(&votes, `
	insert into votes (voter_id, vendor_id, vote_day, day_seq, verified, attestation_ref, reward)
	values ($1, $2, $3, $4, $5, $6, $7)
	returning *`,
		voterID, vendorID, day, stats.votesForVendorToday, verified, attestationRef, reward)
	if err != nil {
		return nil, nil, err
	}
	if len(votes) != 1 {
		return nil, nil, fmt.Errorf("incorrect number of votes inserted: %d", len(votes))
	}
	vote := votes[0]
	vote.StreakAdvanced = streakAdvanced

	_, err = tx.Exec(`insert into pending_credits (vote_id, user_id, amount) values ($1, $2, $3)`,
		vote.ID, voterID, reward)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(
		`update user_ledger_states set pending_balance = pending_balance + $2, updated_at = current_timestamp where user_id = $1`,
		voterID, reward)
	if err != nil {
		return nil, nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, nil, err
	}

	state.PendingBalance = state.PendingBalance.Add(reward)
	return &vote, &state, nil
}

// GetUserLedgerState by user id
func (pg *Postgres) GetUserLedgerState(ctx context.Context, userID uuid.UUID) (*UserLedgerState, error) {
	states := []UserLedgerState{}
	err := pg.DB.Select(&states, `select * from user_ledger_states where user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	if len(states) > 0 {
		return &states[0], nil
	}
	return nil, nil
}

// LinkRecipientAddress records the settlement address for the user
func (pg *Postgres) LinkRecipientAddress(ctx context.Context, userID uuid.UUID, recipient string) error {
	_, err := pg.DB.Exec(`
	insert into user_ledger_states (user_id, recipient_address)
	values ($1, $2)
	on conflict (user_id) do update set recipient_address = $2, updated_at = current_timestamp`,
		userID, recipient)
	return err
}

// RequeueFailedCredits returns failed credits under the attempt budget to the
// pending pool, resetting the vote projection with them. Settled credits are
// terminal and never touched.
func (pg *Postgres) RequeueFailedCredits(ctx context.Context, userID uuid.UUID, maxAttempts int) (int64, error) {
	tx, err := pg.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer pg.RollbackTx(tx)

	res, err := tx.Exec(`
	update pending_credits
	set status = 'pending', batch_id = null, updated_at = current_timestamp
	where user_id = $1 and status = 'failed' and attempts < $2`,
		userID, maxAttempts)
	if err != nil {
		return 0, err
	}
	requeued, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if requeued > 0 {
		_, err = tx.Exec(`
	update votes
	set credit_status = 'pending'
	where
		credit_status = 'failed' and
		id in (select vote_id from pending_credits where user_id = $1 and status = 'pending')`,
			userID)
		if err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}

	return requeued, nil
}

// AcquirePendingCredits flips every pending credit of the user to in_flight
// under the given batch. The guarded update is the per user exclusion: only
// one caller can win a given credit, so two concurrent settlement triggers
// cannot double submit.
func (pg *Postgres) AcquirePendingCredits(ctx context.Context, batchID, userID uuid.UUID) ([]PendingCredit, error) {
	tx, err := pg.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer pg.RollbackTx(tx)

	credits := []PendingCredit{}
	err = tx.Select(&credits, `
	update pending_credits
	set status = 'in_flight', batch_id = $1, updated_at = current_timestamp
	where user_id = $2 and status = 'pending'
	returning *`,
		batchID, userID)
	if err != nil {
		return nil, err
	}

	if len(credits) > 0 {
		_, err = tx.Exec(
			`update votes set credit_status = 'settling' where id in (select vote_id from pending_credits where batch_id = $1)`,
			batchID)
		if err != nil {
			return nil, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return credits, nil
}

// MarkBatchSettled marks every member credit settled with the external
// transaction reference in a single atomic unit and returns the settled total
func (pg *Postgres) MarkBatchSettled(ctx context.Context, batchID uuid.UUID, txRef string) (decimal.Decimal, error) {
	tx, err := pg.DB.Beginx()
	if err != nil {
		return decimal.Zero, err
	}
	defer pg.RollbackTx(tx)

	type settledRow struct {
		VoteID uuid.UUID       `db:"vote_id"`
		UserID uuid.UUID       `db:"user_id"`
		Amount decimal.Decimal `db:"amount"`
	}
	rows := []settledRow{}
	err = tx.Select(&rows, `
	update pending_credits
	set status = 'settled', chain_tx_ref = $2, ack_lost = false, updated_at = current_timestamp
	where batch_id = $1 and status = 'in_flight'
	returning vote_id, user_id, amount`,
		batchID, txRef)
	if err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, fmt.Errorf("no in flight credits found for batch %s", batchID)
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}

	_, err = tx.Exec(
		`update votes set credit_status = 'settled' where id in (select vote_id from pending_credits where batch_id = $1)`,
		batchID)
	if err != nil {
		return decimal.Zero, err
	}

	_, err = tx.Exec(
		`update user_ledger_states set pending_balance = pending_balance - $2, updated_at = current_timestamp where user_id = $1`,
		rows[0].UserID, total)
	if err != nil {
		return decimal.Zero, err
	}

	err = tx.Commit()
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

// MarkBatchFailed marks every member credit failed with the error, leaving the
// amounts untouched so nothing owed is lost
func (pg *Postgres) MarkBatchFailed(ctx context.Context, batchID uuid.UUID, lastError string, ackLost bool) error {
	tx, err := pg.DB.Beginx()
	if err != nil {
		return err
	}
	defer pg.RollbackTx(tx)

	res, err := tx.Exec(`
	update pending_credits
	set status = 'failed', last_error = $2, ack_lost = $3, attempts = attempts + 1, updated_at = current_timestamp
	where batch_id = $1 and status = 'in_flight'`,
		batchID, lastError, ackLost)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no in flight credits found for batch %s", batchID)
	}

	_, err = tx.Exec(
		`update votes set credit_status = 'failed' where id in (select vote_id from pending_credits where batch_id = $1)`,
		batchID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetCreditSummary returns the user's credit totals broken down by state
func (pg *Postgres) GetCreditSummary(ctx context.Context, userID uuid.UUID, maxAttempts int) (*CreditSummary, error) {
	summary := CreditSummary{}
	err := pg.DB.Get(&summary, `
	select
		coalesce(sum(amount) filter (where status in ('pending', 'in_flight')), 0.0) as pending_amount,
		coalesce(sum(amount) filter (where status = 'failed' and attempts < $2), 0.0) as failed_amount,
		coalesce(sum(amount) filter (where status = 'failed' and attempts >= $2), 0.0) as stuck_amount,
		coalesce(sum(amount) filter (where status = 'settled'), 0.0) as settled_amount
	from pending_credits
	where user_id = $1`,
		userID, maxAttempts)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetLastKnownChainBalance overwrites the cached external balance for the user
func (pg *Postgres) SetLastKnownChainBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	_, err := pg.DB.Exec(`
	insert into user_ledger_states (user_id, last_known_chain_balance, last_reconciled_at)
	values ($1, $2, current_timestamp)
	on conflict (user_id) do update set last_known_chain_balance = $2, last_reconciled_at = current_timestamp, updated_at = current_timestamp`,
		userID, amount)
	return err
}

// RunNextSettlementJob picks one user with a linked address and settleable
// credits and runs the worker over them. The candidate row is read without a
// lock, the worker writes the same ledger row in its own transactions and
// the pending to in_flight transition is what keeps concurrent sweepers from
// double submitting any given credit.
func (pg *Postgres) RunNextSettlementJob(ctx context.Context, worker SettlementWorker) (bool, error) {
	type settlementJob struct {
		UserID    uuid.UUID `db:"user_id"`
		Recipient string    `db:"recipient_address"`
	}

	statement := `
select user_id, recipient_address
from user_ledger_states
where
	recipient_address is not null and
	exists (
		select 1 from pending_credits pc
		where pc.user_id = user_ledger_states.user_id and pc.status = 'pending'
	)
limit 1`

	jobs := []settlementJob{}
	err := pg.DB.Select(&jobs, statement)
	if err != nil {
		return false, err
	}

	if len(jobs) != 1 {
		return false, nil
	}

	return true, worker.SettleUser(ctx, jobs[0].UserID, jobs[0].Recipient)
}

// RunNextReconcileJob picks one user whose cached balance is older than
// staleBefore and refreshes it from the settlement ledger
func (pg *Postgres) RunNextReconcileJob(ctx context.Context, worker ReconcileWorker, staleBefore time.Time) (bool, error) {
	type reconcileJob struct {
		UserID    uuid.UUID `db:"user_id"`
		Recipient string    `db:"recipient_address"`
	}

	// the worker upserts this same ledger row, so the candidate is read
	// without a lock; a successful refresh bumps last_reconciled_at and
	// drops the user out of the candidate set
	statement := `
select user_id, recipient_address
from user_ledger_states
where
	recipient_address is not null and
	(last_reconciled_at is null or last_reconciled_at < $1)
limit 1`

	jobs := []reconcileJob{}
	err := pg.DB.Select(&jobs, statement, staleBefore)
	if err != nil {
		return false, err
	}

	if len(jobs) != 1 {
		return false, nil
	}

	return true, worker.ReconcileUser(ctx, jobs[0].UserID, jobs[0].Recipient)
}
