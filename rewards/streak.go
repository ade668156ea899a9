package rewards

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// UserLedgerState carries the per user streak and cached balances. Streak
// fields move only inside the vote submission transaction; balance fields move
// only via settlement and reconciliation.
type UserLedgerState struct {
	UserID                uuid.UUID       `json:"userId" db:"user_id"`
	Streak                int             `json:"streak" db:"streak"`
	LastStreakDay         *time.Time      `json:"lastStreakDay" db:"last_streak_day"`
	RecipientAddress      *string         `json:"recipientAddress" db:"recipient_address"`
	PendingBalance        decimal.Decimal `json:"pendingBalance" db:"pending_balance"`
	LastKnownChainBalance decimal.Decimal `json:"lastKnownChainBalance" db:"last_known_chain_balance"`
	LastReconciledAt      *time.Time      `json:"lastReconciledAt" db:"last_reconciled_at"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`
}

// advanceStreak applies the day transition rules to the state in place and
// reports the resulting streak and whether it moved. An earlier vote day than
// the recorded one never moves the streak backward.
func advanceStreak(state *UserLedgerState, voteDay time.Time) (int, bool) {
	voteDay = calendarDay(voteDay)

	if state.LastStreakDay == nil {
		// first vote ever
		state.Streak = 1
		state.LastStreakDay = &voteDay
		return state.Streak, true
	}

	last := calendarDay(*state.LastStreakDay)
	switch {
	case voteDay.Equal(last):
		// same day, streak already counted
		return state.Streak, false
	case voteDay.Equal(last.AddDate(0, 0, 1)):
		// consecutive calendar day
		state.Streak++
		state.LastStreakDay = &voteDay
		return state.Streak, true
	case voteDay.After(last):
		// gap of two or more days resets
		state.Streak = 1
		state.LastStreakDay = &voteDay
		return state.Streak, true
	default:
		// vote day precedes the recorded streak day: clock skew or an
		// out of order retry, leave the streak alone
		return state.Streak, false
	}
}
