package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreakFirstVote(t *testing.T) {
	state := UserLedgerState{}
	streak, advanced := advanceStreak(&state, day(2025, 6, 1))
	assert.Equal(t, 1, streak)
	assert.True(t, advanced)
	assert.Equal(t, day(2025, 6, 1), *state.LastStreakDay)
}

func TestAdvanceStreakSameDay(t *testing.T) {
	last := day(2025, 6, 1)
	state := UserLedgerState{Streak: 3, LastStreakDay: &last}
	streak, advanced := advanceStreak(&state, day(2025, 6, 1))
	assert.Equal(t, 3, streak)
	assert.False(t, advanced)
}

func TestAdvanceStreakConsecutiveDay(t *testing.T) {
	last := day(2025, 6, 1)
	state := UserLedgerState{Streak: 3, LastStreakDay: &last}
	streak, advanced := advanceStreak(&state, day(2025, 6, 2))
	assert.Equal(t, 4, streak)
	assert.True(t, advanced)
}

func TestAdvanceStreakGapResets(t *testing.T) {
	last := day(2025, 6, 1)
	state := UserLedgerState{Streak: 9, LastStreakDay: &last}
	streak, advanced := advanceStreak(&state, day(2025, 6, 3))
	assert.Equal(t, 1, streak)
	assert.True(t, advanced)
}

func TestAdvanceStreakNeverMovesBackward(t *testing.T) {
	last := day(2025, 6, 5)
	state := UserLedgerState{Streak: 4, LastStreakDay: &last}
	streak, advanced := advanceStreak(&state, day(2025, 6, 3))
	assert.Equal(t, 4, streak)
	assert.False(t, advanced)
	assert.Equal(t, day(2025, 6, 5), *state.LastStreakDay)
}

func TestStreakAcrossFourVotes(t *testing.T) {
	state := UserLedgerState{}

	streak, advanced := advanceStreak(&state, day(2025, 6, 1))
	assert.Equal(t, 1, streak)
	assert.True(t, advanced)

	streak, advanced = advanceStreak(&state, day(2025, 6, 2))
	assert.Equal(t, 2, streak)
	assert.True(t, advanced)

	// second vote on day two
	streak, advanced = advanceStreak(&state, day(2025, 6, 2))
	assert.Equal(t, 2, streak)
	assert.False(t, advanced)

	// day three skipped
	streak, advanced = advanceStreak(&state, day(2025, 6, 4))
	assert.Equal(t, 1, streak)
	assert.True(t, advanced)
}
