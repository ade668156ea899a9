package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmitVoteUnderCaps(t *testing.T) {
	reason := admitVote(voteStats{votesForVendorToday: 2, distinctVendorsInWeek: 5}, DefaultGuardConfig())
	assert.Nil(t, reason)
}

func TestAdmitVoteDailyCap(t *testing.T) {
	reason := admitVote(voteStats{votesForVendorToday: 3}, DefaultGuardConfig())
	if assert.NotNil(t, reason) {
		assert.Equal(t, RejectionDailyCapReached, *reason)
	}
}

func TestAdmitVoteWeeklyCap(t *testing.T) {
	reason := admitVote(voteStats{distinctVendorsInWeek: 20}, DefaultGuardConfig())
	if assert.NotNil(t, reason) {
		assert.Equal(t, RejectionWeeklyCapReached, *reason)
	}
}

func TestAdmitVoteWeeklyCapAllowsCountedVendor(t *testing.T) {
	// the distinct vendor set is full but this vendor is already in it
	reason := admitVote(voteStats{distinctVendorsInWeek: 20, vendorCountedInWeek: true}, DefaultGuardConfig())
	assert.Nil(t, reason)
}

func TestAdmitVoteDuplicateAttestation(t *testing.T) {
	reason := admitVote(voteStats{duplicateAttestation: true}, DefaultGuardConfig())
	if assert.NotNil(t, reason) {
		assert.Equal(t, RejectionDuplicateAttestation, *reason)
	}
}

func TestAdmitVoteDailyCapBeforeDuplicate(t *testing.T) {
	// daily cap wins when several rules would reject
	reason := admitVote(voteStats{votesForVendorToday: 3, duplicateAttestation: true}, DefaultGuardConfig())
	if assert.NotNil(t, reason) {
		assert.Equal(t, RejectionDailyCapReached, *reason)
	}
}

func TestAdmitVoteConfiguredCaps(t *testing.T) {
	cfg := GuardConfig{DailyVoteCap: 1, WeeklyVendorCap: 2}
	reason := admitVote(voteStats{votesForVendorToday: 1}, cfg)
	if assert.NotNil(t, reason) {
		assert.Equal(t, RejectionDailyCapReached, *reason)
	}
}
