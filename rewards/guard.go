package rewards

import "time"

// RejectionReason - why a vote was not admitted
type RejectionReason string

const (
	// RejectionDailyCapReached - the (voter, vendor, day) cap is exhausted
	RejectionDailyCapReached RejectionReason = "DailyCapReached"
	// RejectionWeeklyCapReached - too many distinct vendors voted on this week
	RejectionWeeklyCapReached RejectionReason = "WeeklyCapReached"
	// RejectionDuplicateAttestation - the photo attestation was already used
	RejectionDuplicateAttestation RejectionReason = "DuplicateAttestation"
)

// RejectionError - returned by SubmitVote when the rate guard denies the vote
type RejectionError struct {
	Reason RejectionReason
}

// Error implements error
func (e *RejectionError) Error() string {
	return "vote rejected: " + string(e.Reason)
}

// GuardConfig holds the admissibility policy knobs, caps are configuration
// rather than constants
type GuardConfig struct {
	DailyVoteCap      int
	WeeklyVendorCap   int
	AttestationWindow time.Duration
}

// DefaultGuardConfig - the guard configuration used when none is supplied
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		DailyVoteCap:      3,
		WeeklyVendorCap:   20,
		AttestationWindow: 48 * time.Hour,
	}
}

// voteStats are the counts the guard evaluates. They must be read under the
// same serialization boundary as the subsequent vote write, otherwise two
// concurrent submissions can both observe count = cap-1 and both be admitted.
type voteStats struct {
	votesForVendorToday   int
	distinctVendorsInWeek int
	vendorCountedInWeek   bool
	duplicateAttestation  bool
}

// admitVote evaluates the admissibility rules in order and returns the first
// rejection, or nil when the vote is admissible. The guard performs no writes.
func admitVote(stats voteStats, cfg GuardConfig) *RejectionReason {
	if stats.votesForVendorToday >= cfg.DailyVoteCap {
		reason := RejectionDailyCapReached
		return &reason
	}

	// a vendor already counted this week does not widen the distinct set
	if !stats.vendorCountedInWeek && stats.distinctVendorsInWeek >= cfg.WeeklyVendorCap {
		reason := RejectionWeeklyCapReached
		return &reason
	}

	if stats.duplicateAttestation {
		reason := RejectionDuplicateAttestation
		return &reason
	}

	return nil
}
