package rewards

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

var (
	// baseVoteReward - tokens earned by a plain vote
	baseVoteReward = decimal.New(5, 0)
	// verifiedVoteReward - tokens earned by a photo verified vote
	verifiedVoteReward = decimal.New(12, 0)
	// territoryBonusReward - flat bonus while the vendor's zone is contested
	territoryBonusReward = decimal.New(3, 0)
	// maxStreakBonusTier - streak bonus stops growing past this many days
	maxStreakBonusTier = 7

	countVotesAcceptedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_accepted_total",
			Help: "count of accepted votes broken down by kind",
		},
		[]string{"kind"},
	)

	countVotesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_rejected_total",
			Help: "count of rejected votes broken down by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	err := prometheus.Register(countVotesAcceptedTotal)
	if ae, ok := err.(prometheus.AlreadyRegisteredError); ok {
		countVotesAcceptedTotal = ae.ExistingCollector.(*prometheus.CounterVec)
	}

	err = prometheus.Register(countVotesRejectedTotal)
	if ae, ok := err.(prometheus.AlreadyRegisteredError); ok {
		countVotesRejectedTotal = ae.ExistingCollector.(*prometheus.CounterVec)
	}
}

// VoteRecord is one admitted vote for a vendor, immutable except for the
// credit status projection maintained by the settlement coordinator
type VoteRecord struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	VoterID        uuid.UUID       `json:"voterId" db:"voter_id"`
	VendorID       uuid.UUID       `json:"vendorId" db:"vendor_id"`
	VoteDay        time.Time       `json:"voteDay" db:"vote_day"`
	DaySeq         int             `json:"-" db:"day_seq"`
	Verified       bool            `json:"verified" db:"verified"`
	AttestationRef *string         `json:"-" db:"attestation_ref"`
	Reward         decimal.Decimal `json:"reward" db:"reward"`
	CreditStatus   string          `json:"creditStatus" db:"credit_status"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	// StreakAdvanced records whether this vote was the one that moved the
	// streak forward, it is derived at submission time and never stored
	StreakAdvanced bool `json:"-" db:"-"`
}

// VoteResult is the synchronous answer to a vote submission. The reward is a
// read-your-write guarantee, not a promise that tokens have settled on chain.
type VoteResult struct {
	VoteID         uuid.UUID       `json:"voteId"`
	Reward         decimal.Decimal `json:"reward"`
	Streak         int             `json:"streak"`
	StreakAdvanced bool            `json:"streakAdvanced"`
}

// calendarDay truncates a point in time to its UTC calendar day
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// computeReward maps a vote's attributes onto a token amount. Streak bonus is
// added only on the day's first vote, using the same predicate that advances
// the streak, so reward and streak can never disagree about which vote was
// first.
func computeReward(verified bool, streak int, streakAdvanced bool, territoryContested bool) decimal.Decimal {
	amount := baseVoteReward
	if verified {
		amount = verifiedVoteReward
	}

	if streakAdvanced {
		bonus := streak
		if bonus > maxStreakBonusTier {
			bonus = maxStreakBonusTier
		}
		if bonus > 0 {
			amount = amount.Add(decimal.New(int64(bonus), 0))
		}
	}

	if territoryContested {
		amount = amount.Add(territoryBonusReward)
	}

	return amount
}
