package rewards

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// CreditStatus - lifecycle of a pending credit
type CreditStatus string

const (
	// CreditStatusPending - awaiting settlement
	CreditStatusPending CreditStatus = "pending"
	// CreditStatusInFlight - claimed by a settlement batch
	CreditStatusInFlight CreditStatus = "in_flight"
	// CreditStatusSettled - transferred on the settlement ledger, terminal
	CreditStatusSettled CreditStatus = "settled"
	// CreditStatusFailed - the settlement attempt failed, eligible for retry
	CreditStatusFailed CreditStatus = "failed"
)

// PendingCredit is the off ledger promise of tokens owed for one vote. It is
// created in the same transaction as its VoteRecord and mutated only by the
// settlement coordinator.
type PendingCredit struct {
	VoteID     uuid.UUID       `json:"voteId" db:"vote_id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Status     CreditStatus    `json:"status" db:"status"`
	BatchID    *uuid.UUID      `json:"batchId" db:"batch_id"`
	ChainTxRef *string         `json:"chainTxRef" db:"chain_tx_ref"`
	LastError  *string         `json:"lastError" db:"last_error"`
	AckLost    bool            `json:"ackLost" db:"ack_lost"`
	Attempts   int             `json:"attempts" db:"attempts"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// CreditSummary - totals for UI banners, failed and stuck reported separately
type CreditSummary struct {
	PendingAmount decimal.Decimal `json:"pendingAmount" db:"pending_amount"`
	FailedAmount  decimal.Decimal `json:"failedAmount" db:"failed_amount"`
	StuckAmount   decimal.Decimal `json:"stuckAmount" db:"stuck_amount"`
	SettledAmount decimal.Decimal `json:"settledAmount" db:"settled_amount"`
}

// SettlementBatch groups the credits submitted as one external transfer. It
// exists only for the duration of a settlement attempt; the outcome is
// projected back onto the member credits and the batch discarded.
type SettlementBatch struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Recipient string
	Credits   []PendingCredit
	Total     decimal.Decimal
}

// newSettlementBatch builds a batch over the supplied credits, summing amounts
func newSettlementBatch(id, userID uuid.UUID, recipient string, credits []PendingCredit) *SettlementBatch {
	total := decimal.Zero
	for i := range credits {
		total = total.Add(credits[i].Amount)
	}
	return &SettlementBatch{
		ID:        id,
		UserID:    userID,
		Recipient: recipient,
		Credits:   credits,
		Total:     total,
	}
}
