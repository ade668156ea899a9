package rewards

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/vendwars/vote-ledger/clients"
	"github.com/vendwars/vote-ledger/clients/chain"
	"github.com/vendwars/vote-ledger/middleware"
	"github.com/vendwars/vote-ledger/utils/backoff"
	"github.com/vendwars/vote-ledger/utils/backoff/retrypolicy"
	appctx "github.com/vendwars/vote-ledger/utils/context"
	"github.com/vendwars/vote-ledger/utils/logging"
)

var (
	countSettledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credits_settled_total",
			Help: "count of credits settled on the external ledger",
		},
	)

	countSettlementAckLostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_ack_lost_total",
			Help: "count of transfers whose outcome is unknown",
		},
	)

	// transferRetryPolicy retries transient transport failures within one
	// settlement run before the batch is parked as failed
	transferRetryPolicy, _ = retrypolicy.New(
		retrypolicy.WithInitialInterval(500*time.Millisecond),
		retrypolicy.WithBackoffCoefficient(2),
		retrypolicy.WithMaximumInterval(10*time.Second),
		retrypolicy.WithExpirationInterval(time.Minute),
		retrypolicy.WithMaximumAttempts(4),
	)
)

func init() {
	if err := prometheus.Register(countSettledTotal); err != nil {
		if ae, ok := err.(prometheus.AlreadyRegisteredError); ok {
			countSettledTotal = ae.ExistingCollector.(prometheus.Counter)
		}
	}
	if err := prometheus.Register(countSettlementAckLostTotal); err != nil {
		if ae, ok := err.(prometheus.AlreadyRegisteredError); ok {
			countSettlementAckLostTotal = ae.ExistingCollector.(prometheus.Counter)
		}
	}
}

// SettlementWorker attempts settlement for one user
type SettlementWorker interface {
	SettleUser(ctx context.Context, userID uuid.UUID, recipient string) error
}

// ReconcileWorker refreshes one user's cached external balance
type ReconcileWorker interface {
	ReconcileUser(ctx context.Context, userID uuid.UUID, recipient string) error
}

// SettlementResult summarizes one settlement run over a user's credits.
// A run that records a transfer failure still returns a result, not an error,
// because the failure has been durably absorbed into the credit states.
type SettlementResult struct {
	BatchID       uuid.UUID       `json:"batchId"`
	SettledAmount decimal.Decimal `json:"settledAmount"`
	FailedAmount  decimal.Decimal `json:"failedAmount"`
	CreditCount   int             `json:"creditCount"`
	TxRef         string          `json:"txRef,omitempty"`
	AckLost       bool            `json:"ackLost"`
}

// canRetryTransfer reports whether the transfer can be re-sent safely. Only
// responses the ledger definitely rejected qualify; a timeout may have landed,
// so re-sending it risks paying twice.
func canRetryTransfer(err error) bool {
	state, ok := clients.UnwrapHTTPState(err)
	if !ok {
		return false
	}
	return state.Status >= 500 || state.Status == 429
}

// isAckLost reports whether the transfer outcome is unknown. The request left
// the process but no definitive answer came back.
func isAckLost(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// Settle drains the user's pending credits through a single external transfer.
// Credits are first moved to in_flight under a fresh batch, making this run
// the only writer of their outcome.
func (service *Service) Settle(ctx context.Context, userID uuid.UUID, recipient string) (*SettlementResult, error) {
	logger := logging.Logger(ctx, "rewards.Settle")

	requeued, err := service.Datastore.RequeueFailedCredits(ctx, userID, service.settleAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to requeue failed credits: %w", err)
	}
	if requeued > 0 {
		logger.Info().Str("user_id", userID.String()).Int64("requeued", requeued).Msg("returned failed credits to the pending pool")
	}

	batchID := uuid.NewV4()
	credits, err := service.Datastore.AcquirePendingCredits(ctx, batchID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire pending credits: %w", err)
	}
	if len(credits) == 0 {
		return &SettlementResult{BatchID: batchID, SettledAmount: decimal.Zero, FailedAmount: decimal.Zero}, nil
	}

	batch := newSettlementBatch(batchID, userID, recipient, credits)

	// the batch id doubles as the transfer reference so a re-sent request
	// is recognizable on the ledger side
	var resp *chain.TransferResponse
	transferOperation := func() (interface{}, error) {
		return service.chainClient.Transfer(ctx, recipient, batch.Total, batchID)
	}
	out, err := backoff.Retry(ctx, transferOperation, transferRetryPolicy, canRetryTransfer)
	if err != nil {
		ackLost := isAckLost(err)
		if ackLost {
			countSettlementAckLostTotal.Inc()
		}
		markErr := service.Datastore.MarkBatchFailed(ctx, batchID, err.Error(), ackLost)
		if markErr != nil {
			sentry.CaptureException(markErr)
			return nil, fmt.Errorf("failed to mark batch failed: %w", markErr)
		}
		logger.Warn().Err(err).
			Str("batch_id", batchID.String()).
			Bool("ack_lost", ackLost).
			Msg("transfer failed, credits parked as failed")
		return &SettlementResult{
			BatchID:      batchID,
			FailedAmount: batch.Total,
			CreditCount:  len(credits),
			AckLost:      ackLost,
		}, nil
	}
	resp = out.(*chain.TransferResponse)

	settled, err := service.Datastore.MarkBatchSettled(ctx, batchID, resp.TxRef)
	if err != nil {
		// the transfer happened; the credits stay in_flight rather than
		// risk a second transfer, an operator resolves them via retry
		sentry.CaptureException(err)
		logger.Error().Err(err).
			Str("batch_id", batchID.String()).
			Str("tx_ref", resp.TxRef).
			Msg("transfer succeeded but recording settlement failed")
		return nil, fmt.Errorf("failed to record settlement for batch %s: %w", batchID, err)
	}

	countSettledTotal.Add(float64(len(credits)))
	logger.Info().
		Str("batch_id", batchID.String()).
		Str("tx_ref", resp.TxRef).
		Str("amount", settled.String()).
		Int("credits", len(credits)).
		Msg("batch settled")

	return &SettlementResult{
		BatchID:       batchID,
		SettledAmount: settled,
		FailedAmount:  decimal.Zero,
		CreditCount:   len(credits),
		TxRef:         resp.TxRef,
	}, nil
}

// SettleUser - Implement SettlementWorker for the sweep job
func (service *Service) SettleUser(ctx context.Context, userID uuid.UUID, recipient string) error {
	_, err := service.Settle(ctx, userID, recipient)
	return err
}

// RunNextSettlementJob - Attempt settlement for the next eligible user
func (service *Service) RunNextSettlementJob(ctx context.Context) (bool, error) {
	return service.Datastore.RunNextSettlementJob(ctx, service)
}

// LinkSettlementAddress records the address and kicks off settlement of
// whatever the user already accrued
func (service *Service) LinkSettlementAddress(ctx context.Context, userID uuid.UUID, recipient string) error {
	err := service.Datastore.LinkRecipientAddress(ctx, userID, recipient)
	if err != nil {
		return fmt.Errorf("failed to link settlement address: %w", err)
	}

	asyncCtx, cancel := context.WithTimeout(appctx.Wrap(ctx, context.Background()), service.settleTimeout)
	logger := logging.Logger(ctx, "rewards.LinkSettlementAddress")
	go func() {
		defer cancel()
		defer middleware.ConcurrentGoRoutines.With(
			prometheus.Labels{
				"method": "LinkSettlementAddress",
			}).Dec()

		middleware.ConcurrentGoRoutines.With(
			prometheus.Labels{
				"method": "LinkSettlementAddress",
			}).Inc()

		if _, err := service.Settle(asyncCtx, userID, recipient); err != nil {
			sentry.CaptureException(err)
			logger.Error().Err(err).Str("user_id", userID.String()).Msg("settlement after linking failed")
		}
	}()

	return nil
}

// RetrySettlement re-runs settlement on demand for a user with a linked address
func (service *Service) RetrySettlement(ctx context.Context, userID uuid.UUID) (*SettlementResult, error) {
	state, err := service.Datastore.GetUserLedgerState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.RecipientAddress == nil {
		return nil, ErrNoSettlementAddress
	}
	return service.Settle(ctx, userID, *state.RecipientAddress)
}

// ErrNoSettlementAddress - the user has not linked an address to settle to
var ErrNoSettlementAddress = errors.New("user has no linked settlement address")
