package rewards

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/vendwars/vote-ledger/utils/logging"
)

// ReconcileOutcome reports a refresh of the cached external balance
type ReconcileOutcome struct {
	UserID          uuid.UUID       `json:"userId"`
	ObservedBalance decimal.Decimal `json:"observedBalance"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	ReconciledAt    time.Time       `json:"reconciledAt"`
}

// Reconcile reads the user's balance from the external ledger and overwrites
// the cached value. The external ledger is authoritative, the observed value
// wins even when it is lower than what we remembered.
func (service *Service) Reconcile(ctx context.Context, userID uuid.UUID, recipient string) (*ReconcileOutcome, error) {
	logger := logging.Logger(ctx, "rewards.Reconcile")

	observed, err := service.chainClient.BalanceOf(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to read external balance: %w", err)
	}

	state, err := service.Datastore.GetUserLedgerState(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := decimal.Zero
	if state != nil {
		previous = state.LastKnownChainBalance
	}

	if !observed.Equal(previous) {
		logger.Warn().
			Str("user_id", userID.String()).
			Str("cached", previous.String()).
			Str("observed", observed.String()).
			Msg("cached balance drifted from the external ledger")
	}

	err = service.Datastore.SetLastKnownChainBalance(ctx, userID, observed)
	if err != nil {
		return nil, fmt.Errorf("failed to record reconciled balance: %w", err)
	}

	return &ReconcileOutcome{
		UserID:          userID,
		ObservedBalance: observed,
		PreviousBalance: previous,
		ReconciledAt:    time.Now().UTC(),
	}, nil
}

// ReconcileUser - Implement ReconcileWorker for the refresh job
func (service *Service) ReconcileUser(ctx context.Context, userID uuid.UUID, recipient string) error {
	_, err := service.Reconcile(ctx, userID, recipient)
	return err
}

// RunNextReconcileJob - Refresh the next stale cached balance
func (service *Service) RunNextReconcileJob(ctx context.Context) (bool, error) {
	staleBefore := time.Now().UTC().Add(-service.reconcileStale)
	return service.Datastore.RunNextReconcileJob(ctx, service, staleBefore)
}
