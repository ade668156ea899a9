package rewards

import (
	"context"
	"errors"
	"time"

	cache "github.com/patrickmn/go-cache"
	uuid "github.com/satori/go.uuid"

	"github.com/vendwars/vote-ledger/clients/chain"
	appctx "github.com/vendwars/vote-ledger/utils/context"
	srv "github.com/vendwars/vote-ledger/utils/service"
)

const (
	// defaultSettlementAttempts is how many times a failed credit is retried before it is stuck
	defaultSettlementAttempts = 5
	// settleJobTimeout bounds a single asynchronous settlement run
	settleJobTimeout = 90 * time.Second
	// territoryCacheTTL is how long a contested zone lookup is reused
	territoryCacheTTL = 5 * time.Minute
)

// TerritoryChecker tells whether a vendor sits in a contested zone
type TerritoryChecker interface {
	IsZoneContested(ctx context.Context, vendorID uuid.UUID) (bool, error)
}

// Service contains datastore and chain client connections
type Service struct {
	Datastore        Datastore
	RoDatastore      ReadOnlyDatastore
	chainClient      chain.Client
	territory        TerritoryChecker
	territoryCache   *cache.Cache
	guardCfg         GuardConfig
	settleAttempts   int
	settleTimeout    time.Duration
	settleCadence    time.Duration
	reconcileCadence time.Duration
	reconcileStale   time.Duration
	jobs             []srv.Job
}

// Jobs - Implement srv.JobService interface
func (service *Service) Jobs() []srv.Job {
	return service.jobs
}

// ReadableDatastore returns a read only datastore if available, otherwise a normal datastore
func (service *Service) ReadableDatastore() ReadOnlyDatastore {
	if service.RoDatastore != nil {
		return service.RoDatastore
	}
	return service.Datastore
}

// InitService creates a service using the datastore and chain client configured
// through the context
func InitService(ctx context.Context, datastore Datastore, roDatastore ReadOnlyDatastore, chainClient chain.Client, territory TerritoryChecker) (*Service, error) {
	guardCfg := DefaultGuardConfig()
	if cap, err := appctx.GetIntFromContext(ctx, appctx.DailyVoteCapCTXKey); err == nil {
		guardCfg.DailyVoteCap = cap
	}
	if cap, err := appctx.GetIntFromContext(ctx, appctx.WeeklyVendorCapCTXKey); err == nil {
		guardCfg.WeeklyVendorCap = cap
	}

	settleAttempts := defaultSettlementAttempts
	if attempts, err := appctx.GetIntFromContext(ctx, appctx.SettlementAttemptsCTXKey); err == nil {
		settleAttempts = attempts
	}

	settleCadence := time.Minute
	if cadence, err := appctx.GetDurationFromContext(ctx, appctx.SettlementCadenceCTXKey); err == nil {
		settleCadence = cadence
	}
	reconcileCadence := 5 * time.Minute
	if cadence, err := appctx.GetDurationFromContext(ctx, appctx.ReconcileCadenceCTXKey); err == nil {
		reconcileCadence = cadence
	}
	reconcileStale := time.Hour
	if staleAfter, err := appctx.GetDurationFromContext(ctx, appctx.ReconcileStaleAfterCTXKey); err == nil {
		reconcileStale = staleAfter
	}

	service := &Service{
		Datastore:        datastore,
		RoDatastore:      roDatastore,
		chainClient:      chainClient,
		territory:        territory,
		territoryCache:   cache.New(territoryCacheTTL, 2*territoryCacheTTL),
		guardCfg:         guardCfg,
		settleAttempts:   settleAttempts,
		settleTimeout:    settleJobTimeout,
		settleCadence:    settleCadence,
		reconcileCadence: reconcileCadence,
		reconcileStale:   reconcileStale,
	}

	service.jobs = []srv.Job{
		{
			Func:    service.RunNextSettlementJob,
			Cadence: settleCadence,
			Workers: 1,
		},
		{
			Func:    service.RunNextReconcileJob,
			Cadence: reconcileCadence,
			Workers: 1,
		},
	}

	return service, nil
}

// SubmitVote resolves the vendor's territory and records the vote
func (service *Service) SubmitVote(ctx context.Context, voterID, vendorID uuid.UUID, verified bool, attestationRef *string) (*VoteResult, error) {
	contested, err := service.IsVendorContested(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	vote, state, err := service.Datastore.SubmitVote(ctx, voterID, vendorID, verified, attestationRef, time.Now().UTC(), contested, service.guardCfg)
	if err != nil {
		var rejection *RejectionError
		if errors.As(err, &rejection) {
			countVotesRejectedTotal.With(map[string]string{"reason": string(rejection.Reason)}).Inc()
		}
		return nil, err
	}

	countVotesAcceptedTotal.With(map[string]string{"kind": voteKind(verified)}).Inc()

	return &VoteResult{
		VoteID:         vote.ID,
		Reward:         vote.Reward,
		Streak:         state.Streak,
		StreakAdvanced: vote.StreakAdvanced,
	}, nil
}

func voteKind(verified bool) string {
	if verified {
		return "verified"
	}
	return "base"
}

// IsVendorContested resolves whether the vendor's zone is contested, caching
// lookups so territory service hiccups do not stall vote intake
func (service *Service) IsVendorContested(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	if service.territory == nil {
		return false, nil
	}
	if contested, found := service.territoryCache.Get(vendorID.String()); found {
		return contested.(bool), nil
	}
	contested, err := service.territory.IsZoneContested(ctx, vendorID)
	if err != nil {
		return false, err
	}
	service.territoryCache.Set(vendorID.String(), contested, cache.DefaultExpiration)
	return contested, nil
}

// GetUserLedgerState returns the ledger state for a user
func (service *Service) GetUserLedgerState(ctx context.Context, userID uuid.UUID) (*UserLedgerState, error) {
	return service.ReadableDatastore().GetUserLedgerState(ctx, userID)
}

// GetCreditSummary returns the credit totals for a user
func (service *Service) GetCreditSummary(ctx context.Context, userID uuid.UUID) (*CreditSummary, error) {
	return service.ReadableDatastore().GetCreditSummary(ctx, userID, service.settleAttempts)
}
