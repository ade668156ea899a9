package context

import "errors"

var (
	// ErrNotInContext - error you get when you ask for something not in the context
	ErrNotInContext = errors.New("failed to get value from context")
	// ErrValueWrongType - error you get when you ask for something and it is not the type you expected
	ErrValueWrongType = errors.New("context value of wrong type")
)

// CTXKey - a type for context keys
type CTXKey string

const (
	// DatastoreCTXKey - the context key for getting the datastore
	DatastoreCTXKey CTXKey = "datastore"
	// RODatastoreCTXKey - the context key for getting the read only datastore
	RODatastoreCTXKey CTXKey = "ro_datastore"
	// ServiceKey - the key used for service context
	ServiceKey CTXKey = "service"
	// EnvironmentCTXKey - the key used for the environment
	EnvironmentCTXKey CTXKey = "environment"
	// DebugLoggingCTXKey - context key for debug logging
	DebugLoggingCTXKey CTXKey = "debug_logging"
	// LogLevelCTXKey - context key for application logging level
	LogLevelCTXKey CTXKey = "log_level"
	// LoggerCTXKey - context key for the logger
	LoggerCTXKey CTXKey = "logger"
	// LogWriterCTXKey - context key for overriding the log writer
	LogWriterCTXKey CTXKey = "log_writer"

	// VersionCTXKey - context key for version of code
	VersionCTXKey CTXKey = "version"
	// CommitCTXKey - context key for the commit of the code
	CommitCTXKey CTXKey = "commit"
	// BuildTimeCTXKey - context key for the build time of code
	BuildTimeCTXKey CTXKey = "build_time"

	// ChainServiceCTXKey - context key for the chain settlement service address
	ChainServiceCTXKey CTXKey = "chain_service"
	// ChainTokenCTXKey - context key for the chain settlement service token
	ChainTokenCTXKey CTXKey = "chain_token"
	// DailyVoteCapCTXKey - context key for the per (voter, vendor, day) vote cap
	DailyVoteCapCTXKey CTXKey = "daily_vote_cap"
	// WeeklyVendorCapCTXKey - context key for the distinct vendors per rolling week cap
	WeeklyVendorCapCTXKey CTXKey = "weekly_vendor_cap"
	// SettlementAttemptsCTXKey - context key for the settlement retry budget
	SettlementAttemptsCTXKey CTXKey = "settlement_attempts"
	// SettlementCadenceCTXKey - context key for the settlement sweep cadence
	SettlementCadenceCTXKey CTXKey = "settlement_cadence"
	// ReconcileCadenceCTXKey - context key for the balance reconcile cadence
	ReconcileCadenceCTXKey CTXKey = "reconcile_cadence"
	// ReconcileStaleAfterCTXKey - context key for how old a cached balance may get
	ReconcileStaleAfterCTXKey CTXKey = "reconcile_stale_after"
)
