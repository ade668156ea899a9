package context

import "context"

var wrappedKeys = []CTXKey{
	EnvironmentCTXKey,
	DebugLoggingCTXKey,
	LogLevelCTXKey,
	LoggerCTXKey,
	ChainServiceCTXKey,
	ChainTokenCTXKey,
	DailyVoteCapCTXKey,
	WeeklyVendorCapCTXKey,
	SettlementAttemptsCTXKey,
}

// Wrap copies the application scoped values of orig onto ctx, so a request scoped
// context can outlive its request via a fresh parent (e.g. async settlement)
func Wrap(orig, ctx context.Context) context.Context {
	for _, key := range wrappedKeys {
		if v := orig.Value(key); v != nil {
			ctx = context.WithValue(ctx, key, v)
		}
	}
	return ctx
}
