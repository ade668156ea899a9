// Package closers provides helpers for closing io.Closers in defers
package closers

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// Panic calls Close on the specified closer, panicing on error
func Panic(c io.Closer) {
	if err := c.Close(); err != nil {
		panic(err)
	}
}

// Log calls Close on the specified closer, logging any error
func Log(ctx context.Context, c io.Closer) {
	if err := c.Close(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close")
	}
}
