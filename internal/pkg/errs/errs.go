// Package errs holds error predicates shared by the aggregation services.
package errs

import (
	"context"
	"errors"
)

// IsContextError reports whether err was caused by a cancelled or timed-out
// context. The campaign and mailbox fan-outs treat these as fatal for the
// whole build, while any other upstream failure only skips one campaign.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
