package montecarlo

import (
	"errors"
	"fmt"

	"github.com/san-kum/mcprice/internal/sde"
)

var (
	// ErrInvalidConfiguration is shared with the path simulator so callers
	// can test for a single sentinel.
	ErrInvalidConfiguration = sde.ErrInvalidConfiguration

	// ErrPayoffEvaluation indicates a payoff could not be applied to a
	// simulated path. The whole run is aborted.
	ErrPayoffEvaluation = errors.New("montecarlo: payoff evaluation failed")
)

// PayoffError reports the replication whose payoff failed.
type PayoffError struct {
	Replication int
	Payoff      string
	Wrapped     error
}

func (e *PayoffError) Error() string {
	return fmt.Sprintf("montecarlo: payoff %q failed at replication %d: %v", e.Payoff, e.Replication, e.Wrapped)
}

func (e *PayoffError) Unwrap() []error {
	return []error{ErrPayoffEvaluation, e.Wrapped}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
