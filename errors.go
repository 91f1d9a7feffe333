package hipster

import "errors"

// ErrGoalUnreachable is returned by OptimalPath when the strategy exhausted
// without producing the goal. Run reports the same outcome as a Result with no
// goal node instead of an error.
var ErrGoalUnreachable = errors.New("goal unreachable from origin")
