package reroll

import "errors"

// ErrInvariantViolation marks a caller bug: an empty candidate set or a slot
// index outside the panel. It is never worth retrying.
var ErrInvariantViolation = errors.New("reroll: invariant violation")
