// Package service provides business logic implementations.
package service

import "errors"

// Error taxonomy shared across services. Handlers branch on these to pick
// between a re-prompt, an admin-facing refresh hint, or a generic failure.
var (
	// ErrValidation marks malformed user input (card number/holder).
	// Recoverable: the user is re-prompted, the flow is not aborted.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState marks a payout action attempted on a reward that is
	// not in the required status. Recoverable: the admin should refresh.
	ErrInvalidState = errors.New("invalid state")
)
