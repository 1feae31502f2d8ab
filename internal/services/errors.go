// internal/services/errors.go
package services

import "errors"

// Error kinds surfaced to the gateways. Handlers branch on these with
// errors.Is to pick the HTTP status; anything unrecognized is a 500.
var (
	// ErrNotFound: no rate card with the given id.
	ErrNotFound = errors.New("rate card not found")

	// ErrAlreadyProcessed: a terminal transition was attempted on a card
	// that already left pending. The losing side of a channel race sees
	// this, never a silent overwrite.
	ErrAlreadyProcessed = errors.New("rate card has already been approved or rejected")

	// ErrNotPending: a pending-only mutation (edit) hit a resolved card.
	ErrNotPending = errors.New("rate card is no longer pending")

	// ErrTokenInvalid: unknown, consumed, or bound to a resolved card.
	// Presented to the public user as "link expired or already used".
	ErrTokenInvalid = errors.New("approval link is invalid or already used")

	// ErrValidation: caller-fixable input problem. Wrapped with detail,
	// e.g. fmt.Errorf("%w: rejection reason is required", ErrValidation).
	ErrValidation = errors.New("validation failed")
)
