package models

import "errors"

// Expected outcomes of normal usage. Handlers surface each one with a specific
// message instead of masking them as generic errors.
var (
	// ErrInvalidWheel means the wheel configuration cannot be drawn from:
	// no options, or a non-positive total weight.
	ErrInvalidWheel = errors.New("wheel has no options with positive weight")

	// ErrQuotaExceeded means the user has no spins left for this merchant today.
	ErrQuotaExceeded = errors.New("daily spin quota exceeded")

	// ErrNotFound means no spin record exists for the given code.
	ErrNotFound = errors.New("code not found")

	// ErrAlreadyRedeemed means the code was valid but has already been used.
	ErrAlreadyRedeemed = errors.New("code already redeemed")

	// ErrExpired means the code's 7-day redemption window has passed.
	ErrExpired = errors.New("code expired")
)

// ErrStorageUnavailable wraps infrastructure faults from the store. Issuance
// guarantees no partial writes on this error, but a caller that timed out with
// unknown outcome must not blindly retry: the previous attempt may have been a
// late success, and retrying would visibly double-issue.
var ErrStorageUnavailable = errors.New("storage unavailable")
