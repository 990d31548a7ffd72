package types

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy shared across layers. Repositories wrap backend failures
// with ErrStorageUnavailable, the completion binding wraps provider
// failures with one of the completion sentinels, and input validation
// wraps ErrInvalidInput. The orchestrator matches on these with errors.Is
// to decide how a turn degrades.
var (
	ErrStorageUnavailable = goerr.New("storage unavailable")
	ErrNotFound           = goerr.New("record not found")
	ErrInvalidInput       = goerr.New("invalid input")

	ErrCompletionFailure   = goerr.New("completion failure")
	ErrCompletionRateLimit = goerr.New("completion rate limited")
	ErrCompletionNetwork   = goerr.New("completion network failure")
	ErrCompletionMalformed = goerr.New("completion response malformed")
)
