package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps a provider error onto the completion error taxonomy so
// the orchestrator can pick a category-appropriate apology. The checks
// are heuristic; anything unrecognized falls back to the generic
// completion sentinel.
func classify(err error, msg string) error {
	sentinel := types.ErrCompletionFailure

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		sentinel = types.ErrCompletionNetwork
	case status.Code(err) == codes.ResourceExhausted:
		sentinel = types.ErrCompletionRateLimit
	case status.Code(err) == codes.Unavailable || status.Code(err) == codes.DeadlineExceeded:
		sentinel = types.ErrCompletionNetwork
	default:
		lower := strings.ToLower(err.Error())
		switch {
		case strings.Contains(lower, "rate limit") ||
			strings.Contains(lower, "quota") ||
			strings.Contains(lower, "429"):
			sentinel = types.ErrCompletionRateLimit
		case strings.Contains(lower, "connection") ||
			strings.Contains(lower, "timeout") ||
			strings.Contains(lower, "unavailable"):
			sentinel = types.ErrCompletionNetwork
		}
	}

	return goerr.Wrap(errors.Join(sentinel, err), msg)
}
