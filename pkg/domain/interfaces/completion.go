package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemos/pkg/domain/model"
)

// CompletionClient is the narrow boundary to the external text-generation
// capability: instruction + prior turns + new message in, plain reply text
// out. Failures are wrapped with the completion sentinels in
// pkg/domain/types so callers can pick an apology category.
type CompletionClient interface {
	Generate(ctx context.Context, req *model.CompletionRequest) (string, error)
}
