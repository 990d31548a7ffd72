package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// HistoryRepository is the append-only conversation log
type HistoryRepository interface {
	// Append writes one immutable message and increments the owning
	// profile's total_messages counter. The message write is durable
	// before the counter update; counter drift of at most one on crash is
	// acceptable, duplicated messages are not.
	Append(ctx context.Context, userID types.UserID, role types.Role, content string) (*model.Message, error)

	// Recent returns at most limit messages in chronological order
	// (oldest first)
	Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error)

	// Prune deletes messages older than the cutoff across all users and
	// returns the number of deleted records
	Prune(ctx context.Context, before time.Time) (int, error)
}
