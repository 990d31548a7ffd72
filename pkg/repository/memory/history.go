package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

type historyRepository struct {
	mu       sync.RWMutex
	messages map[types.UserID][]*model.Message
	profiles *profileRepository
}

var _ interfaces.HistoryRepository = &historyRepository{}

func newHistoryRepository(profiles *profileRepository) *historyRepository {
	return &historyRepository{
		messages: make(map[types.UserID][]*model.Message),
		profiles: profiles,
	}
}

func (r *historyRepository) Append(ctx context.Context, userID types.UserID, role types.Role, content string) (*model.Message, error) {
	now := time.Now().UTC()
	msg := model.NewMessage(userID, role, content, now)

	r.mu.Lock()
	r.messages[userID] = append(r.messages[userID], msg)
	r.mu.Unlock()

	r.profiles.incrementMessages(userID, now)

	copied := *msg
	return &copied, nil
}

func (r *historyRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 10
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.messages[userID]

	sorted := make([]*model.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}

	result := make([]*model.Message, len(sorted))
	for i, m := range sorted {
		copied := *m
		result[i] = &copied
	}

	return result, nil
}

func (r *historyRepository) Prune(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for userID, msgs := range r.messages {
		kept := msgs[:0]
		for _, m := range msgs {
			if m.CreatedAt.Before(before) {
				deleted++
				continue
			}
			kept = append(kept, m)
		}
		r.messages[userID] = kept
	}

	return deleted, nil
}
