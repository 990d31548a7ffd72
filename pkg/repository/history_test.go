package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"github.com/secmon-lab/mnemos/pkg/repository/memory"
)

func runHistoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Append stores a message and returns it", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		msg, err := repo.History().Append(ctx, "user-1", types.RoleUser, "hello")
		if err != nil {
			t.Fatalf("failed to append message: %v", err)
		}

		if msg.ID == "" {
			t.Error("expected message ID to be set")
		}
		if msg.UserID != "user-1" || msg.Role != types.RoleUser || msg.Content != "hello" {
			t.Errorf("unexpected message: %+v", msg)
		}
		if msg.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("Append increments the profile message counter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			if _, err := repo.History().Append(ctx, "user-2", types.RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
				t.Fatalf("failed to append message: %v", err)
			}
		}

		profile, err := repo.Profile().GetOrCreate(ctx, "user-2")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if profile.TotalMessages != 3 {
			t.Errorf("expected 3 total messages, got %d", profile.TotalMessages)
		}
	})

	t.Run("Recent returns the newest messages in chronological order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 7; i++ {
			role := types.RoleUser
			if i%2 == 1 {
				role = types.RoleAssistant
			}
			if _, err := repo.History().Append(ctx, "user-3", role, fmt.Sprintf("msg %d", i)); err != nil {
				t.Fatalf("failed to append message: %v", err)
			}
			// Firestore timestamps need distinct created_at values for ordering
			time.Sleep(5 * time.Millisecond)
		}

		messages, err := repo.History().Recent(ctx, "user-3", 5)
		if err != nil {
			t.Fatalf("failed to get recent messages: %v", err)
		}

		if len(messages) != 5 {
			t.Fatalf("expected 5 messages, got %d", len(messages))
		}
		for i, m := range messages {
			want := fmt.Sprintf("msg %d", i+2)
			if m.Content != want {
				t.Errorf("message %d: expected %q, got %q", i, want, m.Content)
			}
		}
		for i := 1; i < len(messages); i++ {
			if messages[i].CreatedAt.Before(messages[i-1].CreatedAt) {
				t.Errorf("messages out of chronological order at index %d", i)
			}
		}
	})

	t.Run("Recent applies the default limit when limit is not positive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 12; i++ {
			if _, err := repo.History().Append(ctx, "user-4", types.RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
				t.Fatalf("failed to append message: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
		}

		messages, err := repo.History().Recent(ctx, "user-4", 0)
		if err != nil {
			t.Fatalf("failed to get recent messages: %v", err)
		}
		if len(messages) != 10 {
			t.Errorf("expected default limit of 10 messages, got %d", len(messages))
		}
	})

	t.Run("Recent returns empty for an unknown user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		messages, err := repo.History().Recent(ctx, "nobody", 5)
		if err != nil {
			t.Fatalf("failed to get recent messages: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("expected no messages, got %d", len(messages))
		}
	})

	t.Run("Recent isolates users from each other", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.History().Append(ctx, "user-5a", types.RoleUser, "mine"); err != nil {
			t.Fatalf("failed to append message: %v", err)
		}
		if _, err := repo.History().Append(ctx, "user-5b", types.RoleUser, "yours"); err != nil {
			t.Fatalf("failed to append message: %v", err)
		}

		messages, err := repo.History().Recent(ctx, "user-5a", 10)
		if err != nil {
			t.Fatalf("failed to get recent messages: %v", err)
		}
		if len(messages) != 1 || messages[0].Content != "mine" {
			t.Errorf("expected only user-5a messages, got %+v", messages)
		}
	})

	t.Run("Prune deletes messages older than the cutoff", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			if _, err := repo.History().Append(ctx, "user-6", types.RoleUser, fmt.Sprintf("msg %d", i)); err != nil {
				t.Fatalf("failed to append message: %v", err)
			}
		}

		// Cutoff in the past keeps everything
		deleted, err := repo.History().Prune(ctx, time.Now().UTC().Add(-time.Hour))
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if deleted != 0 {
			t.Errorf("expected 0 deleted, got %d", deleted)
		}

		// Cutoff in the future deletes everything
		deleted, err = repo.History().Prune(ctx, time.Now().UTC().Add(time.Hour))
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if deleted != 3 {
			t.Errorf("expected 3 deleted, got %d", deleted)
		}

		messages, err := repo.History().Recent(ctx, "user-6", 10)
		if err != nil {
			t.Fatalf("failed to get recent messages: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("expected no messages after prune, got %d", len(messages))
		}
	})
}

func TestMemoryHistoryRepository(t *testing.T) {
	runHistoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreHistoryRepository(t *testing.T) {
	runHistoryRepositoryTest(t, newFirestoreRepository)
}
