package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/repository/firestore"
	"github.com/secmon-lab/mnemos/pkg/repository/memory"
)

func runProfileRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetOrCreate returns a fresh default profile", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		profile, err := repo.Profile().GetOrCreate(ctx, "user-1")
		if err != nil {
			t.Fatalf("failed to get or create profile: %v", err)
		}

		if profile.ID != "user-1" {
			t.Errorf("expected ID user-1, got %s", profile.ID)
		}
		if profile.Name != "" || profile.Age != 0 || profile.Location != "" {
			t.Errorf("expected empty identity fields, got %+v", profile)
		}
		if len(profile.Interests) != 0 || len(profile.Facts) != 0 {
			t.Errorf("expected empty interests and facts, got %+v", profile)
		}
		if profile.TotalMessages != 0 {
			t.Errorf("expected 0 total messages, got %d", profile.TotalMessages)
		}
		if profile.CreatedAt.IsZero() || profile.LastActiveAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("GetOrCreate returns the existing profile on repeat calls", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		update := &model.ProfileUpdate{Name: "Alex"}
		if err := repo.Profile().ApplyUpdate(ctx, "user-2", update); err != nil {
			t.Fatalf("failed to apply update: %v", err)
		}

		profile, err := repo.Profile().GetOrCreate(ctx, "user-2")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if profile.Name != "Alex" {
			t.Errorf("expected name Alex, got %q", profile.Name)
		}
	})

	t.Run("ApplyUpdate ignores zero-value fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Profile().ApplyUpdate(ctx, "user-3", &model.ProfileUpdate{Name: "Sam", Age: 30}); err != nil {
			t.Fatalf("failed to apply update: %v", err)
		}
		if err := repo.Profile().ApplyUpdate(ctx, "user-3", &model.ProfileUpdate{Location: "Osaka"}); err != nil {
			t.Fatalf("failed to apply second update: %v", err)
		}

		profile, err := repo.Profile().GetOrCreate(ctx, "user-3")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if profile.Name != "Sam" {
			t.Errorf("expected name Sam to survive, got %q", profile.Name)
		}
		if profile.Age != 30 {
			t.Errorf("expected age 30 to survive, got %d", profile.Age)
		}
		if profile.Location != "Osaka" {
			t.Errorf("expected location Osaka, got %q", profile.Location)
		}
	})

	t.Run("ApplyUpdate deduplicates interests and facts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := &model.ProfileUpdate{
			Interests: []string{"hiking", "cooking"},
			Facts:     []string{"has a dog"},
		}
		if err := repo.Profile().ApplyUpdate(ctx, "user-4", first); err != nil {
			t.Fatalf("failed to apply update: %v", err)
		}

		second := &model.ProfileUpdate{
			Interests: []string{"hiking", "photography"},
			Facts:     []string{"has a dog"},
		}
		if err := repo.Profile().ApplyUpdate(ctx, "user-4", second); err != nil {
			t.Fatalf("failed to apply second update: %v", err)
		}

		profile, err := repo.Profile().GetOrCreate(ctx, "user-4")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if len(profile.Interests) != 3 {
			t.Errorf("expected 3 interests, got %v", profile.Interests)
		}
		if len(profile.Facts) != 1 {
			t.Errorf("expected 1 fact, got %v", profile.Facts)
		}
	})

	t.Run("ApplyUpdate overwrites preferences", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Profile().ApplyUpdate(ctx, "user-5", &model.ProfileUpdate{
			Preferences: map[string]string{"favoriteColor": "blue"},
		}); err != nil {
			t.Fatalf("failed to apply update: %v", err)
		}
		if err := repo.Profile().ApplyUpdate(ctx, "user-5", &model.ProfileUpdate{
			Preferences: map[string]string{"favoriteColor": "green"},
		}); err != nil {
			t.Fatalf("failed to apply second update: %v", err)
		}

		profile, err := repo.Profile().GetOrCreate(ctx, "user-5")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if profile.Preferences["favoriteColor"] != "green" {
			t.Errorf("expected favoriteColor green, got %q", profile.Preferences["favoriteColor"])
		}
	})

	t.Run("AppendFact adds a fact once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Profile().AppendFact(ctx, "user-6", "works remotely"); err != nil {
			t.Fatalf("failed to append fact: %v", err)
		}
		if err := repo.Profile().AppendFact(ctx, "user-6", "works remotely"); err != nil {
			t.Fatalf("failed to append fact again: %v", err)
		}

		profile, err := repo.Profile().GetOrCreate(ctx, "user-6")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		if len(profile.Facts) != 1 || profile.Facts[0] != "works remotely" {
			t.Errorf("expected single fact, got %v", profile.Facts)
		}
	})

	t.Run("returned profile is isolated from the store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		profile, err := repo.Profile().GetOrCreate(ctx, "user-7")
		if err != nil {
			t.Fatalf("failed to get profile: %v", err)
		}
		profile.Name = "Mallory"
		profile.Interests = append(profile.Interests, "tampering")

		reread, err := repo.Profile().GetOrCreate(ctx, "user-7")
		if err != nil {
			t.Fatalf("failed to re-read profile: %v", err)
		}
		if reread.Name != "" || len(reread.Interests) != 0 {
			t.Errorf("mutation of the returned profile leaked into the store: %+v", reread)
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryProfileRepository(t *testing.T) {
	runProfileRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreProfileRepository(t *testing.T) {
	runProfileRepositoryTest(t, newFirestoreRepository)
}
