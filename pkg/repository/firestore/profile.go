package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ProfileRepository = &profileRepository{}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{client: client}
}

// userProfileDoc is the Firestore persistence model
type userProfileDoc struct {
	ID            string            `firestore:"id"`
	CreatedAt     time.Time         `firestore:"created_at"`
	LastActiveAt  time.Time         `firestore:"last_active_at"`
	Name          string            `firestore:"name"`
	Age           int               `firestore:"age"`
	Location      string            `firestore:"location"`
	Interests     []string          `firestore:"interests"`
	Preferences   map[string]string `firestore:"preferences"`
	Facts         []string          `firestore:"facts"`
	TotalMessages int64             `firestore:"total_messages"`
}

func (r *profileRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + usersCollection)
	}
	return r.client.Collection(usersCollection)
}

func toProfileDoc(p *model.UserProfile) *userProfileDoc {
	return &userProfileDoc{
		ID:            string(p.ID),
		CreatedAt:     p.CreatedAt,
		LastActiveAt:  p.LastActiveAt,
		Name:          p.Name,
		Age:           p.Age,
		Location:      p.Location,
		Interests:     p.Interests,
		Preferences:   p.Preferences,
		Facts:         p.Facts,
		TotalMessages: p.TotalMessages,
	}
}

func fromProfileDoc(doc *userProfileDoc) *model.UserProfile {
	prefs := doc.Preferences
	if prefs == nil {
		prefs = map[string]string{}
	}
	return &model.UserProfile{
		ID:            types.UserID(doc.ID),
		CreatedAt:     doc.CreatedAt,
		LastActiveAt:  doc.LastActiveAt,
		Name:          doc.Name,
		Age:           doc.Age,
		Location:      doc.Location,
		Interests:     doc.Interests,
		Preferences:   prefs,
		Facts:         doc.Facts,
		TotalMessages: doc.TotalMessages,
	}
}

// ensure creates the default profile document when it does not exist yet.
// Create carries an exists-precondition, so the second writer of a
// concurrent first-access race fails with AlreadyExists and both proceed
// against the single stored record.
func (r *profileRepository) ensure(ctx context.Context, userID types.UserID, now time.Time) error {
	ref := r.collection().Doc(string(userID))
	_, err := ref.Create(ctx, toProfileDoc(model.NewUserProfile(userID, now)))
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return wrapUnavailable(err, "failed to create user profile", goerr.V("user_id", userID))
	}
	return nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	now := time.Now().UTC()
	ref := r.collection().Doc(string(userID))

	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, wrapUnavailable(err, "failed to get user profile", goerr.V("user_id", userID))
		}
		if err := r.ensure(ctx, userID, now); err != nil {
			return nil, err
		}
		if doc, err = ref.Get(ctx); err != nil {
			return nil, wrapUnavailable(err, "failed to get user profile after create", goerr.V("user_id", userID))
		}
	}

	var profileDoc userProfileDoc
	if err := doc.DataTo(&profileDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user profile", goerr.V("user_id", userID))
	}

	if _, err := ref.Update(ctx, []firestore.Update{
		{Path: "last_active_at", Value: now},
	}); err != nil {
		return nil, wrapUnavailable(err, "failed to touch user profile", goerr.V("user_id", userID))
	}

	profile := fromProfileDoc(&profileDoc)
	profile.LastActiveAt = now
	return profile, nil
}

func (r *profileRepository) ApplyUpdate(ctx context.Context, userID types.UserID, update *model.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	now := time.Now().UTC()
	if err := r.ensure(ctx, userID, now); err != nil {
		return err
	}

	updates := []firestore.Update{
		{Path: "last_active_at", Value: now},
	}
	if update.Name != "" {
		updates = append(updates, firestore.Update{Path: "name", Value: update.Name})
	}
	if update.Age != 0 {
		updates = append(updates, firestore.Update{Path: "age", Value: update.Age})
	}
	if update.Location != "" {
		updates = append(updates, firestore.Update{Path: "location", Value: update.Location})
	}
	if len(update.Interests) > 0 {
		values := make([]any, len(update.Interests))
		for i, v := range update.Interests {
			values[i] = v
		}
		// ArrayUnion appends in order and skips values already present,
		// matching the exact-match dedup contract
		updates = append(updates, firestore.Update{Path: "interests", Value: firestore.ArrayUnion(values...)})
	}
	if len(update.Facts) > 0 {
		values := make([]any, len(update.Facts))
		for i, v := range update.Facts {
			values[i] = v
		}
		updates = append(updates, firestore.Update{Path: "facts", Value: firestore.ArrayUnion(values...)})
	}
	for key, value := range update.Preferences {
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{"preferences", key},
			Value:     value,
		})
	}

	if _, err := r.collection().Doc(string(userID)).Update(ctx, updates); err != nil {
		return wrapUnavailable(err, "failed to update user profile", goerr.V("user_id", userID))
	}

	return nil
}

func (r *profileRepository) AppendFact(ctx context.Context, userID types.UserID, fact string) error {
	return r.ApplyUpdate(ctx, userID, &model.ProfileUpdate{Facts: []string{fact}})
}

// incrementMessages bumps total_messages for the history repository
func (r *profileRepository) incrementMessages(ctx context.Context, userID types.UserID, now time.Time) error {
	if err := r.ensure(ctx, userID, now); err != nil {
		return err
	}

	if _, err := r.collection().Doc(string(userID)).Update(ctx, []firestore.Update{
		{Path: "total_messages", Value: firestore.Increment(1)},
		{Path: "last_active_at", Value: now},
	}); err != nil {
		return wrapUnavailable(err, "failed to increment message counter", goerr.V("user_id", userID))
	}

	return nil
}
