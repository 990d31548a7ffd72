package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const messagesCollection = "messages"

type historyRepository struct {
	client           *firestore.Client
	profiles         *profileRepository
	collectionPrefix string
}

var _ interfaces.HistoryRepository = &historyRepository{}

func newHistoryRepository(client *firestore.Client, profiles *profileRepository) *historyRepository {
	return &historyRepository{client: client, profiles: profiles}
}

// messageDoc is the Firestore persistence model
type messageDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *historyRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + messagesCollection)
	}
	return r.client.Collection(messagesCollection)
}

func toMessageDoc(m *model.Message) *messageDoc {
	return &messageDoc{
		ID:        string(m.ID),
		UserID:    string(m.UserID),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func fromMessageDoc(doc *messageDoc) *model.Message {
	return &model.Message{
		ID:        types.MessageID(doc.ID),
		UserID:    types.UserID(doc.UserID),
		Role:      types.Role(doc.Role),
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}

func (r *historyRepository) Append(ctx context.Context, userID types.UserID, role types.Role, content string) (*model.Message, error) {
	now := time.Now().UTC()
	msg := model.NewMessage(userID, role, content, now)

	// Create (not Set) on a fresh UUID: a retried write can never silently
	// duplicate a message. The counter update follows the durable message
	// write; a crash in between drifts the counter by at most one.
	ref := r.collection().Doc(string(msg.ID))
	if _, err := ref.Create(ctx, toMessageDoc(msg)); err != nil {
		return nil, wrapUnavailable(err, "failed to append message",
			goerr.V("user_id", userID),
			goerr.V("message_id", msg.ID))
	}

	if err := r.profiles.incrementMessages(ctx, userID, now); err != nil {
		return nil, err
	}

	return msg, nil
}

func (r *historyRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 10
	}

	iter := r.collection().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var newestFirst []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapUnavailable(err, "failed to iterate messages", goerr.V("user_id", userID))
		}

		var msgDoc messageDoc
		if err := doc.DataTo(&msgDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("doc_id", doc.Ref.ID))
		}
		newestFirst = append(newestFirst, fromMessageDoc(&msgDoc))
	}

	// Query returns newest-first; callers need chronological order
	messages := make([]*model.Message, len(newestFirst))
	for i, m := range newestFirst {
		messages[len(newestFirst)-1-i] = m
	}

	return messages, nil
}

func (r *historyRepository) Prune(ctx context.Context, before time.Time) (int, error) {
	const batchSize = 500
	totalDeleted := 0

	for {
		query := r.collection().
			Where("created_at", "<", before).
			Limit(batchSize)

		iter := query.Documents(ctx)
		bulkWriter := r.client.BulkWriter(ctx)
		count := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				bulkWriter.End()
				return totalDeleted, wrapUnavailable(err, "failed to iterate messages for pruning")
			}

			if _, err := bulkWriter.Delete(doc.Ref); err != nil {
				iter.Stop()
				bulkWriter.End()
				return totalDeleted, wrapUnavailable(err, "failed to delete message")
			}
			count++
		}
		iter.Stop()
		bulkWriter.End()

		if count == 0 {
			break
		}
		totalDeleted += count

		if count < batchSize {
			break
		}
	}

	return totalDeleted, nil
}
