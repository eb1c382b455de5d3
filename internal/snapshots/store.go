package snapshots

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Snapshot is one saved content revision of a document. Saves are whole-document
// and last-write-wins; the history exists for recovery, not for merging.
type Snapshot struct {
	DocID   string    `bson:"docId" json:"docId"`
	Content string    `bson:"content" json:"content"`
	SavedAt time.Time `bson:"savedAt" json:"savedAt"`
}

// Store persists content snapshots in a Mongo collection. A nil Store is a
// valid no-op so callers can run without snapshot history.
type Store struct {
	col *mongo.Collection
}

func NewStore(col *mongo.Collection) *Store {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "docId", Value: 1}, {Key: "savedAt", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &Store{col: col}
}

// Record stores a snapshot of the current content.
func (s *Store) Record(ctx context.Context, docID, content string) error {
	if s == nil {
		return nil
	}
	snap := &Snapshot{DocID: docID, Content: content, SavedAt: time.Now().UTC()}
	if _, err := s.col.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// ListByDocument returns up to limit snapshots for a document, newest first.
func (s *Store) ListByDocument(ctx context.Context, docID string, limit int64) ([]*Snapshot, error) {
	if s == nil {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "savedAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.col.Find(ctx, bson.M{"docId": docID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Snapshot{}
	for cur.Next(ctx) {
		var snap Snapshot
		if err := cur.Decode(&snap); err != nil {
			return nil, err
		}
		out = append(out, &snap)
	}
	return out, cur.Err()
}
