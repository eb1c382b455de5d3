package repository

import (
	"context"
	"time"

	"github.com/codocs/codocs/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for documents.
// The unique sparse index on accessCode makes SetAccessCode atomic with
// respect to the system-wide code uniqueness invariant.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idIdx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	codeIdx := mongo.IndexModel{Keys: bson.D{{Key: "accessCode", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)}
	ownerIdx := mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}}}
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{idIdx, codeIdx, ownerIdx})
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, doc *document.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	_, err := m.col.InsertOne(ctx, doc)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error) {
	cur, err := m.col.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, upd document.Update) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) SetAccessCode(ctx context.Context, id, code string) error {
	set := bson.M{"accessCode": code, "updatedAt": time.Now().UTC()}
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCodeTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) FindByCode(ctx context.Context, code string) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOne(ctx, bson.M{"accessCode": code}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) AddCollaborator(ctx context.Context, id, userID string) error {
	update := bson.M{
		"$addToSet": bson.M{"collaborators": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
