package comments

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores each thread as one Mongo document; comments are
// appended with $push, which preserves insertion order.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idIdx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	docIdx := mongo.IndexModel{Keys: bson.D{{Key: "documentId", Value: 1}}}
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{idIdx, docIdx})
	return &MongoRepository{col: col}
}

func (r *MongoRepository) CreateThread(ctx context.Context, th *Thread) error {
	_, err := r.col.InsertOne(ctx, th)
	return err
}

func (r *MongoRepository) AppendComment(ctx context.Context, threadID string, c *Comment) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"id": threadID}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrThreadNotFound
	}
	return nil
}

func (r *MongoRepository) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	var th Thread
	if err := r.col.FindOne(ctx, bson.M{"id": threadID}).Decode(&th); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return &th, nil
}

func (r *MongoRepository) ListByDocument(ctx context.Context, docID string) ([]*Thread, error) {
	cur, err := r.col.Find(ctx, bson.M{"documentId": docID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Thread{}
	for cur.Next(ctx) {
		var th Thread
		if err := cur.Decode(&th); err != nil {
			return nil, err
		}
		out = append(out, &th)
	}
	return out, cur.Err()
}
