package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Mongo implements Collection on top of a MongoDB collection.
type Mongo struct {
	col *mongo.Collection
}

// NewMongo wraps an existing mongo collection handle.
func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

// FindByIDs returns the documents whose _id is in ids.
func (m *Mongo) FindByIDs(ctx context.Context, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := m.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// InsertMany inserts docs as one bulk write.
func (m *Mongo) InsertMany(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	_, err := m.col.InsertMany(ctx, payload)
	return err
}

// BulkSet applies ops as one bulk write of upserting $set updates.
// Field keys are namespaced under the data payload.
func (m *Mongo) BulkSet(ctx context.Context, ops []SetOp) error {
	if len(ops) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(ops))
	for i, op := range ops {
		set := bson.M{}
		for k, v := range op.Fields {
			set["data."+k] = v
		}
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": op.ID}).
			SetUpdate(bson.M{"$set": set}).
			SetUpsert(true)
	}
	_, err := m.col.BulkWrite(ctx, models)
	return err
}

// EnsureIndex creates an ascending index on the named data field.
func (m *Mongo) EnsureIndex(ctx context.Context, field string) error {
	model := mongo.IndexModel{Keys: bson.D{{Key: "data." + field, Value: 1}}}
	_, err := m.col.Indexes().CreateOne(ctx, model)
	return err
}

// Drop removes the collection.
func (m *Mongo) Drop(ctx context.Context) error {
	return m.col.Drop(ctx)
}
