package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/tbourn/spamzero-backend/internal/domain"
)

// HistoryCollection is the MongoDB collection holding history documents.
const HistoryCollection = "history"

// MongoStore is the MongoDB-backed history store handle. One client is
// connected at startup and shared by all requests until Close.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, verifies the deployment is reachable, and
// ensures the createdAt index on the history collection of database dbName.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo: empty connection string")
	}
	opts := options.Client().
		ApplyURI(uri).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(dbName).Collection(HistoryCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: domain.FieldCreatedAt, Value: -1}, {Key: domain.FieldMongoID, Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Insert stores the record document with its _id and createdAt.
func (s *MongoStore) Insert(ctx context.Context, rec domain.HistoryRecord) error {
	doc, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.coll.InsertOne(ctx, doc)
	return err
}

// List returns all documents sorted by createdAt descending.
func (s *MongoStore) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: domain.FieldCreatedAt, Value: -1},
		{Key: domain.FieldMongoID, Value: -1},
	})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.HistoryRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeRecord(d))
	}
	return out, nil
}

// Delete removes the document with the given hex id.
func (s *MongoStore) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{domain.FieldMongoID: oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAll removes every document in the collection.
func (s *MongoStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// encodeRecord converts a record into the BSON document written to MongoDB.
func encodeRecord(rec domain.HistoryRecord) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("mongo: record id %q: %w", rec.ID, err)
	}
	doc := make(bson.M, len(rec.Fields)+2)
	for k, v := range rec.Fields {
		doc[k] = v
	}
	doc[domain.FieldMongoID] = oid
	doc[domain.FieldCreatedAt] = rec.CreatedAt.UTC()
	return doc, nil
}

// decodeRecord converts a stored document back into a record with plain JSON
// values. Documents written by other clients may carry a string _id or a
// missing createdAt; both are tolerated.
func decodeRecord(doc bson.M) domain.HistoryRecord {
	var id string
	switch v := doc[domain.FieldMongoID].(type) {
	case primitive.ObjectID:
		id = v.Hex()
	case string:
		id = v
	case nil:
	default:
		id = fmt.Sprint(v)
	}

	var created time.Time
	switch v := doc[domain.FieldCreatedAt].(type) {
	case primitive.DateTime:
		created = v.Time()
	case time.Time:
		created = v
	}

	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		fields[k] = normalizeBSON(v)
	}
	return domain.RestoreHistoryRecord(id, fields, created)
}

// normalizeBSON maps driver-specific BSON values onto the types encoding/json
// produces, recursing into documents and arrays.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = normalizeBSON(vv)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = normalizeBSON(vv)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	case bson.A:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = normalizeBSON(vv)
		}
		return s
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = normalizeBSON(vv)
		}
		return s
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	case primitive.Binary:
		return t.Data
	default:
		return v
	}
}
