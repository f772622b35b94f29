package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/craftplan/pkg/planner"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "craftplan"
	DefaultMongoCollection = "plans"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string // default: craftplan
	Collection string // default: plans
}

// MongoStore keeps records in a MongoDB collection. Plans are stored as a
// JSON payload so exact rationals keep their string form.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	ID            string    `bson:"_id"`
	CreatedAt     time.Time `bson:"created_at"`
	Target        string    `bson:"target"`
	Policy        string    `bson:"policy"`
	BaseMaterials []string  `bson:"base_materials,omitempty"`
	Plan          string    `bson:"plan"`
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

func toMongo(r *Record) (*mongoRecord, error) {
	plan, err := json.Marshal(r.Plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return &mongoRecord{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Target:        r.Target,
		Policy:        r.Policy,
		BaseMaterials: r.BaseMaterials,
		Plan:          string(plan),
	}, nil
}

func fromMongo(m *mongoRecord) (*Record, error) {
	var p planner.ProductionPlan
	if err := json.Unmarshal([]byte(m.Plan), &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", m.ID, err)
	}
	return restore(&Record{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		Target:        m.Target,
		Policy:        m.Policy,
		BaseMaterials: m.BaseMaterials,
		Plan:          &p,
	}), nil
}

func (s *MongoStore) Save(ctx context.Context, r *Record) error {
	doc, err := toMongo(r)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return fromMongo(&doc)
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}

	out := make([]*Record, 0, len(docs))
	for i := range docs {
		r, err := fromMongo(&docs[i])
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
