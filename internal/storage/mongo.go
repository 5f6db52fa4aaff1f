package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"resumecanvas/internal/domain"
)

// MongoStore implements domain.ProjectGateway on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
	newID  func() string
}

type projectDoc struct {
	ID          string        `bson:"_id"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Data        string        `bson:"data"`
	Thumbnail   *thumbnailDoc `bson:"thumbnail,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

type thumbnailDoc struct {
	URL      string `bson:"url"`
	PublicID string `bson:"publicId"`
}

// OpenMongo connects to uri and uses the "projects" collection of database.
// A database name embedded in the URI path is used when database is empty.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = databaseFromURI(uri)
	}
	if database == "" {
		return nil, errors.New("connect mongo: no database name")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := NewMongoStore(client.Database(database).Collection("projects"))
	s.client = client
	return s, nil
}

// NewMongoStore wraps an existing collection. Close is a no-op for stores
// built this way.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{
		coll:  coll,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: uuid.NewString,
	}
}

func databaseFromURI(uri string) string {
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return ""
	}
	db := rest[i+1:]
	if j := strings.IndexByte(db, '?'); j >= 0 {
		db = db[:j]
	}
	return db
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func toThumbnailDoc(t *domain.Thumbnail) *thumbnailDoc {
	if t == nil || t.IsEmpty() {
		return nil
	}
	return &thumbnailDoc{URL: t.URL, PublicID: t.PublicID}
}

func (d projectDoc) record() *domain.ProjectRecord {
	rec := &domain.ProjectRecord{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Data:        json.RawMessage(d.Data),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Thumbnail != nil {
		rec.Thumbnail = &domain.Thumbnail{URL: d.Thumbnail.URL, PublicID: d.Thumbnail.PublicID}
	}
	return rec
}

func (s *MongoStore) Create(ctx context.Context, p domain.ProjectPayload) (*domain.ProjectRecord, error) {
	now := s.now()
	doc := projectDoc{
		ID:          s.newID(),
		Name:        p.Name,
		Description: p.Description,
		Data:        string(dataOrEmpty(p.Data)),
		Thumbnail:   toThumbnailDoc(p.Thumbnail),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return doc.record(), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, p domain.ProjectPayload) (*domain.ProjectRecord, error) {
	set := bson.M{
		"name":        p.Name,
		"description": p.Description,
		"data":        string(dataOrEmpty(p.Data)),
		"updatedAt":   s.now(),
	}
	update := bson.M{"$set": set}
	if t := toThumbnailDoc(p.Thumbnail); t != nil {
		set["thumbnail"] = t
	} else {
		update["$unset"] = bson.M{"thumbnail": ""}
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("update project %s: %w", id, domain.ErrNotFound)
	}
	return s.Fetch(ctx, id)
}

func (s *MongoStore) Fetch(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	var doc projectDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("fetch project %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch project %s: %w", id, err)
	}
	return doc.record(), nil
}
