package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ziadkadry99/pagecraft/internal/project"
)

const collectionName = "projects"

// MongoStore is the MongoDB Repository. Pages are kept as a JSON string so
// prop values round-trip exactly as the editor sent them.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoProject struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Pages     string    `bson:"pages,omitempty"`
	PageCount int       `bson:"page_count"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and uses the projects collection of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

// Create stores a new project owned by userID and returns its id.
func (m *MongoStore) Create(ctx context.Context, userID string, snap project.Snapshot) (string, error) {
	pages, err := encodePages(snap.Pages)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	doc := mongoProject{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      snap.Name,
		Pages:     pages,
		PageCount: len(snap.Pages),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("inserting project: %w", err)
	}
	return doc.ID, nil
}

// Load returns the stored snapshot of a project.
func (m *MongoStore) Load(ctx context.Context, projectID, userID string) (project.Snapshot, error) {
	doc, err := m.find(ctx, projectID)
	if err != nil {
		return project.Snapshot{}, err
	}
	if err := checkOwner(doc.UserID, userID); err != nil {
		return project.Snapshot{}, err
	}
	pages, err := decodePages(doc.Pages)
	if err != nil {
		return project.Snapshot{}, err
	}
	return project.Snapshot{Name: doc.Name, Pages: pages}, nil
}

// Save replaces the stored snapshot of a project.
func (m *MongoStore) Save(ctx context.Context, projectID, userID string, snap project.Snapshot) error {
	doc, err := m.find(ctx, projectID)
	if err != nil {
		return err
	}
	if err := checkOwner(doc.UserID, userID); err != nil {
		return err
	}
	pages, err := encodePages(snap.Pages)
	if err != nil {
		return err
	}
	setDoc := bson.M{
		"name":       snap.Name,
		"pages":      pages,
		"page_count": len(snap.Pages),
		"updated_at": time.Now().UTC(),
	}
	if _, err := m.coll.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": setDoc}); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// List returns the projects of a user, most recently updated first.
func (m *MongoStore) List(ctx context.Context, userID string) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"pages": 0})
	cursor, err := m.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	var docs []mongoProject
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading projects: %w", err)
	}

	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, Summary{
			ID:        d.ID,
			UserID:    d.UserID,
			Name:      d.Name,
			PageCount: d.PageCount,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return out, nil
}

// Delete removes a project.
func (m *MongoStore) Delete(ctx context.Context, projectID, userID string) error {
	doc, err := m.find(ctx, projectID)
	if err != nil {
		return err
	}
	if err := checkOwner(doc.UserID, userID); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": projectID}); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) find(ctx context.Context, projectID string) (mongoProject, error) {
	var doc mongoProject
	err := m.coll.FindOne(ctx, bson.M{"_id": projectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("loading project: %w", err)
	}
	return doc, nil
}
