package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

const adventuresCollection = "adventures"

type AdventureRepository struct {
	coll *mongo.Collection
}

func NewAdventureRepository(db *mongo.Database) *AdventureRepository {
	return &AdventureRepository{coll: db.Collection(adventuresCollection)}
}

type mongoNode struct {
	Text            string    `bson:"text"`
	Options         []string  `bson:"options,omitempty"`
	Level           int       `bson:"level"`
	PrevOptionIndex *int      `bson:"prev_option_index,omitempty"`
	PrevOptionText  string    `bson:"prev_option_text,omitempty"`
	CreatedAt       time.Time `bson:"created_at"`
}

type mongoAdventure struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID          string             `bson:"owner_id"`
	Title            string             `bson:"title"`
	Synopsis         string             `bson:"synopsis"`
	Prompt           string             `bson:"prompt"`
	Perspective      string             `bson:"perspective,omitempty"`
	Language         string             `bson:"language,omitempty"`
	MaxLevels        int                `bson:"max_levels"`
	MinWordsPerLevel int                `bson:"min_words_per_level"`
	MaxWordsPerLevel int                `bson:"max_words_per_level"`
	IsPublic         bool               `bson:"is_public"`
	Status           string             `bson:"status"`
	Nodes            []mongoNode        `bson:"nodes"`
	CloneOf          string             `bson:"clone_of,omitempty"`
	ImageBucket      string             `bson:"image_bucket,omitempty"`
	ImageKey         string             `bson:"image_key,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func toMongoNode(n domain.Node) mongoNode {
	return mongoNode{
		Text:            n.Text,
		Options:         n.Options,
		Level:           n.Level,
		PrevOptionIndex: n.PrevOptionIndex,
		PrevOptionText:  n.PrevOptionText,
		CreatedAt:       n.CreatedAt,
	}
}

func (ma mongoAdventure) toDomain() *domain.Adventure {
	nodes := make([]domain.Node, 0, len(ma.Nodes))
	for _, n := range ma.Nodes {
		nodes = append(nodes, domain.Node{
			Text:            n.Text,
			Options:         n.Options,
			Level:           n.Level,
			PrevOptionIndex: n.PrevOptionIndex,
			PrevOptionText:  n.PrevOptionText,
			CreatedAt:       n.CreatedAt.UTC(),
		})
	}
	return &domain.Adventure{
		ID:               ma.ID.Hex(),
		OwnerID:          ma.OwnerID,
		Title:            ma.Title,
		Synopsis:         ma.Synopsis,
		Prompt:           ma.Prompt,
		Perspective:      ma.Perspective,
		Language:         ma.Language,
		MaxLevels:        ma.MaxLevels,
		MinWordsPerLevel: ma.MinWordsPerLevel,
		MaxWordsPerLevel: ma.MaxWordsPerLevel,
		IsPublic:         ma.IsPublic,
		Status:           domain.AdventureStatus(ma.Status),
		Nodes:            nodes,
		CloneOf:          ma.CloneOf,
		Image:            domain.ImageRef{Bucket: ma.ImageBucket, Key: ma.ImageKey},
		CreatedAt:        ma.CreatedAt.UTC(),
	}
}

func (r *AdventureRepository) Create(ctx context.Context, a *domain.Adventure) (*domain.Adventure, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	nodes := make([]mongoNode, 0, len(a.Nodes))
	for _, n := range a.Nodes {
		nodes = append(nodes, toMongoNode(n))
	}

	doc := mongoAdventure{
		OwnerID:          a.OwnerID,
		Title:            a.Title,
		Synopsis:         a.Synopsis,
		Prompt:           a.Prompt,
		Perspective:      a.Perspective,
		Language:         a.Language,
		MaxLevels:        a.MaxLevels,
		MinWordsPerLevel: a.MinWordsPerLevel,
		MaxWordsPerLevel: a.MaxWordsPerLevel,
		IsPublic:         a.IsPublic,
		Status:           string(a.Status),
		Nodes:            nodes,
		CloneOf:          a.CloneOf,
		ImageBucket:      a.Image.Bucket,
		ImageKey:         a.Image.Key,
		CreatedAt:        a.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert adventure: %w", err)
	}

	created := *a
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AdventureRepository) FindByID(ctx context.Context, id string) (*domain.Adventure, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAdventureNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAdventure
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAdventureNotFound
		}
		return nil, fmt.Errorf("find adventure: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AdventureRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Adventure, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list adventures: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Adventure
	for cur.Next(ctx) {
		var ma mongoAdventure
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode adventure: %w", err)
		}
		out = append(out, ma.toDomain())
	}
	return out, cur.Err()
}

// AppendNode pushes a node and sets the status in one update, conditional
// on the stored node count. A matched count of zero against an existing
// document means a concurrent writer got there first.
func (r *AdventureRepository) AppendNode(ctx context.Context, id string, node domain.Node, expectedLen int, status domain.AdventureStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAdventureNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":   oid,
		"nodes": bson.M{"$size": expectedLen},
	}
	update := bson.M{
		"$push": bson.M{"nodes": toMongoNode(node)},
		"$set":  bson.M{"status": string(status)},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("append node: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, oid)
	}
	return nil
}

// TruncateNodes keeps nodes[0..keepThrough] and reactivates the
// adventure, conditional on the stored node count. $push with an empty
// $each and a positive $slice trims the array in place.
func (r *AdventureRepository) TruncateNodes(ctx context.Context, id string, keepThrough int, expectedLen int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAdventureNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":   oid,
		"nodes": bson.M{"$size": expectedLen},
	}
	update := bson.M{
		"$push": bson.M{"nodes": bson.M{"$each": bson.A{}, "$slice": keepThrough + 1}},
		"$set":  bson.M{"status": string(domain.StatusActive)},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("truncate nodes: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, oid)
	}
	return nil
}

// missOrConflict disambiguates a zero-match conditional update: the
// document is either gone or its node count moved under us.
func (r *AdventureRepository) missOrConflict(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("check adventure: %w", err)
	}
	if n == 0 {
		return domain.ErrAdventureNotFound
	}
	return domain.ErrConflict
}

func (r *AdventureRepository) SetImage(ctx context.Context, id string, image domain.ImageRef) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAdventureNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"image_bucket": image.Bucket, "image_key": image.Key},
	})
	if err != nil {
		return fmt.Errorf("set adventure image: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAdventureNotFound
	}
	return nil
}

func (r *AdventureRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAdventureNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete adventure: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAdventureNotFound
	}
	return nil
}

// EnsureIndexes creates the owner listing index.
func (r *AdventureRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
