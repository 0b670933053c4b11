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
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

const apiKeysCollection = "api_keys"

type APIKeyRepository struct {
	coll *mongo.Collection
}

func NewAPIKeyRepository(db *mongo.Database) *APIKeyRepository {
	return &APIKeyRepository{coll: db.Collection(apiKeysCollection)}
}

type mongoAPIKey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	KeyHash   string             `bson:"key_hash"`
	Scopes    []string           `bson:"scopes,omitempty"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt time.Time          `bson:"created_at"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty"`
	LastUsed  *time.Time         `bson:"last_used,omitempty"`
}

func (mk mongoAPIKey) toDomain() *domain.APIKey {
	return &domain.APIKey{
		ID:        mk.ID.Hex(),
		Name:      mk.Name,
		KeyHash:   mk.KeyHash,
		Scopes:    mk.Scopes,
		IsActive:  mk.IsActive,
		CreatedAt: mk.CreatedAt.UTC(),
		ExpiresAt: mk.ExpiresAt,
		LastUsed:  mk.LastUsed,
	}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *domain.APIKey) (*domain.APIKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAPIKey{
		Name:      key.Name,
		KeyHash:   key.KeyHash,
		Scopes:    key.Scopes,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
		ExpiresAt: key.ExpiresAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert api key: %w", err)
	}

	created := *key
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *APIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mk mongoAPIKey
	if err := r.coll.FindOne(ctx, bson.M{"key_hash": keyHash}).Decode(&mk); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("find api key by hash: %w", err)
	}
	return mk.toDomain(), nil
}

func (r *APIKeyRepository) FindByID(ctx context.Context, id string) (*domain.APIKey, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrKeyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mk mongoAPIKey
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mk); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("find api key: %w", err)
	}
	return mk.toDomain(), nil
}

func (r *APIKeyRepository) List(ctx context.Context) ([]*domain.APIKey, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.APIKey
	for cur.Next(ctx) {
		var mk mongoAPIKey
		if err := cur.Decode(&mk); err != nil {
			return nil, fmt.Errorf("decode api key: %w", err)
		}
		out = append(out, mk.toDomain())
	}
	return out, cur.Err()
}

func (r *APIKeyRepository) Update(ctx context.Context, id string, update ports.APIKeyUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrKeyNotFound
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Scopes != nil {
		set["scopes"] = update.Scopes
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update api key: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrKeyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"last_used": at}})
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrKeyNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

// EnsureIndexes creates the unique hash index used by credential lookup.
func (r *APIKeyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key_hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
