package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adventureapp/adventure-api/internal/core/domain"
	"github.com/adventureapp/adventure-api/internal/core/ports"
)

const auditCollection = "audit_log"

const defaultAuditLimit = 100

type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	PrincipalID   string             `bson:"principal_id"`
	PrincipalRole string             `bson:"principal_role"`
	Action        string             `bson:"action"`
	ResourceType  string             `bson:"resource_type"`
	ResourceID    string             `bson:"resource_id,omitempty"`
	Outcome       string             `bson:"outcome"`
	Detail        string             `bson:"detail,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEntry{
		PrincipalID:   entry.PrincipalID,
		PrincipalRole: entry.PrincipalRole,
		Action:        entry.Action,
		ResourceType:  entry.ResourceType,
		ResourceID:    entry.ResourceID,
		Outcome:       string(entry.Outcome),
		Detail:        entry.Detail,
		CreatedAt:     entry.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter ports.AuditFilter) ([]*domain.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.ResourceID != "" {
		q["resource_id"] = filter.ResourceID
	}
	if filter.PrincipalID != "" {
		q["principal_id"] = filter.PrincipalID
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.AuditEntry
	for cur.Next(ctx) {
		var me mongoAuditEntry
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		out = append(out, &domain.AuditEntry{
			ID:            me.ID.Hex(),
			PrincipalID:   me.PrincipalID,
			PrincipalRole: me.PrincipalRole,
			Action:        me.Action,
			ResourceType:  me.ResourceType,
			ResourceID:    me.ResourceID,
			Outcome:       domain.AuditOutcome(me.Outcome),
			Detail:        me.Detail,
			CreatedAt:     me.CreatedAt.UTC(),
		})
	}
	return out, cur.Err()
}

// EnsureIndexes creates the audit query indexes.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "principal_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
