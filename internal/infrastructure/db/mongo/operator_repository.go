package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// OperatorRepository implements ports.OperatorRepository using MongoDB.
type OperatorRepository struct {
	coll *mongo.Collection
}

func NewOperatorRepository(db *mongo.Database) *OperatorRepository {
	return &OperatorRepository{coll: db.Collection(collectionOperators)}
}

type mongoOperator struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"hashed_password"`
	Role         string             `bson:"role"`
	Active       bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoOperator(op *domain.Operator) mongoOperator {
	return mongoOperator{
		Name:         op.Name,
		Email:        op.Email,
		PasswordHash: op.PasswordHash,
		Role:         string(op.Role),
		Active:       op.Active,
		CreatedAt:    op.CreatedAt,
		UpdatedAt:    op.UpdatedAt,
	}
}

func (m mongoOperator) toDomain() *domain.Operator {
	return &domain.Operator{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *OperatorRepository) FindByID(ctx context.Context, id string) (*domain.Operator, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *OperatorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoOperator
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OperatorRepository) Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoOperator(op)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err, "email")
		}
		return nil, fmt.Errorf("insert operator: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *OperatorRepository) Update(ctx context.Context, op *domain.Operator) (*domain.Operator, error) {
	oid, err := objectID(op.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoOperator(op)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err, "email")
		}
		return nil, fmt.Errorf("update operator: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *OperatorRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete operator: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OperatorRepository) List(ctx context.Context, offset, limit int) ([]*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, page(offset, limit))
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	var docs []mongoOperator
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}

	out := make([]*domain.Operator, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
