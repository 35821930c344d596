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

var profileUniqueFields = []string{"email", "rfc", "curp"}

// ProfileRepository implements ports.ProfileRepository using MongoDB.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(collectionProfiles)}
}

// Optional fields are omitted when empty so the partial unique indexes on
// rfc and curp ignore profiles without them.
type mongoProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"hashed_password"`
	Active       bool               `bson:"is_active"`
	RFC          string             `bson:"rfc,omitempty"`
	CURP         string             `bson:"curp,omitempty"`
	PostalCode   string             `bson:"cp,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Date         string             `bson:"date,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoProfile(p *domain.Profile) mongoProfile {
	return mongoProfile{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Active:       p.Active,
		RFC:          p.RFC,
		CURP:         p.CURP,
		PostalCode:   p.PostalCode,
		Phone:        p.Phone,
		Address:      p.Address,
		Date:         p.Date,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		RFC:          m.RFC,
		CURP:         m.CURP,
		PostalCode:   m.PostalCode,
		Phone:        m.Phone,
		Address:      m.Address,
		Date:         m.Date,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoProfile
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoProfile(p)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err, profileUniqueFields...)
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	oid, err := objectID(p.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoProfile(p)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err, profileUniqueFields...)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context, offset, limit int) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, page(offset, limit))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var docs []mongoProfile
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]*domain.Profile, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
