package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/staff-portal/internal/domain"
)

type credentialDoc struct {
	StaffID      string    `bson:"_id"`
	PasswordHash string    `bson:"password_hash"`
	ChangedAt    time.Time `bson:"changed_at"`
}

// CredentialStore keys overrides by staff id, so an upsert replaces the previous hash.
type CredentialStore struct {
	c *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{c: db.Collection(credentialsCollection)}
}

func (s *CredentialStore) Set(ctx context.Context, staffID, passwordHash string, changedAt time.Time) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": staffID},
		bson.M{"$set": bson.M{"password_hash": passwordHash, "changed_at": changedAt.UTC()}},
		options.Update().SetUpsert(true),
	)
	return mapMongoError(err)
}

func (s *CredentialStore) Get(ctx context.Context, staffID string) (*domain.CredentialOverride, error) {
	var doc credentialDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": staffID}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return &domain.CredentialOverride{
		StaffID:      doc.StaffID,
		PasswordHash: doc.PasswordHash,
		ChangedAt:    doc.ChangedAt,
	}, nil
}

func (s *CredentialStore) Delete(ctx context.Context, staffID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": staffID})
	return mapMongoError(err)
}

func (s *CredentialStore) DeleteAll(ctx context.Context) error {
	_, err := s.c.DeleteMany(ctx, bson.M{})
	return mapMongoError(err)
}
