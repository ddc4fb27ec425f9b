// Package mongodb stores staff, credential overrides and login logs in MongoDB.
package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository"
)

const (
	staffCollection       = "staff_members"
	credentialsCollection = "credential_overrides"
	loginLogsCollection   = "login_logs"
)

// NewSet returns Mongo-backed repositories over db.
func NewSet(db *mongo.Database) repository.Set {
	return repository.Set{
		Staff:       NewStaffStore(db),
		Credentials: NewCredentialStore(db),
		LoginLogs:   NewLoginLogStore(db),
	}
}

// staffDoc carries lower-cased copies of the login identifiers so lookups can use an index.
type staffDoc struct {
	ID                string    `bson:"_id"`
	Username          string    `bson:"username"`
	UsernameCI        string    `bson:"username_ci"`
	AlternateHandle   string    `bson:"alternate_handle,omitempty"`
	AlternateHandleCI string    `bson:"alternate_handle_ci,omitempty"`
	Email             string    `bson:"email"`
	Name              string    `bson:"name"`
	Role              string    `bson:"role"`
	Department        string    `bson:"department"`
	Status            string    `bson:"status"`
	PasswordHash      string    `bson:"password_hash"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (d staffDoc) toDomain() *domain.StaffMember {
	return &domain.StaffMember{
		ID:              d.ID,
		Username:        d.Username,
		AlternateHandle: d.AlternateHandle,
		Email:           d.Email,
		Name:            d.Name,
		Role:            domain.StaffRole(d.Role),
		Department:      d.Department,
		Status:          domain.StaffStatus(d.Status),
		PasswordHash:    d.PasswordHash,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// StaffStore implements repository.StaffRepository.
type StaffStore struct {
	c *mongo.Collection
}

func NewStaffStore(db *mongo.Database) *StaffStore {
	return &StaffStore{c: db.Collection(staffCollection)}
}

func (s *StaffStore) Create(ctx context.Context, staff *domain.StaffMember) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	if staff.Status == "" {
		staff.Status = domain.StaffStatusActive
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	staff.CreatedAt = now
	staff.UpdatedAt = now

	doc := staffDoc{
		ID:                staff.ID,
		Username:          staff.Username,
		UsernameCI:        fold(staff.Username),
		AlternateHandle:   staff.AlternateHandle,
		AlternateHandleCI: fold(staff.AlternateHandle),
		Email:             staff.Email,
		Name:              staff.Name,
		Role:              string(staff.Role),
		Department:        staff.Department,
		Status:            string(staff.Status),
		PasswordHash:      staff.PasswordHash,
		CreatedAt:         staff.CreatedAt,
		UpdatedAt:         staff.UpdatedAt,
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err)
	}
	return nil
}

func (s *StaffStore) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *StaffStore) GetByUsername(ctx context.Context, username string) (*domain.StaffMember, error) {
	return s.findOne(ctx, bson.M{"username_ci": fold(username)})
}

func (s *StaffStore) GetByAlternateHandle(ctx context.Context, handle string) (*domain.StaffMember, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, repository.ErrNotFound
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.findOne(ctx, bson.M{"alternate_handle_ci": fold(handle)}, opts)
}

func (s *StaffStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.StaffMember, error) {
	var doc staffDoc
	if err := s.c.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	return doc.toDomain(), nil
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrConflict
	default:
		return err
	}
}
