package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/repository"
)

type loginLogDoc struct {
	ID              string    `bson:"_id"`
	StaffID         string    `bson:"staff_id"`
	Username        string    `bson:"username"`
	Name            string    `bson:"name"`
	Role            string    `bson:"role"`
	LoginMethod     string    `bson:"login_method"`
	SubmittedHandle string    `bson:"submitted_handle"`
	Timestamp       time.Time `bson:"logged_at"`
	SourceAddress   string    `bson:"source_address,omitempty"`
}

// LoginLogStore implements repository.LoginLogRepository.
type LoginLogStore struct {
	c *mongo.Collection
}

func NewLoginLogStore(db *mongo.Database) *LoginLogStore {
	return &LoginLogStore{c: db.Collection(loginLogsCollection)}
}

func (s *LoginLogStore) Append(ctx context.Context, entry *domain.LoginLogEntry) error {
	doc := loginLogDoc{
		ID:              entry.ID,
		StaffID:         entry.StaffID,
		Username:        entry.Username,
		Name:            entry.Name,
		Role:            string(entry.Role),
		LoginMethod:     string(entry.LoginMethod),
		SubmittedHandle: entry.SubmittedHandle,
		Timestamp:       entry.Timestamp.UTC(),
		SourceAddress:   entry.SourceAddress,
	}
	_, err := s.c.InsertOne(ctx, doc)
	return mapMongoError(err)
}

func (s *LoginLogStore) List(ctx context.Context, filter repository.LoginLogFilter) ([]domain.LoginLogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "logged_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.c.Find(ctx, toQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []loginLogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.LoginLogEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.LoginLogEntry{
			ID:              d.ID,
			StaffID:         d.StaffID,
			Username:        d.Username,
			Name:            d.Name,
			Role:            domain.StaffRole(d.Role),
			LoginMethod:     domain.LoginMethod(d.LoginMethod),
			SubmittedHandle: d.SubmittedHandle,
			Timestamp:       d.Timestamp,
			SourceAddress:   d.SourceAddress,
		})
	}
	return out, nil
}

func (s *LoginLogStore) Count(ctx context.Context, filter repository.LoginLogFilter) (int64, error) {
	return s.c.CountDocuments(ctx, toQuery(filter))
}

func (s *LoginLogStore) DeleteAll(ctx context.Context) error {
	_, err := s.c.DeleteMany(ctx, bson.M{})
	return err
}

func toQuery(filter repository.LoginLogFilter) bson.M {
	q := bson.M{}
	if filter.StaffID != "" {
		q["staff_id"] = filter.StaffID
	}
	if !filter.Since.IsZero() {
		q["logged_at"] = bson.M{"$gte": filter.Since.UTC()}
	}
	return q
}
