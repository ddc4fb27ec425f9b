package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every store relies on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	staff := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("uniq_staff_username_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "alternate_handle_ci", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_staff_alternate_handle_ci"),
		},
	}
	if _, err := db.Collection(staffCollection).Indexes().CreateMany(ctx, staff); err != nil {
		return fmt.Errorf("staff indexes: %w", err)
	}

	logs := []mongo.IndexModel{
		// Site-wide recent logins (latest-first)
		{
			Keys:    bson.D{{Key: "logged_at", Value: -1}},
			Options: options.Index().SetName("idx_login_logs_logged_at"),
		},
		// Per-staff recent logins
		{
			Keys:    bson.D{{Key: "staff_id", Value: 1}, {Key: "logged_at", Value: -1}},
			Options: options.Index().SetName("idx_login_logs_staff_logged_at"),
		},
	}
	if _, err := db.Collection(loginLogsCollection).Indexes().CreateMany(ctx, logs); err != nil {
		return fmt.Errorf("login log indexes: %w", err)
	}
	return nil
}
