// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv names the variable that enables Mongo-backed tests.
const MongoURIEnv = "MONGO_TEST_URI"

const testDBName = "staff_portal_test"

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

func getClient(uri string) (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(50).
			SetConnectTimeout(10 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)

		client, clientErr = mongo.Connect(ctx, opts)
		if clientErr != nil {
			return
		}
		clientErr = client.Ping(ctx, nil)
	})
	return client, clientErr
}

// SetupMongoDB returns an empty database unique to the calling test and drops it
// on cleanup. The test is skipped when MONGO_TEST_URI is unset.
func SetupMongoDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set", MongoURIEnv)
	}

	client, err := getClient(uri)
	if err != nil {
		t.Fatalf("failed to connect to test MongoDB: %v", err)
	}

	db := client.Database(fmt.Sprintf("%s_%s", testDBName, sanitizeTestName(t.Name())))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("failed to drop test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop test database on cleanup: %v", err)
		}
	})
	return db
}

// sanitizeTestName keeps database names within Mongo's 63 character limit.
func sanitizeTestName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	const maxLen = 45
	if len(result) > maxLen {
		result = result[:maxLen]
	}
	return string(result)
}

// TestContext returns a context with a timeout suited to integration tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
