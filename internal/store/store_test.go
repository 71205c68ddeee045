// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"devmastery/internal/database"
	"devmastery/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "devmastery")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "devmastery")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAuthor creates a throwaway user to own test content.
func testAuthor(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := "author-" + uuid.NewString()[:8] + "@store-test.local"
	u, err := NewUserStore(db).Create(context.Background(), email, "Store Test", models.RoleUser)
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return u
}

// testTopic creates a topic with a unique slug and one subtopic.
func testTopic(t *testing.T, db *sql.DB) (*models.Topic, *models.SubTopic) {
	t.Helper()
	ctx := context.Background()
	s := NewTopicStore(db)

	slug := "test-topic-" + uuid.NewString()[:8]
	topic, err := s.Create(ctx, &models.Topic{Name: "Test Topic", Slug: slug})
	if err != nil {
		t.Fatalf("create test topic: %v", err)
	}
	t.Cleanup(func() { cleanTopics(t, db, slug) })

	sub, err := s.CreateSubTopic(ctx, &models.SubTopic{TopicID: topic.ID, Name: "Test Sub", Slug: "sub"})
	if err != nil {
		t.Fatalf("create test subtopic: %v", err)
	}
	return topic, sub
}

// cleanUsers removes test users by email, along with their content.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		for _, table := range []string{"blogs", "notes", "leetcode_problems"} {
			db.Exec("DELETE FROM "+table+" WHERE author_id IN (SELECT id FROM users WHERE email = $1)", email)
		}
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanTopics removes test topics by slug. Subtopics cascade.
func cleanTopics(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM topics WHERE slug = $1", slug)
	}
}
