// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// recordColumns selects the fields shared by every content kind. The
// content table must be aliased as c and joined to users as u.
const recordColumns = `c.id, c.title, c.author_id, u.name, c.topic_id, c.sub_topic_id, c.created_at, c.updated_at`

func recordDest(r *models.Record) []any {
	return []any{&r.ID, &r.Title, &r.AuthorID, &r.Author.Name, &r.TopicID, &r.SubTopicID, &r.CreatedAt, &r.UpdatedAt}
}

// BlogStore handles blog database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

// ListPublished returns published blogs in scope, newest first. The body is
// left empty; use FindPublishedByID for the full article.
func (s *BlogStore) ListPublished(ctx context.Context, scope taxonomy.Scope) ([]models.Blog, error) {
	conds, args := scopeWhere(scope, "c", []string{"c.published"}, nil)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`, c.slug, c.excerpt, c.category, c.read_time, c.published
		FROM blogs c JOIN users u ON u.id = c.author_id
		`+whereClause(conds)+`
		ORDER BY c.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	blogs := []models.Blog{}
	for rows.Next() {
		var b models.Blog
		dest := append(recordDest(&b.Record), &b.Slug, &b.Excerpt, &b.Category, &b.ReadTime, &b.Published)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// FindPublishedByID retrieves a published blog with its body. Returns nil
// if not found or unpublished.
func (s *BlogStore) FindPublishedByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	b := &models.Blog{}
	dest := append(recordDest(&b.Record), &b.Slug, &b.Excerpt, &b.Content, &b.Category, &b.ReadTime, &b.Published)
	err := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`, c.slug, c.excerpt, c.content, c.category, c.read_time, c.published
		FROM blogs c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.published
	`, id).Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// Create inserts a new blog. Returns ErrDuplicateSlug if the slug is taken.
func (s *BlogStore) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	result := *b
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO blogs (title, slug, excerpt, content, category, read_time, published,
		                   author_id, topic_id, sub_topic_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, b.Title, b.Slug, b.Excerpt, b.Content, b.Category, b.ReadTime, b.Published,
		b.AuthorID, b.TopicID, b.SubTopicID,
	).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, mapInsertErr("create blog", err)
	}
	return &result, nil
}

// NoteStore handles note database operations.
type NoteStore struct {
	db *sql.DB
}

// NewNoteStore creates a new NoteStore with the given database connection.
func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

// List returns notes in scope, newest first.
func (s *NoteStore) List(ctx context.Context, scope taxonomy.Scope) ([]models.Note, error) {
	conds, args := scopeWhere(scope, "c", nil, nil)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`, c.content
		FROM notes c JOIN users u ON u.id = c.author_id
		`+whereClause(conds)+`
		ORDER BY c.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(append(recordDest(&n.Record), &n.Content)...); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// FindByID retrieves a note. Returns nil if not found.
func (s *NoteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	n := &models.Note{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`, c.content
		FROM notes c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id).Scan(append(recordDest(&n.Record), &n.Content)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find note by id: %w", err)
	}
	return n, nil
}

// Create inserts a new note.
func (s *NoteStore) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	result := *n
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notes (title, content, author_id, topic_id, sub_topic_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, n.Title, n.Content, n.AuthorID, n.TopicID, n.SubTopicID,
	).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &result, nil
}
