// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// Repository is the PostgreSQL implementation of taxonomy.Repository. It
// also exposes the detail lookups and writes the HTTP handlers need.
type Repository struct {
	Topics   *TopicStore
	Blogs    *BlogStore
	Notes    *NoteStore
	Problems *ProblemStore
	Users    *UserStore
}

// NewRepository creates all stores over one connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Topics:   NewTopicStore(db),
		Blogs:    NewBlogStore(db),
		Notes:    NewNoteStore(db),
		Problems: NewProblemStore(db),
		Users:    NewUserStore(db),
	}
}

var _ taxonomy.Repository = (*Repository)(nil)

func (r *Repository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return r.Topics.ListWithCounts(ctx)
}

func (r *Repository) FindTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	return r.Topics.FindBySlug(ctx, slug)
}

func (r *Repository) FindSubTopicBySlug(ctx context.Context, topicSlug, subTopicSlug string) (*models.SubTopic, error) {
	return r.Topics.FindSubTopicBySlug(ctx, topicSlug, subTopicSlug)
}

func (r *Repository) ListBlogs(ctx context.Context, scope taxonomy.Scope) ([]models.Blog, error) {
	return r.Blogs.ListPublished(ctx, scope)
}

func (r *Repository) ListNotes(ctx context.Context, scope taxonomy.Scope) ([]models.Note, error) {
	return r.Notes.List(ctx, scope)
}

func (r *Repository) ListProblems(ctx context.Context, scope taxonomy.Scope) ([]models.Problem, error) {
	return r.Problems.List(ctx, scope)
}

func (r *Repository) FindBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return r.Blogs.FindPublishedByID(ctx, id)
}

func (r *Repository) FindNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	return r.Notes.FindByID(ctx, id)
}

func (r *Repository) FindProblem(ctx context.Context, id uuid.UUID) (*models.Problem, error) {
	return r.Problems.FindByID(ctx, id)
}

func (r *Repository) NextTopicOrder(ctx context.Context) (int, error) {
	return r.Topics.NextTopicOrder(ctx)
}

func (r *Repository) NextSubTopicOrder(ctx context.Context, topicID uuid.UUID) (int, error) {
	return r.Topics.NextSubTopicOrder(ctx, topicID)
}

func (r *Repository) CreateTopic(ctx context.Context, t *models.Topic) (*models.Topic, error) {
	return r.Topics.Create(ctx, t)
}

func (r *Repository) CreateSubTopic(ctx context.Context, st *models.SubTopic) (*models.SubTopic, error) {
	return r.Topics.CreateSubTopic(ctx, st)
}

func (r *Repository) CreateBlog(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	return r.Blogs.Create(ctx, b)
}

func (r *Repository) CreateNote(ctx context.Context, n *models.Note) (*models.Note, error) {
	return r.Notes.Create(ctx, n)
}

func (r *Repository) CreateProblem(ctx context.Context, p *models.Problem) (*models.Problem, error) {
	return r.Problems.Create(ctx, p)
}
