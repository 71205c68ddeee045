// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory Store and a miniredis-backed response cache.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"devmastery/internal/cache"
	"devmastery/internal/middleware"
	"devmastery/internal/models"
	"devmastery/internal/store"
	"devmastery/internal/taxonomy"
)

// fakeStore is an in-memory Store. Records attached to a subtopic carry the
// parent topic id, as the PostgreSQL store does.
type fakeStore struct {
	mu       sync.Mutex
	topics   []models.Topic
	blogs    []models.Blog
	notes    []models.Note
	problems []models.Problem

	topicsErr error
	listErr   map[models.ContentKind]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{listErr: map[models.ContentKind]error{}}
}

func (f *fakeStore) addTopic(name, slug string, subs ...string) *models.Topic {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := models.Topic{ID: uuid.New(), Name: name, Slug: slug, Order: len(f.topics), SubTopics: []models.SubTopic{}}
	for i, s := range subs {
		t.SubTopics = append(t.SubTopics, models.SubTopic{ID: uuid.New(), TopicID: t.ID, Name: s, Slug: s, Order: i})
	}
	f.topics = append(f.topics, t)
	return &f.topics[len(f.topics)-1]
}

// place returns a record attached to topicSlug, and to subSlug when set.
func (f *fakeStore) place(title, topicSlug, subSlug string) models.Record {
	rec := models.Record{ID: uuid.New(), Title: title, Author: models.Author{Name: "Admin"}, CreatedAt: time.Now()}
	for _, t := range f.topics {
		if t.Slug != topicSlug {
			continue
		}
		rec.TopicID = &t.ID
		for _, s := range t.SubTopics {
			if s.Slug == subSlug {
				rec.SubTopicID = &s.ID
			}
		}
	}
	return rec
}

func (f *fakeStore) matches(rec models.Record, scope taxonomy.Scope) bool {
	switch {
	case scope.IsAll():
		return true
	case scope.IsTopic():
		t := f.topicBySlug(scope.TopicSlug())
		return t != nil && rec.TopicID != nil && *rec.TopicID == t.ID
	default:
		for _, t := range f.topics {
			if scope.TopicSlug() != "" && t.Slug != scope.TopicSlug() {
				continue
			}
			for _, s := range t.SubTopics {
				if s.Slug == scope.SubTopicSlug() && rec.SubTopicID != nil && *rec.SubTopicID == s.ID {
					return true
				}
			}
		}
		return false
	}
}

func (f *fakeStore) topicBySlug(slug string) *models.Topic {
	for i := range f.topics {
		if f.topics[i].Slug == slug {
			return &f.topics[i]
		}
	}
	return nil
}

func (f *fakeStore) ListTopics(_ context.Context) ([]models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topicsErr != nil {
		return nil, f.topicsErr
	}
	out := make([]models.Topic, len(f.topics))
	copy(out, f.topics)
	return out, nil
}

func (f *fakeStore) FindTopicBySlug(_ context.Context, slug string) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.topicBySlug(slug)
	if t == nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) FindSubTopicBySlug(_ context.Context, topicSlug, subSlug string) (*models.SubTopic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.topicBySlug(topicSlug)
	if t == nil {
		return nil, taxonomy.ErrSubTopicNotFound
	}
	for _, s := range t.SubTopics {
		if s.Slug == subSlug {
			cp := s
			return &cp, nil
		}
	}
	return nil, taxonomy.ErrSubTopicNotFound
}

func (f *fakeStore) ListBlogs(_ context.Context, scope taxonomy.Scope) ([]models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[models.KindBlog]; err != nil {
		return nil, err
	}
	var out []models.Blog
	for _, b := range f.blogs {
		if b.Published && f.matches(b.Record, scope) {
			b.Content = ""
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListNotes(_ context.Context, scope taxonomy.Scope) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[models.KindNote]; err != nil {
		return nil, err
	}
	var out []models.Note
	for _, n := range f.notes {
		if f.matches(n.Record, scope) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) ListProblems(_ context.Context, scope taxonomy.Scope) ([]models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[models.KindProblem]; err != nil {
		return nil, err
	}
	var out []models.Problem
	for _, p := range f.problems {
		if f.matches(p.Record, scope) {
			p.Solutions, p.Resources = nil, nil
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) FindBlog(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.blogs {
		if b.ID == id && b.Published {
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindNote(_ context.Context, id uuid.UUID) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindProblem(_ context.Context, id uuid.UUID) (*models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.problems {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) NextTopicOrder(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics), nil
}

func (f *fakeStore) NextSubTopicOrder(_ context.Context, topicID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.topics {
		if t.ID == topicID {
			return len(t.SubTopics), nil
		}
	}
	return 0, nil
}

func (f *fakeStore) CreateTopic(_ context.Context, t *models.Topic) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topicBySlug(t.Slug) != nil {
		return nil, store.ErrDuplicateSlug
	}
	created := *t
	created.ID = uuid.New()
	created.SubTopics = []models.SubTopic{}
	f.topics = append(f.topics, created)
	return &created, nil
}

func (f *fakeStore) CreateSubTopic(_ context.Context, st *models.SubTopic) (*models.SubTopic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.topics {
		if f.topics[i].ID != st.TopicID {
			continue
		}
		for _, s := range f.topics[i].SubTopics {
			if s.Slug == st.Slug {
				return nil, store.ErrDuplicateSlug
			}
		}
		created := *st
		created.ID = uuid.New()
		f.topics[i].SubTopics = append(f.topics[i].SubTopics, created)
		return &created, nil
	}
	return nil, errors.New("topic does not exist")
}

func (f *fakeStore) CreateBlog(_ context.Context, b *models.Blog) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.blogs {
		if existing.Slug == b.Slug {
			return nil, store.ErrDuplicateSlug
		}
	}
	created := *b
	created.ID = uuid.New()
	f.blogs = append(f.blogs, created)
	return &created, nil
}

func (f *fakeStore) CreateNote(_ context.Context, n *models.Note) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *n
	created.ID = uuid.New()
	f.notes = append(f.notes, created)
	return &created, nil
}

func (f *fakeStore) CreateProblem(_ context.Context, p *models.Problem) (*models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *p
	created.ID = uuid.New()
	f.problems = append(f.problems, created)
	return &created, nil
}

// testCache returns a response cache backed by an in-process miniredis.
func testCache(t *testing.T) (*miniredis.Miniredis, *cache.ResponseCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, cache.NewResponseCache(client, time.Minute)
}

// withChiURLParam adds chi URL parameters to a request for testing, given
// as alternating keys and values.
func withChiURLParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withUser stores user in the request context the way LoadUser does.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, user))
}

func testAdmin() *models.User {
	return &models.User{ID: uuid.New(), Email: "admin@devmastery.local", Name: "Admin", Role: models.RoleAdmin}
}
