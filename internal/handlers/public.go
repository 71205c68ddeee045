// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"devmastery/internal/cache"
	"devmastery/internal/markdown"
	"devmastery/internal/middleware"
	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// Public groups the read-only JSON endpoints. It checks the Valkey response
// cache before touching the database and stores encoded results on miss.
type Public struct {
	store   Store
	service *taxonomy.Service
	cache   *cache.ResponseCache
}

// NewPublic creates a new Public handler group. respCache may be nil.
func NewPublic(store Store, service *taxonomy.Service, respCache *cache.ResponseCache) *Public {
	return &Public{store: store, service: service, cache: respCache}
}

// topicsResponse is the body of GET /api/topics.
type topicsResponse struct {
	Topics []models.Topic `json:"topics"`
	Stats  taxonomy.Stats `json:"stats"`
}

// pageResponse is the body of the topic and subtopic page endpoints. The
// embedded page is cached; the remaining fields depend on the request.
type pageResponse struct {
	*taxonomy.Page
	Empty     bool `json:"empty"`
	CanManage bool `json:"canManage"`
}

// Topics lists every topic with its subtopics and counts. The optional
// search and category query parameters filter the list; stats describe the
// filtered result.
func (p *Public) Topics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	category, err := taxonomy.ParseCategory(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	topics, err := p.allTopics(ctx)
	if err != nil {
		slog.Error("list topics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load topics")
		return
	}

	filtered := taxonomy.Filter(topics, q.Get("search"), category)
	writeJSON(w, http.StatusOK, topicsResponse{
		Topics: filtered,
		Stats:  taxonomy.ComputeStats(filtered),
	})
}

// allTopics returns the unfiltered topic list, from cache when possible.
func (p *Public) allTopics(ctx context.Context) ([]models.Topic, error) {
	if cached, ok := p.cache.Get(ctx, cache.TopicsKey()); ok {
		var topics []models.Topic
		if err := json.Unmarshal(cached, &topics); err == nil {
			return topics, nil
		}
		slog.Warn("discarding undecodable cached topics")
	}

	topics, err := p.service.Topics(ctx)
	if err != nil {
		return nil, err
	}
	if body, err := json.Marshal(topics); err == nil {
		p.cache.Set(ctx, cache.TopicsKey(), body)
	}
	return topics, nil
}

// Blogs lists published blogs in the scope given by the topicSlug or
// subTopicSlug query parameter.
func (p *Public) Blogs(w http.ResponseWriter, r *http.Request) {
	serveList(p, w, r, models.KindBlog, "blogs", p.store.ListBlogs)
}

// Notes lists notes in the requested scope.
func (p *Public) Notes(w http.ResponseWriter, r *http.Request) {
	serveList(p, w, r, models.KindNote, "notes", p.store.ListNotes)
}

// Problems lists LeetCode problems in the requested scope.
func (p *Public) Problems(w http.ResponseWriter, r *http.Request) {
	serveList(p, w, r, models.KindProblem, "problems", p.store.ListProblems)
}

// serveList answers a content list endpoint as {field: items}.
func serveList[T any](
	p *Public,
	w http.ResponseWriter,
	r *http.Request,
	kind models.ContentKind,
	field string,
	list func(context.Context, taxonomy.Scope) ([]T, error),
) {
	ctx := r.Context()
	q := r.URL.Query()

	scope, err := taxonomy.ParseScope(q.Get("topicSlug"), q.Get("subTopicSlug"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.ListKey(string(kind), scope.String())
	if cached, ok := p.cache.Get(ctx, key); ok {
		writeRaw(w, http.StatusOK, cached)
		return
	}

	items, err := list(ctx, scope)
	if err != nil {
		slog.Error("list content failed", "kind", kind, "scope", scope.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load "+field)
		return
	}
	if items == nil {
		items = []T{}
	}

	body, err := json.Marshal(map[string][]T{field: items})
	if err != nil {
		slog.Error("encode list failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load "+field)
		return
	}
	p.cache.Set(ctx, key, body)
	writeRaw(w, http.StatusOK, body)
}

// TopicPage serves the aggregated page of a topic.
func (p *Public) TopicPage(w http.ResponseWriter, r *http.Request) {
	topicSlug := chi.URLParam(r, "topicSlug")
	p.servePage(w, r, cache.PageKey(topicSlug, ""), func(ctx context.Context) (*taxonomy.Page, error) {
		return p.service.TopicPage(ctx, topicSlug)
	})
}

// SubTopicPage serves the aggregated page of a subtopic.
func (p *Public) SubTopicPage(w http.ResponseWriter, r *http.Request) {
	topicSlug := chi.URLParam(r, "topicSlug")
	subTopicSlug := chi.URLParam(r, "subTopicSlug")
	p.servePage(w, r, cache.PageKey(topicSlug, subTopicSlug), func(ctx context.Context) (*taxonomy.Page, error) {
		return p.service.SubTopicPage(ctx, topicSlug, subTopicSlug)
	})
}

// servePage answers a page endpoint. Pages with a failed content kind are
// served but not cached.
func (p *Public) servePage(w http.ResponseWriter, r *http.Request, key string, build func(context.Context) (*taxonomy.Page, error)) {
	ctx := r.Context()

	page := p.cachedPage(ctx, key)
	if page == nil {
		var err error
		page, err = build(ctx)
		switch {
		case errors.Is(err, taxonomy.ErrTopicNotFound):
			writeError(w, http.StatusNotFound, "Topic not found")
			return
		case errors.Is(err, taxonomy.ErrSubTopicNotFound):
			writeError(w, http.StatusNotFound, "SubTopic not found")
			return
		case err != nil:
			slog.Error("build page failed", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load page")
			return
		}

		if page.Content.Complete() {
			if body, err := json.Marshal(page); err == nil {
				p.cache.Set(ctx, key, body)
			}
		} else {
			slog.Warn("serving degraded page", "key", key, "failed", page.Content.Failed)
		}
	}

	user := middleware.UserFromCtx(ctx)
	writeJSON(w, http.StatusOK, pageResponse{
		Page:      page,
		Empty:     page.Content.IsEmpty(),
		CanManage: user != nil && user.IsAdmin(),
	})
}

func (p *Public) cachedPage(ctx context.Context, key string) *taxonomy.Page {
	cached, ok := p.cache.Get(ctx, key)
	if !ok {
		return nil
	}
	var page taxonomy.Page
	if err := json.Unmarshal(cached, &page); err != nil || page.Topic == nil {
		slog.Warn("discarding undecodable cached page", "key", key)
		return nil
	}
	return &page
}

// blogDetail is a blog with its Markdown body rendered.
type blogDetail struct {
	*models.Blog
	ContentHTML string `json:"contentHtml"`
}

// noteDetail is a note with its Markdown body rendered.
type noteDetail struct {
	*models.Note
	ContentHTML string `json:"contentHtml"`
}

// Blog serves one published blog. Drafts are reported as not found.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	blog, err := p.store.FindBlog(r.Context(), id)
	if err != nil {
		slog.Error("find blog failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load blog")
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	writeJSON(w, http.StatusOK, blogDetail{Blog: blog, ContentHTML: renderBody("blog", id, blog.Content)})
}

// Note serves one note.
func (p *Public) Note(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	note, err := p.store.FindNote(r.Context(), id)
	if err != nil {
		slog.Error("find note failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	writeJSON(w, http.StatusOK, noteDetail{Note: note, ContentHTML: renderBody("note", id, note.Content)})
}

// Problem serves one problem with its solutions and resources.
func (p *Public) Problem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	problem, err := p.store.FindProblem(r.Context(), id)
	if err != nil {
		slog.Error("find problem failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load problem")
		return
	}
	if problem == nil {
		writeError(w, http.StatusNotFound, "Problem not found")
		return
	}
	writeJSON(w, http.StatusOK, problem)
}

// parseID reads the {id} URL parameter, writing a 400 when it is not a UUID.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

// renderBody converts a Markdown body to HTML. On failure the raw body is
// still served and the HTML is left empty.
func renderBody(kind string, id uuid.UUID, body string) string {
	out, err := markdown.ToHTML(body)
	if err != nil {
		slog.Warn("render markdown failed", "kind", kind, "id", id, "error", err)
		return ""
	}
	return out
}
