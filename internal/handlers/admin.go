// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"devmastery/internal/cache"
	"devmastery/internal/middleware"
	"devmastery/internal/models"
	"devmastery/internal/slug"
	"devmastery/internal/store"
	"devmastery/internal/taxonomy"
)

// wordsPerMinute is the reading speed used to estimate blog read time.
const wordsPerMinute = 200

// Admin groups the admin-only write endpoints. Every successful write
// clears the response cache.
type Admin struct {
	store Store
	cache *cache.ResponseCache
}

// NewAdmin creates a new Admin handler group. respCache may be nil.
func NewAdmin(store Store, respCache *cache.ResponseCache) *Admin {
	return &Admin{store: store, cache: respCache}
}

type nodeInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       *int   `json:"order"`
}

// placement names the taxonomy node a record is attached to. Both fields
// are optional; subTopicSlug requires topicSlug.
type placement struct {
	TopicSlug    string `json:"topicSlug"`
	SubTopicSlug string `json:"subTopicSlug"`
}

type blogInput struct {
	placement
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	ReadTime  int    `json:"readTime"`
	Published bool   `json:"published"`
}

type noteInput struct {
	placement
	Title   string `json:"title"`
	Content string `json:"content"`
}

type solutionInput struct {
	Language        string `json:"language"`
	Code            string `json:"code"`
	Explanation     string `json:"explanation"`
	TimeComplexity  string `json:"timeComplexity"`
	SpaceComplexity string `json:"spaceComplexity"`
}

type resourceInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type problemInput struct {
	placement
	Title       string          `json:"title"`
	Difficulty  string          `json:"difficulty"`
	Description string          `json:"description"`
	LeetcodeURL string          `json:"leetcodeUrl"`
	Solutions   []solutionInput `json:"solutions"`
	Resources   []resourceInput `json:"resources"`
}

// CreateTopic adds a topic. The slug is generated from the name when empty
// and the topic is appended after the existing ones unless order is given.
func (a *Admin) CreateTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in nodeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errMsg := validateNode(in.Name, in.Slug, in.Description, in.Icon); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	topic := &models.Topic{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slugOrGenerate(in.Slug, in.Name),
		Description: in.Description,
		Icon:        in.Icon,
	}
	if topic.Slug == "" {
		writeError(w, http.StatusBadRequest, "Name must contain at least one letter or digit.")
		return
	}

	if in.Order != nil {
		topic.Order = *in.Order
	} else {
		next, err := a.store.NextTopicOrder(ctx)
		if err != nil {
			slog.Error("next topic order failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create topic")
			return
		}
		topic.Order = next
	}

	created, err := a.store.CreateTopic(ctx, topic)
	if err != nil {
		a.writeCreateErr(w, "topic", err)
		return
	}

	a.written(r, "topic", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// CreateSubTopic adds a subtopic under the topic named in the URL.
func (a *Admin) CreateSubTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	topic, err := a.store.FindTopicBySlug(ctx, chi.URLParam(r, "topicSlug"))
	if err != nil && !errors.Is(err, taxonomy.ErrTopicNotFound) {
		slog.Error("find topic failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create subtopic")
		return
	}
	if topic == nil {
		writeError(w, http.StatusNotFound, "Topic not found")
		return
	}

	var in nodeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errMsg := validateNode(in.Name, in.Slug, in.Description, in.Icon); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	sub := &models.SubTopic{
		TopicID:     topic.ID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        slugOrGenerate(in.Slug, in.Name),
		Description: in.Description,
		Icon:        in.Icon,
	}
	if sub.Slug == "" {
		writeError(w, http.StatusBadRequest, "Name must contain at least one letter or digit.")
		return
	}

	if in.Order != nil {
		sub.Order = *in.Order
	} else {
		next, err := a.store.NextSubTopicOrder(ctx, topic.ID)
		if err != nil {
			slog.Error("next subtopic order failed", "topic", topic.Slug, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create subtopic")
			return
		}
		sub.Order = next
	}

	created, err := a.store.CreateSubTopic(ctx, sub)
	if err != nil {
		a.writeCreateErr(w, "subtopic", err)
		return
	}

	a.written(r, "subtopic", created.ID, "topic", topic.Slug, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// CreateBlog adds a blog. Read time is estimated from the body when not
// given.
func (a *Admin) CreateBlog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromCtx(ctx)

	var in blogInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errMsg := validateContent(in.Title, in.Slug, in.Content); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	if errMsg := validateBlogMeta(in.Excerpt, in.Category, in.ReadTime); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	rec, ok := a.newRecord(w, r, user, in.Title, in.placement)
	if !ok {
		return
	}

	blog := &models.Blog{
		Record:    rec,
		Slug:      slugOrGenerate(in.Slug, in.Title),
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Category:  in.Category,
		ReadTime:  in.ReadTime,
		Published: in.Published,
	}
	if blog.Slug == "" {
		writeError(w, http.StatusBadRequest, "Title must contain at least one letter or digit.")
		return
	}
	if blog.ReadTime == 0 {
		blog.ReadTime = estimateReadTime(in.Content)
	}

	created, err := a.store.CreateBlog(ctx, blog)
	if err != nil {
		a.writeCreateErr(w, "blog", err)
		return
	}

	a.written(r, "blog", created.ID, "slug", created.Slug, "published", created.Published)
	writeJSON(w, http.StatusCreated, created)
}

// CreateNote adds a note.
func (a *Admin) CreateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromCtx(ctx)

	var in noteInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errMsg := validateContent(in.Title, "", in.Content); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	rec, ok := a.newRecord(w, r, user, in.Title, in.placement)
	if !ok {
		return
	}

	created, err := a.store.CreateNote(ctx, &models.Note{Record: rec, Content: in.Content})
	if err != nil {
		a.writeCreateErr(w, "note", err)
		return
	}

	a.written(r, "note", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// CreateProblem adds a problem together with its solutions and resources.
func (a *Admin) CreateProblem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromCtx(ctx)

	var in problemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Difficulty = strings.ToUpper(strings.TrimSpace(in.Difficulty))
	if errMsg := validateContent(in.Title, "", in.Description); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	if errMsg := validateProblem(in); errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	rec, ok := a.newRecord(w, r, user, in.Title, in.placement)
	if !ok {
		return
	}

	problem := &models.Problem{
		Record:      rec,
		Difficulty:  models.Difficulty(in.Difficulty),
		Description: in.Description,
	}
	if in.LeetcodeURL != "" {
		problem.LeetcodeURL = &in.LeetcodeURL
	}
	for _, s := range in.Solutions {
		problem.Solutions = append(problem.Solutions, models.ProblemSolution{
			Language:        s.Language,
			Code:            s.Code,
			Explanation:     s.Explanation,
			TimeComplexity:  s.TimeComplexity,
			SpaceComplexity: s.SpaceComplexity,
		})
	}
	for _, res := range in.Resources {
		problem.Resources = append(problem.Resources, models.ProblemResource{
			Title: res.Title,
			URL:   res.URL,
			Type:  res.Type,
		})
	}

	created, err := a.store.CreateProblem(ctx, problem)
	if err != nil {
		a.writeCreateErr(w, "problem", err)
		return
	}

	a.written(r, "problem", created.ID, "difficulty", created.Difficulty,
		"solutions", len(created.Solutions), "resources", len(created.Resources))
	writeJSON(w, http.StatusCreated, created)
}

// newRecord builds the shared record fields, resolving the placement slugs
// to ids. It writes the error response itself and reports false on failure.
func (a *Admin) newRecord(w http.ResponseWriter, r *http.Request, user *models.User, title string, pl placement) (models.Record, bool) {
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return models.Record{}, false
	}

	topicID, subID, errMsg, err := a.resolvePlacement(r.Context(), pl)
	if err != nil {
		slog.Error("resolve placement failed", "topic", pl.TopicSlug, "subtopic", pl.SubTopicSlug, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve topic")
		return models.Record{}, false
	}
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return models.Record{}, false
	}

	return models.Record{
		Title:      strings.TrimSpace(title),
		AuthorID:   user.ID,
		Author:     models.Author{Name: user.Name},
		TopicID:    topicID,
		SubTopicID: subID,
	}, true
}

// resolvePlacement maps placement slugs to ids. A record attached to a
// subtopic also carries its parent topic's id. A non-empty errMsg is a
// client error.
func (a *Admin) resolvePlacement(ctx context.Context, pl placement) (topicID, subID *uuid.UUID, errMsg string, err error) {
	if pl.TopicSlug == "" {
		if pl.SubTopicSlug != "" {
			return nil, nil, "topicSlug is required when subTopicSlug is set.", nil
		}
		return nil, nil, "", nil
	}

	topic, err := a.store.FindTopicBySlug(ctx, pl.TopicSlug)
	if err != nil && !errors.Is(err, taxonomy.ErrTopicNotFound) {
		return nil, nil, "", fmt.Errorf("find topic %q: %w", pl.TopicSlug, err)
	}
	if topic == nil {
		return nil, nil, fmt.Sprintf("Topic %q not found.", pl.TopicSlug), nil
	}
	topicID = &topic.ID

	if pl.SubTopicSlug == "" {
		return topicID, nil, "", nil
	}
	sub, err := a.store.FindSubTopicBySlug(ctx, topic.Slug, pl.SubTopicSlug)
	if err != nil && !errors.Is(err, taxonomy.ErrSubTopicNotFound) {
		return nil, nil, "", fmt.Errorf("find subtopic %q: %w", pl.SubTopicSlug, err)
	}
	if sub == nil {
		return nil, nil, fmt.Sprintf("SubTopic %q not found in topic %q.", pl.SubTopicSlug, pl.TopicSlug), nil
	}
	return topicID, &sub.ID, "", nil
}

// writeCreateErr maps a store error from a create call to a response.
func (a *Admin) writeCreateErr(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, store.ErrDuplicateSlug) {
		writeError(w, http.StatusConflict, "Slug already exists")
		return
	}
	slog.Error("create failed", "kind", kind, "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to create "+kind)
}

// written clears the response cache and logs the write.
func (a *Admin) written(r *http.Request, kind string, id uuid.UUID, attrs ...any) {
	a.cache.InvalidateAll(r.Context())

	args := []any{"kind", kind, "id", id}
	if user := middleware.UserFromCtx(r.Context()); user != nil {
		args = append(args, "by", user.Email)
	}
	slog.Info("content created", append(args, attrs...)...)
}

// slugOrGenerate returns s, or a slug generated from fallback when s is
// empty.
func slugOrGenerate(s, fallback string) string {
	if s != "" {
		return s
	}
	return slug.Generate(fallback)
}

// estimateReadTime returns the read time of body in whole minutes, at
// least one.
func estimateReadTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
