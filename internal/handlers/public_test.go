// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"devmastery/internal/apiclient"
	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// seededStore returns a store with two topics and content spread over
// topic and subtopic level.
func seededStore() *fakeStore {
	f := newFakeStore()
	f.addTopic("Java", "java", "spring", "core-java")
	f.addTopic("Python", "python")
	f.topics[0].Count = models.Counts{Blogs: 2, Notes: 1, LeetcodeProblems: 1}
	f.topics[1].Count = models.Counts{Blogs: 1}

	f.blogs = []models.Blog{
		{Record: f.place("Java Streams", "java", ""), Slug: "java-streams", Content: "# Streams", Published: true},
		{Record: f.place("Spring Beans", "java", "spring"), Slug: "spring-beans", Content: "beans", Published: true},
		{Record: f.place("Draft", "java", ""), Slug: "draft", Published: false},
		{Record: f.place("Pythonic", "python", ""), Slug: "pythonic", Published: true},
	}
	f.notes = []models.Note{
		{Record: f.place("DI note", "java", "spring"), Content: "*inject*"},
	}
	f.problems = []models.Problem{
		{
			Record:     f.place("Two Sum", "java", "core-java"),
			Difficulty: models.DifficultyEasy,
			Solutions:  []models.ProblemSolution{{Language: "java", Code: "class S {}"}},
		},
	}
	return f
}

func newTestPublic(f *fakeStore) *Public {
	return NewPublic(f, taxonomy.NewService(f, time.Second), nil)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestTopics_FilterAndStats(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSlugs []string
		wantStats taxonomy.Stats
	}{
		{"all", "", []string{"java", "python"}, taxonomy.Stats{TopicCount: 2, BlogCount: 3, NoteCount: 1, ProblemCount: 1}},
		{"search by subtopic", "?search=SPRING", []string{"java"}, taxonomy.Stats{TopicCount: 1, BlogCount: 2, NoteCount: 1, ProblemCount: 1}},
		{"category", "?category=programming", []string{"java", "python"}, taxonomy.Stats{TopicCount: 2, BlogCount: 3, NoteCount: 1, ProblemCount: 1}},
		{"no match", "?search=kafka", []string{}, taxonomy.Stats{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPublic(seededStore())
			rec := httptest.NewRecorder()
			h.Topics(rec, httptest.NewRequest(http.MethodGet, "/api/topics"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := decodeBody[topicsResponse](t, rec)
			slugs := []string{}
			for _, topic := range body.Topics {
				slugs = append(slugs, topic.Slug)
			}
			if diff := cmp.Diff(tt.wantSlugs, slugs); diff != "" {
				t.Errorf("topics mismatch (-want +got):\n%s", diff)
			}
			if body.Stats != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", body.Stats, tt.wantStats)
			}
		})
	}
}

func TestTopics_EmptyListIsArray(t *testing.T) {
	h := newTestPublic(newFakeStore())
	rec := httptest.NewRecorder()
	h.Topics(rec, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

	if !strings.Contains(rec.Body.String(), `"topics":[]`) {
		t.Errorf("body = %s, want empty topics array", rec.Body.String())
	}
}

func TestTopics_UnknownCategory(t *testing.T) {
	h := newTestPublic(seededStore())
	rec := httptest.NewRecorder()
	h.Topics(rec, httptest.NewRequest(http.MethodGet, "/api/topics?category=cooking", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTopics_StoreError(t *testing.T) {
	f := seededStore()
	f.topicsErr = errors.New("connection refused")
	h := newTestPublic(f)
	rec := httptest.NewRecorder()
	h.Topics(rec, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestTopics_ServedFromCache(t *testing.T) {
	mr, rc := testCache(t)
	f := seededStore()
	h := NewPublic(f, taxonomy.NewService(f, time.Second), rc)

	rec := httptest.NewRecorder()
	h.Topics(rec, httptest.NewRequest(http.MethodGet, "/api/topics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	if !mr.Exists("resp:topics") {
		t.Fatal("topics were not cached")
	}

	// A store failure is invisible while the cached copy is fresh.
	f.topicsErr = errors.New("down")
	rec = httptest.NewRecorder()
	h.Topics(rec, httptest.NewRequest(http.MethodGet, "/api/topics?search=python", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("cached status = %d, want 200", rec.Code)
	}
	if got := decodeBody[topicsResponse](t, rec); len(got.Topics) != 1 || got.Topics[0].Slug != "python" {
		t.Errorf("cached filtered topics = %+v", got.Topics)
	}
}

func TestLists_Scopes(t *testing.T) {
	tests := []struct {
		name   string
		list   func(*Public) http.HandlerFunc
		field  string
		query  string
		titles []string
	}{
		{"all blogs published only", func(p *Public) http.HandlerFunc { return p.Blogs }, "blogs", "", []string{"Java Streams", "Spring Beans", "Pythonic"}},
		{"blogs by topic", func(p *Public) http.HandlerFunc { return p.Blogs }, "blogs", "?topicSlug=java", []string{"Java Streams", "Spring Beans"}},
		{"blogs by subtopic", func(p *Public) http.HandlerFunc { return p.Blogs }, "blogs", "?subTopicSlug=spring", []string{"Spring Beans"}},
		{"notes by subtopic", func(p *Public) http.HandlerFunc { return p.Notes }, "notes", "?subTopicSlug=spring", []string{"DI note"}},
		{"notes elsewhere", func(p *Public) http.HandlerFunc { return p.Notes }, "notes", "?topicSlug=python", []string{}},
		{"problems by subtopic", func(p *Public) http.HandlerFunc { return p.Problems }, "problems", "?subTopicSlug=core-java", []string{"Two Sum"}},
		{"unknown topic", func(p *Public) http.HandlerFunc { return p.Problems }, "problems", "?topicSlug=nope", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPublic(seededStore())
			rec := httptest.NewRecorder()
			tt.list(h)(rec, httptest.NewRequest(http.MethodGet, "/api/x"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			body := decodeBody[map[string][]models.Record](t, rec)
			items, ok := body[tt.field]
			if !ok {
				t.Fatalf("body %s has no %q field", rec.Body.String(), tt.field)
			}
			titles := []string{}
			for _, it := range items {
				titles = append(titles, it.Title)
			}
			if diff := cmp.Diff(tt.titles, titles); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLists_EmptyIsArray(t *testing.T) {
	h := newTestPublic(newFakeStore())
	rec := httptest.NewRecorder()
	h.Notes(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	if got := strings.TrimSpace(rec.Body.String()); got != `{"notes":[]}` {
		t.Errorf("body = %s, want {\"notes\":[]}", got)
	}
}

func TestLists_AmbiguousScope(t *testing.T) {
	h := newTestPublic(seededStore())
	rec := httptest.NewRecorder()
	h.Blogs(rec, httptest.NewRequest(http.MethodGet, "/api/blogs?topicSlug=java&subTopicSlug=spring", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLists_StoreError(t *testing.T) {
	f := seededStore()
	f.listErr[models.KindProblem] = errors.New("timeout")
	h := newTestPublic(f)
	rec := httptest.NewRecorder()
	h.Problems(rec, httptest.NewRequest(http.MethodGet, "/api/leetcode", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLists_Cached(t *testing.T) {
	mr, rc := testCache(t)
	f := seededStore()
	h := NewPublic(f, taxonomy.NewService(f, time.Second), rc)

	rec := httptest.NewRecorder()
	h.Blogs(rec, httptest.NewRequest(http.MethodGet, "/api/blogs?topicSlug=java", nil))
	first := rec.Body.String()

	if !mr.Exists("resp:list:blog:topic:java") {
		t.Fatalf("list not cached; keys = %v", mr.Keys())
	}

	f.listErr[models.KindBlog] = errors.New("down")
	rec = httptest.NewRecorder()
	h.Blogs(rec, httptest.NewRequest(http.MethodGet, "/api/blogs?topicSlug=java", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != first {
		t.Errorf("cached response = %d %s, want %s", rec.Code, rec.Body.String(), first)
	}
}

func TestLists_CacheKeyIsCaseSensitive(t *testing.T) {
	_, rc := testCache(t)
	f := seededStore()
	h := NewPublic(f, taxonomy.NewService(f, time.Second), rc)

	tests := []struct {
		path string
		want int
	}{
		{"/api/blogs?topicSlug=JAVA", 0},
		{"/api/blogs?topicSlug=java", 2},
		{"/api/notes?subTopicSlug=Spring", 0},
		{"/api/notes?subTopicSlug=spring", 1},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		if strings.HasPrefix(tt.path, "/api/blogs") {
			h.Blogs(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if got := len(decodeBody[struct{ Blogs []models.Blog }](t, rec).Blogs); got != tt.want {
				t.Errorf("%s: got %d blogs, want %d", tt.path, got, tt.want)
			}
			continue
		}
		h.Notes(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if got := len(decodeBody[struct{ Notes []models.Note }](t, rec).Notes); got != tt.want {
			t.Errorf("%s: got %d notes, want %d", tt.path, got, tt.want)
		}
	}
}

func TestTopicPage(t *testing.T) {
	h := newTestPublic(seededStore())
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topics/java", nil), "topicSlug", "java")
	rec := httptest.NewRecorder()
	h.TopicPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody[pageResponse](t, rec)
	if body.Topic == nil || body.Topic.Slug != "java" {
		t.Fatalf("topic = %+v", body.Topic)
	}
	if body.SubTopic != nil {
		t.Errorf("subTopic = %+v, want nil on a topic page", body.SubTopic)
	}
	c := body.Content
	if len(c.Blogs) != 2 || len(c.Notes) != 1 || len(c.Problems) != 1 || c.TotalCount != 4 {
		t.Errorf("content = %d blogs, %d notes, %d problems, total %d", len(c.Blogs), len(c.Notes), len(c.Problems), c.TotalCount)
	}
	if body.Empty || body.CanManage {
		t.Errorf("empty = %v, canManage = %v, want both false", body.Empty, body.CanManage)
	}
}

func TestSubTopicPage(t *testing.T) {
	h := newTestPublic(seededStore())
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topics/java/spring", nil),
		"topicSlug", "java", "subTopicSlug", "spring")
	req = withUser(req, testAdmin())
	rec := httptest.NewRecorder()
	h.SubTopicPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody[pageResponse](t, rec)
	if body.SubTopic == nil || body.SubTopic.Slug != "spring" {
		t.Fatalf("subTopic = %+v", body.SubTopic)
	}
	if body.Content.TotalCount != 2 {
		t.Errorf("totalCount = %d, want 2", body.Content.TotalCount)
	}
	if !body.CanManage {
		t.Error("canManage = false for an admin")
	}
}

// Subtopic slugs are unique per topic only. Browsing java/basics through the
// HTTP client must not pick up python/basics content.
func TestSubTopicPage_SharedSlugOverClient(t *testing.T) {
	f := newFakeStore()
	f.addTopic("Java", "java", "basics")
	f.addTopic("Python", "python", "basics")
	f.notes = []models.Note{
		{Record: f.place("Java basics note", "java", "basics")},
		{Record: f.place("Python basics note", "python", "basics")},
	}
	h := newTestPublic(f)

	r := chi.NewRouter()
	r.Get("/api/topics", h.Topics)
	r.Get("/api/topics/{topicSlug}/{subTopicSlug}", h.SubTopicPage)
	r.Get("/api/blogs", h.Blogs)
	r.Get("/api/notes", h.Notes)
	r.Get("/api/leetcode", h.Problems)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	page, err := taxonomy.NewService(client, time.Second).SubTopicPage(context.Background(), "java", "basics")
	if err != nil {
		t.Fatalf("SubTopicPage: %v", err)
	}

	titles := []string{}
	for _, n := range page.Content.Notes {
		titles = append(titles, n.Title)
	}
	if diff := cmp.Diff([]string{"Java basics note"}, titles); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if !page.Content.Complete() {
		t.Errorf("failed kinds = %v", page.Content.Failed)
	}
}

func TestPage_EmptySubTopic(t *testing.T) {
	f := seededStore()
	f.addTopic("Go", "go", "generics")
	h := newTestPublic(f)
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topics/go/generics", nil),
		"topicSlug", "go", "subTopicSlug", "generics")
	rec := httptest.NewRecorder()
	h.SubTopicPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an existing but empty subtopic", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"empty":true`) {
		t.Errorf("body = %s, want empty:true", rec.Body.String())
	}
}

func TestPage_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		params  []string
		wantMsg string
	}{
		{"unknown topic", []string{"topicSlug", "rust"}, "Topic not found"},
		{"unknown topic on subtopic page", []string{"topicSlug", "rust", "subTopicSlug", "spring"}, "Topic not found"},
		{"unknown subtopic", []string{"topicSlug", "python", "subTopicSlug", "spring"}, "SubTopic not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPublic(seededStore())
			req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), tt.params...)
			rec := httptest.NewRecorder()
			if len(tt.params) == 2 {
				h.TopicPage(rec, req)
			} else {
				h.SubTopicPage(rec, req)
			}

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			if got := decodeBody[map[string]string](t, rec)["error"]; got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestPage_CachedUnlessDegraded(t *testing.T) {
	mr, rc := testCache(t)
	f := seededStore()
	h := NewPublic(f, taxonomy.NewService(f, time.Second), rc)
	get := func() *httptest.ResponseRecorder {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topics/java", nil), "topicSlug", "java")
		rec := httptest.NewRecorder()
		h.TopicPage(rec, req)
		return rec
	}

	f.listErr[models.KindNote] = errors.New("notes table locked")
	rec := get()
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded status = %d, want 200", rec.Code)
	}
	body := decodeBody[pageResponse](t, rec)
	if diff := cmp.Diff([]models.ContentKind{models.KindNote}, body.Content.Failed); diff != "" {
		t.Errorf("failed kinds mismatch (-want +got):\n%s", diff)
	}
	if body.Content.Notes == nil || len(body.Content.Notes) != 0 {
		t.Errorf("notes = %#v, want empty non-nil", body.Content.Notes)
	}
	if mr.Exists("resp:page:java") {
		t.Fatal("degraded page was cached")
	}

	delete(f.listErr, models.KindNote)
	if rec := get(); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !mr.Exists("resp:page:java") {
		t.Fatal("complete page was not cached")
	}

	// Served from cache: the request-dependent fields are still computed.
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/topics/java", nil), "topicSlug", "java")
	req = withUser(req, testAdmin())
	rec = httptest.NewRecorder()
	h.TopicPage(rec, req)
	if got := decodeBody[pageResponse](t, rec); !got.CanManage || got.Content.TotalCount != 4 {
		t.Errorf("cached page canManage = %v, total = %d", got.CanManage, got.Content.TotalCount)
	}
}

func TestBlogDetail(t *testing.T) {
	f := seededStore()
	published := f.blogs[0].ID
	draft := f.blogs[2].ID
	tests := []struct {
		name     string
		id       string
		wantCode int
	}{
		{"published", published.String(), http.StatusOK},
		{"draft hidden", draft.String(), http.StatusNotFound},
		{"missing", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestPublic(f)
			req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/blogs/"+tt.id, nil), "id", tt.id)
			rec := httptest.NewRecorder()
			h.Blog(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			body := decodeBody[map[string]any](t, rec)
			if body["slug"] != "java-streams" {
				t.Errorf("slug = %v", body["slug"])
			}
			if html, _ := body["contentHtml"].(string); !strings.Contains(html, "<h1") {
				t.Errorf("contentHtml = %q, want rendered heading", html)
			}
		})
	}
}

func TestNoteDetail(t *testing.T) {
	f := seededStore()
	h := newTestPublic(f)
	id := f.notes[0].ID.String()
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/notes/"+id, nil), "id", id)
	rec := httptest.NewRecorder()
	h.Note(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody[map[string]any](t, rec)
	if html, _ := body["contentHtml"].(string); !strings.Contains(html, "<em>inject</em>") {
		t.Errorf("contentHtml = %q", html)
	}
}

func TestProblemDetail(t *testing.T) {
	f := seededStore()
	h := newTestPublic(f)
	id := f.problems[0].ID.String()
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/leetcode/"+id, nil), "id", id)
	rec := httptest.NewRecorder()
	h.Problem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody[models.Problem](t, rec)
	if body.Difficulty != models.DifficultyEasy || len(body.Solutions) != 1 {
		t.Errorf("problem = %+v", body)
	}

	req = withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString())
	rec = httptest.NewRecorder()
	h.Problem(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing problem status = %d, want 404", rec.Code)
	}
}
