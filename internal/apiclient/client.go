// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apiclient is a taxonomy.Repository backed by a running DevMastery
// server's public JSON API. The CLI uses it to browse without a database
// connection.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client talks to the public API. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ taxonomy.Repository = (*Client)(nil)

// New creates a Client for the server at baseURL. timeout bounds each
// request; zero means no client-side limit beyond the context.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

// ListTopics fetches every topic with subtopics and counts.
func (c *Client) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var body struct {
		Topics []models.Topic `json:"topics"`
	}
	if err := c.get(ctx, "/api/topics", nil, &body); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if body.Topics == nil {
		body.Topics = []models.Topic{}
	}
	return body.Topics, nil
}

// FindTopicBySlug looks the topic up in the topic listing. Returns nil, nil
// when no topic has the slug.
func (c *Client) FindTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	topics, err := c.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	for i := range topics {
		if topics[i].Slug == slug {
			return &topics[i], nil
		}
	}
	return nil, nil
}

// FindSubTopicBySlug looks the subtopic up under topicSlug, or under any
// topic when topicSlug is empty. Returns nil, nil when it does not exist.
func (c *Client) FindSubTopicBySlug(ctx context.Context, topicSlug, subTopicSlug string) (*models.SubTopic, error) {
	topics, err := c.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range topics {
		if topicSlug != "" && t.Slug != topicSlug {
			continue
		}
		for i := range t.SubTopics {
			if t.SubTopics[i].Slug == subTopicSlug {
				return &t.SubTopics[i], nil
			}
		}
	}
	return nil, nil
}

// ListBlogs fetches published blogs in scope.
func (c *Client) ListBlogs(ctx context.Context, scope taxonomy.Scope) ([]models.Blog, error) {
	if qualified(scope) {
		content, err := c.subTopicContent(ctx, scope, models.KindBlog)
		if err != nil {
			return nil, fmt.Errorf("list blogs: %w", err)
		}
		return nonNil(content.Blogs), nil
	}
	var body struct {
		Blogs []models.Blog `json:"blogs"`
	}
	if err := c.get(ctx, "/api/blogs", scope.Query(), &body); err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return nonNil(body.Blogs), nil
}

// ListNotes fetches notes in scope.
func (c *Client) ListNotes(ctx context.Context, scope taxonomy.Scope) ([]models.Note, error) {
	if qualified(scope) {
		content, err := c.subTopicContent(ctx, scope, models.KindNote)
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		return nonNil(content.Notes), nil
	}
	var body struct {
		Notes []models.Note `json:"notes"`
	}
	if err := c.get(ctx, "/api/notes", scope.Query(), &body); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return nonNil(body.Notes), nil
}

// ListProblems fetches problems in scope.
func (c *Client) ListProblems(ctx context.Context, scope taxonomy.Scope) ([]models.Problem, error) {
	if qualified(scope) {
		content, err := c.subTopicContent(ctx, scope, models.KindProblem)
		if err != nil {
			return nil, fmt.Errorf("list problems: %w", err)
		}
		return nonNil(content.Problems), nil
	}
	var body struct {
		Problems []models.Problem `json:"problems"`
	}
	if err := c.get(ctx, "/api/leetcode", scope.Query(), &body); err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	return nonNil(body.Problems), nil
}

// qualified reports whether scope names a subtopic under a known topic.
// The list endpoints only take a bare subtopic slug, which matches that
// slug under every topic, so such scopes go through the subtopic page.
func qualified(scope taxonomy.Scope) bool {
	return scope.IsSubTopic() && scope.TopicSlug() != ""
}

// subTopicContent fetches the subtopic page for scope and returns its
// content. A kind the server served empty after a failed fetch is an error
// here, so the caller's aggregator reports it as failed too.
func (c *Client) subTopicContent(ctx context.Context, scope taxonomy.Scope, kind models.ContentKind) (*taxonomy.PageContent, error) {
	var page taxonomy.Page
	path := "/api/topics/" + url.PathEscape(scope.TopicSlug()) + "/" + url.PathEscape(scope.SubTopicSlug())
	if err := c.get(ctx, path, nil, &page); err != nil {
		return nil, err
	}
	for _, failed := range page.Content.Failed {
		if failed == kind {
			return nil, fmt.Errorf("server failed to fetch %ss for %s", kind, scope)
		}
	}
	return &page.Content, nil
}

// get issues a GET and decodes a 2xx JSON body into dst.
func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return se
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		se.Message = body.Error
	}
	return se
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
