// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy implements the topic → subtopic → content model that the
// browsing pages are built on: resolving taxonomy nodes, aggregating the
// three content kinds for a scope, and the pure filtering, tab and stats
// derivations applied to the results.
package taxonomy

import (
	"context"
	"errors"

	"devmastery/internal/models"
)

var (
	// ErrTopicNotFound means the topic slug does not resolve. It is distinct
	// from a topic that exists but has no content.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrSubTopicNotFound means the subtopic slug does not resolve within
	// its topic.
	ErrSubTopicNotFound = errors.New("subtopic not found")
)

// ContentSource lists content records for a scope. Blog listings return
// published blogs only.
type ContentSource interface {
	ListBlogs(ctx context.Context, scope Scope) ([]models.Blog, error)
	ListNotes(ctx context.Context, scope Scope) ([]models.Note, error)
	ListProblems(ctx context.Context, scope Scope) ([]models.Problem, error)
}

// Repository is the read side of the taxonomy store.
//
// ListTopics returns every topic ordered by Order, each with its subtopics
// ordered by Order and with counts populated. The Find methods may report a
// miss either as (nil, nil) or with the matching not-found sentinel.
type Repository interface {
	ContentSource

	ListTopics(ctx context.Context) ([]models.Topic, error)
	FindTopicBySlug(ctx context.Context, slug string) (*models.Topic, error)
	FindSubTopicBySlug(ctx context.Context, topicSlug, subTopicSlug string) (*models.SubTopic, error)
}
