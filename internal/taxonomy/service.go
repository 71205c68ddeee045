// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devmastery/internal/models"
)

// Page is a resolved taxonomy node together with its aggregated content.
// SubTopic is nil for topic-level pages.
type Page struct {
	Topic    *models.Topic    `json:"topic"`
	SubTopic *models.SubTopic `json:"subTopic,omitempty"`
	Content  PageContent      `json:"content"`
}

// Service resolves taxonomy slugs and builds pages.
type Service struct {
	repo Repository
	agg  *Aggregator
}

// NewService creates a Service. fetchTimeout bounds each per-kind fetch.
func NewService(repo Repository, fetchTimeout time.Duration) *Service {
	return &Service{repo: repo, agg: NewAggregator(repo, fetchTimeout)}
}

// Topics returns the full topic list with subtopics and counts. Unlike the
// per-kind content fetches, a failure here is returned to the caller.
func (s *Service) Topics(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	return topics, nil
}

// TopicPage resolves a topic and aggregates the content attached directly
// to it. Returns ErrTopicNotFound when the slug does not resolve.
func (s *Service) TopicPage(ctx context.Context, topicSlug string) (*Page, error) {
	topic, err := s.resolveTopic(ctx, topicSlug)
	if err != nil {
		return nil, err
	}

	return &Page{
		Topic:   topic,
		Content: s.agg.Aggregate(ctx, TopicScope(topic.Slug)),
	}, nil
}

// SubTopicPage resolves a topic and one of its subtopics and aggregates the
// subtopic's content. A missing topic yields ErrTopicNotFound, a missing
// subtopic ErrSubTopicNotFound.
func (s *Service) SubTopicPage(ctx context.Context, topicSlug, subTopicSlug string) (*Page, error) {
	topic, err := s.resolveTopic(ctx, topicSlug)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.FindSubTopicBySlug(ctx, topic.Slug, subTopicSlug)
	if err != nil && !errors.Is(err, ErrSubTopicNotFound) {
		return nil, fmt.Errorf("find subtopic %q: %w", subTopicSlug, err)
	}
	if sub == nil {
		return nil, ErrSubTopicNotFound
	}

	return &Page{
		Topic:    topic,
		SubTopic: sub,
		Content:  s.agg.Aggregate(ctx, SubTopicScope(topic.Slug, sub.Slug)),
	}, nil
}

func (s *Service) resolveTopic(ctx context.Context, slug string) (*models.Topic, error) {
	topic, err := s.repo.FindTopicBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrTopicNotFound) {
		return nil, fmt.Errorf("find topic %q: %w", slug, err)
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	return topic, nil
}
