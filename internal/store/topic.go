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
)

// TopicStore handles topic and subtopic database operations. Content counts
// are computed on read from the content tables.
type TopicStore struct {
	db *sql.DB
}

// NewTopicStore creates a new TopicStore with the given database connection.
func NewTopicStore(db *sql.DB) *TopicStore {
	return &TopicStore{db: db}
}

const topicColumns = `
	t.id, t.name, t.slug, t.description, t.icon, t.sort_order, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM blogs WHERE topic_id = t.id),
	(SELECT COUNT(*) FROM notes WHERE topic_id = t.id),
	(SELECT COUNT(*) FROM leetcode_problems WHERE topic_id = t.id)`

const subTopicColumns = `
	st.id, st.topic_id, st.name, st.slug, st.description, st.icon, st.sort_order,
	st.created_at, st.updated_at,
	(SELECT COUNT(*) FROM blogs WHERE sub_topic_id = st.id),
	(SELECT COUNT(*) FROM notes WHERE sub_topic_id = st.id),
	(SELECT COUNT(*) FROM leetcode_problems WHERE sub_topic_id = st.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner, t *models.Topic) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Icon, &t.Order, &t.CreatedAt, &t.UpdatedAt,
		&t.Count.Blogs, &t.Count.Notes, &t.Count.LeetcodeProblems,
	)
}

func scanSubTopic(row rowScanner, st *models.SubTopic) error {
	return row.Scan(
		&st.ID, &st.TopicID, &st.Name, &st.Slug, &st.Description, &st.Icon, &st.Order,
		&st.CreatedAt, &st.UpdatedAt,
		&st.Count.Blogs, &st.Count.Notes, &st.Count.LeetcodeProblems,
	)
}

// ListWithCounts returns all topics ordered by sort order, each with its
// subtopics attached and every node's counts populated.
func (s *TopicStore) ListWithCounts(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+topicColumns+`
		FROM topics t
		ORDER BY t.sort_order, t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := scanTopic(rows, &t); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		t.SubTopics = []models.SubTopic{}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	subs, err := s.listSubTopics(ctx, nil)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(topics))
	for i, t := range topics {
		index[t.ID] = i
	}
	for _, st := range subs {
		if i, ok := index[st.TopicID]; ok {
			topics[i].SubTopics = append(topics[i].SubTopics, st)
		}
	}
	return topics, nil
}

// listSubTopics returns subtopics ordered by sort order, limited to one
// topic when topicID is non-nil.
func (s *TopicStore) listSubTopics(ctx context.Context, topicID *uuid.UUID) ([]models.SubTopic, error) {
	query := `SELECT ` + subTopicColumns + ` FROM sub_topics st`
	var args []any
	if topicID != nil {
		query += ` WHERE st.topic_id = $1`
		args = append(args, *topicID)
	}
	query += ` ORDER BY st.sort_order, st.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subtopics: %w", err)
	}
	defer rows.Close()

	subs := []models.SubTopic{}
	for rows.Next() {
		var st models.SubTopic
		if err := scanSubTopic(rows, &st); err != nil {
			return nil, fmt.Errorf("scan subtopic: %w", err)
		}
		subs = append(subs, st)
	}
	return subs, rows.Err()
}

// FindBySlug retrieves a topic with its subtopics and counts. Returns nil
// if not found.
func (s *TopicStore) FindBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	t := &models.Topic{}
	err := scanTopic(s.db.QueryRowContext(ctx, `
		SELECT `+topicColumns+`
		FROM topics t WHERE t.slug = $1
	`, slug), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by slug: %w", err)
	}

	subs, err := s.listSubTopics(ctx, &t.ID)
	if err != nil {
		return nil, err
	}
	t.SubTopics = subs
	return t, nil
}

// FindSubTopicBySlug retrieves a subtopic by slug within the named topic.
// With an empty topicSlug the first subtopic carrying the slug is returned.
// Returns nil if not found.
func (s *TopicStore) FindSubTopicBySlug(ctx context.Context, topicSlug, subTopicSlug string) (*models.SubTopic, error) {
	query := `
		SELECT ` + subTopicColumns + `
		FROM sub_topics st JOIN topics tp ON tp.id = st.topic_id
		WHERE st.slug = $1`
	args := []any{subTopicSlug}
	if topicSlug != "" {
		query += ` AND tp.slug = $2`
		args = append(args, topicSlug)
	}
	query += ` ORDER BY tp.sort_order, st.sort_order LIMIT 1`

	st := &models.SubTopic{}
	err := scanSubTopic(s.db.QueryRowContext(ctx, query, args...), st)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subtopic by slug: %w", err)
	}
	return st, nil
}

// NextTopicOrder returns the sort order that places a new topic last.
func (s *TopicStore) NextTopicOrder(ctx context.Context) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order) + 1, 0) FROM topics`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next topic order: %w", err)
	}
	return next, nil
}

// NextSubTopicOrder returns the sort order that places a new subtopic last
// within its topic.
func (s *TopicStore) NextSubTopicOrder(ctx context.Context, topicID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM sub_topics WHERE topic_id = $1`, topicID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next subtopic order: %w", err)
	}
	return next, nil
}

// Create inserts a new topic. Returns ErrDuplicateSlug if the slug is taken.
func (s *TopicStore) Create(ctx context.Context, t *models.Topic) (*models.Topic, error) {
	result := &models.Topic{SubTopics: []models.SubTopic{}}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO topics (name, slug, description, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, slug, description, icon, sort_order, created_at, updated_at
	`, t.Name, t.Slug, t.Description, t.Icon, t.Order).Scan(
		&result.ID, &result.Name, &result.Slug, &result.Description, &result.Icon,
		&result.Order, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, mapInsertErr("create topic", err)
	}
	return result, nil
}

// CreateSubTopic inserts a new subtopic under st.TopicID. Returns
// ErrDuplicateSlug if the slug is taken within that topic.
func (s *TopicStore) CreateSubTopic(ctx context.Context, st *models.SubTopic) (*models.SubTopic, error) {
	result := &models.SubTopic{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sub_topics (topic_id, name, slug, description, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, topic_id, name, slug, description, icon, sort_order, created_at, updated_at
	`, st.TopicID, st.Name, st.Slug, st.Description, st.Icon, st.Order).Scan(
		&result.ID, &result.TopicID, &result.Name, &result.Slug, &result.Description,
		&result.Icon, &result.Order, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, mapInsertErr("create subtopic", err)
	}
	return result, nil
}
