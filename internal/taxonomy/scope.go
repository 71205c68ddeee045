// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"errors"
	"net/url"
	"strings"
)

// ErrAmbiguousScope is returned by ParseScope when both a topic slug and a
// subtopic slug are supplied as independent selectors.
var ErrAmbiguousScope = errors.New("topicSlug and subTopicSlug are mutually exclusive")

type scopeLevel uint8

const (
	levelAll scopeLevel = iota
	levelTopic
	levelSubTopic
)

// Scope selects which taxonomy node content queries are restricted to.
// A Scope is either topic-level or subtopic-level, never both; the zero
// value is unscoped and matches every record.
//
// Topic scope matches records whose topic_id is the topic. Subtopic scope
// matches records whose sub_topic_id is the subtopic and never falls back
// to topic-level records.
type Scope struct {
	level        scopeLevel
	topicSlug    string
	subTopicSlug string
}

// TopicScope returns a scope for records attached directly to a topic.
func TopicScope(topicSlug string) Scope {
	return Scope{level: levelTopic, topicSlug: topicSlug}
}

// SubTopicScope returns a scope for records attached to a subtopic. Subtopic
// slugs are unique per topic, so topicSlug qualifies the lookup; it may be
// empty when the caller only knows the subtopic slug.
func SubTopicScope(topicSlug, subTopicSlug string) Scope {
	return Scope{level: levelSubTopic, topicSlug: topicSlug, subTopicSlug: subTopicSlug}
}

// ParseScope builds a Scope from the topicSlug/subTopicSlug query
// parameters. Both empty yields the unscoped zero value.
func ParseScope(topicSlug, subTopicSlug string) (Scope, error) {
	topicSlug = strings.TrimSpace(topicSlug)
	subTopicSlug = strings.TrimSpace(subTopicSlug)

	switch {
	case topicSlug != "" && subTopicSlug != "":
		return Scope{}, ErrAmbiguousScope
	case subTopicSlug != "":
		return SubTopicScope("", subTopicSlug), nil
	case topicSlug != "":
		return TopicScope(topicSlug), nil
	}
	return Scope{}, nil
}

// IsAll reports whether the scope is unscoped.
func (s Scope) IsAll() bool { return s.level == levelAll }

// IsTopic reports whether the scope is topic-level.
func (s Scope) IsTopic() bool { return s.level == levelTopic }

// IsSubTopic reports whether the scope is subtopic-level.
func (s Scope) IsSubTopic() bool { return s.level == levelSubTopic }

// TopicSlug returns the topic slug. For subtopic scopes it is the optional
// qualifier and may be empty.
func (s Scope) TopicSlug() string { return s.topicSlug }

// SubTopicSlug returns the subtopic slug, empty unless IsSubTopic.
func (s Scope) SubTopicSlug() string { return s.subTopicSlug }

// Query encodes the scope as the list endpoints' query parameters. Only one
// of topicSlug and subTopicSlug is ever set.
func (s Scope) Query() url.Values {
	q := url.Values{}
	switch s.level {
	case levelTopic:
		q.Set("topicSlug", s.topicSlug)
	case levelSubTopic:
		q.Set("subTopicSlug", s.subTopicSlug)
	}
	return q
}

// String returns a short human-readable form used in logs and cache keys.
func (s Scope) String() string {
	switch s.level {
	case levelTopic:
		return "topic:" + s.topicSlug
	case levelSubTopic:
		if s.topicSlug == "" {
			return "subtopic:" + s.subTopicSlug
		}
		return "subtopic:" + s.topicSlug + "/" + s.subTopicSlug
	}
	return "all"
}
