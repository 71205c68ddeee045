// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Counts is the number of content records attached to a taxonomy node.
// It is computed at read time and serialized as "_count" to match the
// shape the topic pages consume.
type Counts struct {
	Blogs            int `json:"blogs"`
	Notes            int `json:"notes"`
	LeetcodeProblems int `json:"leetcodeProblems"`
}

// Total returns the sum of all content counts.
func (c Counts) Total() int {
	return c.Blogs + c.Notes + c.LeetcodeProblems
}

// Topic is a top-level taxonomy node. Slugs are globally unique.
type Topic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Virtual fields populated by store methods.
	SubTopics []SubTopic `json:"subTopics"`
	Count     Counts     `json:"_count"`
}

// SubTopic is a taxonomy node nested one level under a Topic. Slugs are
// unique within the parent topic only.
type SubTopic struct {
	ID          uuid.UUID `json:"id"`
	TopicID     uuid.UUID `json:"topicId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Count Counts `json:"_count"`
}
