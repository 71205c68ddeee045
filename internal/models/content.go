// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind names one of the three content record families.
type ContentKind string

const (
	KindBlog    ContentKind = "blog"
	KindNote    ContentKind = "note"
	KindProblem ContentKind = "problem"
)

// Author is the denormalized author display data embedded in every record.
type Author struct {
	Name string `json:"name"`
}

// Record holds the fields shared by blogs, notes and problems. A record may
// be attached to a topic, a subtopic, both, or neither.
type Record struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	AuthorID   uuid.UUID  `json:"authorId"`
	Author     Author     `json:"author"`
	TopicID    *uuid.UUID `json:"topicId"`
	SubTopicID *uuid.UUID `json:"subTopicId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Blog is a long-form article. Only published blogs are shown to end users.
type Blog struct {
	Record
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content,omitempty"`
	Category  string `json:"category"`
	ReadTime  int    `json:"readTime"` // minutes
	Published bool   `json:"published"`
}

// Note is a short study note. Notes have no publish flag.
type Note struct {
	Record
	Content string `json:"content"`
}

// Difficulty is the closed set of problem difficulties.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Rank orders difficulties from easiest (1) to hardest (3). Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

// Problem is a LeetCode-style exercise.
type Problem struct {
	Record
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description"`
	LeetcodeURL *string    `json:"leetcodeUrl,omitempty"`

	// Populated only by the detail endpoint.
	Solutions []ProblemSolution `json:"solutions,omitempty"`
	Resources []ProblemResource `json:"resources,omitempty"`
}

// ProblemSolution is a worked solution for a problem in one language.
type ProblemSolution struct {
	ID              uuid.UUID `json:"id"`
	ProblemID       uuid.UUID `json:"problemId"`
	Language        string    `json:"language"`
	Code            string    `json:"code"`
	Explanation     string    `json:"explanation"`
	TimeComplexity  string    `json:"timeComplexity"`
	SpaceComplexity string    `json:"spaceComplexity"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProblemResource is an external link (article, video) attached to a problem.
type ProblemResource struct {
	ID        uuid.UUID `json:"id"`
	ProblemID uuid.UUID `json:"problemId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
