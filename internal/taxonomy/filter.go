// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"
	"strings"

	"devmastery/internal/models"
)

// Category is the closed set of topic categories offered by the topic
// listing filter.
type Category string

const (
	CategoryAll          Category = "all"
	CategoryProgramming  Category = "programming"
	CategorySystemDesign Category = "system-design"
	CategoryAlgorithms   Category = "algorithms"
	CategoryDatabases    Category = "databases"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryAll,
	CategoryProgramming,
	CategorySystemDesign,
	CategoryAlgorithms,
	CategoryDatabases,
}

// ParseCategory converts user input into a Category. An empty string means
// CategoryAll.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// keywords returns the lower-case substrings that place a topic in the
// category. CategoryAll has none and matches everything.
func (c Category) keywords() []string {
	switch c {
	case CategoryProgramming:
		return []string{"programming", "language", "java", "python", "javascript", "typescript", "golang", "rust", "c++", "react"}
	case CategorySystemDesign:
		return []string{"system design", "architecture", "scalab", "distributed", "microservice"}
	case CategoryAlgorithms:
		return []string{"algorithm", "data structure", "leetcode", "dsa", "dynamic programming"}
	case CategoryDatabases:
		return []string{"database", "sql"}
	}
	return nil
}

// Matches reports whether the topic's name or description contains any of
// the category's keywords, case-insensitively.
func (c Category) Matches(t models.Topic) bool {
	if c == CategoryAll {
		return true
	}
	haystack := strings.ToLower(t.Name + "\n" + t.Description)
	for _, kw := range c.keywords() {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// FilterBySearchTerm keeps the topics whose name or description, or any
// subtopic's name or description, contains term case-insensitively. A blank
// term returns the input unchanged. Input order is preserved.
func FilterBySearchTerm(topics []models.Topic, term string) []models.Topic {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return topics
	}
	return filterTopics(topics, func(t models.Topic) bool {
		return topicContains(t, term)
	})
}

// FilterByCategory keeps the topics matching category. CategoryAll returns
// the input unchanged.
func FilterByCategory(topics []models.Topic, category Category) []models.Topic {
	if category == CategoryAll {
		return topics
	}
	return filterTopics(topics, category.Matches)
}

// Filter applies the search term and the category together; a topic must
// pass both.
func Filter(topics []models.Topic, term string, category Category) []models.Topic {
	return FilterByCategory(FilterBySearchTerm(topics, term), category)
}

func topicContains(t models.Topic, term string) bool {
	if containsFold(t.Name, term) || containsFold(t.Description, term) {
		return true
	}
	for _, st := range t.SubTopics {
		if containsFold(st.Name, term) || containsFold(st.Description, term) {
			return true
		}
	}
	return false
}

// containsFold expects needle to be lower-cased already.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// filterTopics returns a new slice; the input is never modified.
func filterTopics(topics []models.Topic, keep func(models.Topic) bool) []models.Topic {
	out := make([]models.Topic, 0, len(topics))
	for _, t := range topics {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
