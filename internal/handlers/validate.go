// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"devmastery/internal/models"
	"devmastery/internal/slug"
)

// Validation limits for taxonomy and content fields.
const (
	maxNameLen        = 100
	maxTitleLen       = 300
	maxSlugLen        = 300
	maxBodyLen        = 100_000
	maxExcerptLen     = 1_000
	maxDescriptionLen = 2_000
	maxIconLen        = 16
	maxCategoryLen    = 50
	maxURLLen         = 2_000
)

// validateNode checks topic and subtopic inputs and returns the first error
// found.
func validateNode(name, nodeSlug, description, icon string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 100 characters)."
	}
	if msg := validateSlug(nodeSlug); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 2,000 characters)."
	}
	if utf8.RuneCountInString(icon) > maxIconLen {
		return "Icon is too long (max 16 characters)."
	}
	return ""
}

// validateContent checks the fields shared by blogs, notes and problems and
// returns the first error found.
func validateContent(title, contentSlug, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if msg := validateSlug(contentSlug); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateSlug accepts an empty slug, which is generated from the name or
// title later.
func validateSlug(s string) string {
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if !slug.IsValid(s) {
		return "Slug may only contain lowercase letters, digits and single hyphens."
	}
	return ""
}

// validateBlogMeta checks the optional blog listing fields.
func validateBlogMeta(excerpt, category string, readTime int) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return "Category is too long (max 50 characters)."
	}
	if readTime < 0 {
		return "Read time cannot be negative."
	}
	return ""
}

// validateProblem checks problem-specific fields.
func validateProblem(in problemInput) string {
	if !models.Difficulty(in.Difficulty).Valid() {
		return "Difficulty must be EASY, MEDIUM or HARD."
	}
	if in.LeetcodeURL != "" {
		if msg := validateURL("LeetCode URL", in.LeetcodeURL); msg != "" {
			return msg
		}
	}
	for _, s := range in.Solutions {
		if strings.TrimSpace(s.Language) == "" {
			return "Solution language is required."
		}
		if strings.TrimSpace(s.Code) == "" {
			return "Solution code is required."
		}
		if utf8.RuneCountInString(s.Code) > maxBodyLen {
			return "Solution code is too long (max 100,000 characters)."
		}
	}
	for _, res := range in.Resources {
		if strings.TrimSpace(res.Title) == "" {
			return "Resource title is required."
		}
		if msg := validateURL("Resource URL", res.URL); msg != "" {
			return msg
		}
	}
	return ""
}

// validateURL requires an absolute http(s) URL.
func validateURL(field, raw string) string {
	if utf8.RuneCountInString(raw) > maxURLLen {
		return field + " is too long (max 2,000 characters)."
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return field + " must be an absolute http(s) URL."
	}
	return ""
}
