// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"devmastery/internal/models"
)

// Tab selects which content kind of a page is displayed.
type Tab uint8

const (
	TabBlogs Tab = iota
	TabNotes
	TabProblems
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabBlogs, TabNotes, TabProblems}

// String returns the tab's identifier as used in query strings and flags.
func (t Tab) String() string {
	switch t {
	case TabBlogs:
		return "blogs"
	case TabNotes:
		return "notes"
	case TabProblems:
		return "problems"
	}
	return fmt.Sprintf("Tab(%d)", uint8(t))
}

// Label returns the display label.
func (t Tab) Label() string {
	switch t {
	case TabBlogs:
		return "Blogs"
	case TabNotes:
		return "Notes"
	case TabProblems:
		return "Problems"
	}
	return ""
}

// Kind returns the content kind shown on the tab.
func (t Tab) Kind() models.ContentKind {
	switch t {
	case TabNotes:
		return models.KindNote
	case TabProblems:
		return models.KindProblem
	}
	return models.KindBlog
}

func (t Tab) valid() bool {
	return t <= TabProblems
}

// ParseTab converts user input into a Tab. An empty string selects TabBlogs.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blogs", "blog":
		return TabBlogs, nil
	case "notes", "note":
		return TabNotes, nil
	case "problems", "problem", "leetcode":
		return TabProblems, nil
	}
	return TabBlogs, fmt.Errorf("unknown tab %q", s)
}

// TabView is the tab selection state of one page view. The zero value shows
// blogs. It is not persisted across pages.
type TabView struct {
	current Tab
}

// Current returns the selected tab.
func (v *TabView) Current() Tab {
	return v.current
}

// Select switches to tab. Values outside the known tabs are ignored.
func (v *TabView) Select(tab Tab) {
	if tab.valid() {
		v.current = tab
	}
}

// Count returns the number of records behind tab.
func (p PageContent) Count(tab Tab) int {
	switch tab {
	case TabNotes:
		return len(p.Notes)
	case TabProblems:
		return len(p.Problems)
	}
	return len(p.Blogs)
}

// notePreviewRunes is how much of a note body a listing shows.
const notePreviewRunes = 150

// Item is a kind-agnostic summary of one content record for listings.
type Item struct {
	ID        uuid.UUID          `json:"id"`
	Kind      models.ContentKind `json:"kind"`
	Title     string             `json:"title"`
	Author    string             `json:"author"`
	CreatedAt time.Time          `json:"createdAt"`
	Detail    string             `json:"detail"`
}

// Visible returns the records of the current tab as listing items.
func (v *TabView) Visible(p PageContent) []Item {
	switch v.current {
	case TabNotes:
		items := make([]Item, 0, len(p.Notes))
		for _, n := range p.Notes {
			items = append(items, itemFor(n.Record, models.KindNote, preview(n.Content, notePreviewRunes)))
		}
		return items
	case TabProblems:
		items := make([]Item, 0, len(p.Problems))
		for _, pr := range p.Problems {
			items = append(items, itemFor(pr.Record, models.KindProblem, string(pr.Difficulty)))
		}
		return items
	}

	items := make([]Item, 0, len(p.Blogs))
	for _, b := range p.Blogs {
		detail := fmt.Sprintf("%d min read", b.ReadTime)
		if b.Category != "" {
			detail = b.Category + " · " + detail
		}
		items = append(items, itemFor(b.Record, models.KindBlog, detail))
	}
	return items
}

func itemFor(r models.Record, kind models.ContentKind, detail string) Item {
	return Item{
		ID:        r.ID,
		Kind:      kind,
		Title:     r.Title,
		Author:    r.Author.Name,
		CreatedAt: r.CreatedAt,
		Detail:    detail,
	}
}

// preview truncates s to at most n runes, appending an ellipsis when cut.
func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
