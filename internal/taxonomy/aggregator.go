// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"devmastery/internal/models"
)

// DefaultFetchTimeout bounds each per-kind fetch when no timeout is configured.
const DefaultFetchTimeout = 10 * time.Second

// PageContent is the aggregated content of one taxonomy scope.
type PageContent struct {
	Blogs      []models.Blog    `json:"blogs"`
	Notes      []models.Note    `json:"notes"`
	Problems   []models.Problem `json:"problems"`
	TotalCount int              `json:"totalCount"`

	// Failed lists the kinds that were served empty because their fetch
	// failed, in blog, note, problem order.
	Failed []models.ContentKind `json:"failed,omitempty"`
}

// IsEmpty reports whether the scope resolved but has no content at all.
func (p PageContent) IsEmpty() bool {
	return p.TotalCount == 0
}

// Complete reports whether every kind was fetched successfully.
func (p PageContent) Complete() bool {
	return len(p.Failed) == 0
}

// Aggregator fetches blogs, notes and problems for a scope concurrently and
// merges them into a PageContent.
type Aggregator struct {
	src     ContentSource
	timeout time.Duration
}

// NewAggregator creates an Aggregator over src. A zero timeout uses
// DefaultFetchTimeout.
func NewAggregator(src ContentSource, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Aggregator{src: src, timeout: timeout}
}

// Aggregate issues the three fetches in parallel and waits for all of them.
// A kind whose fetch fails or times out is served as an empty list; the
// others are unaffected. Aggregate never returns an error.
func (a *Aggregator) Aggregate(ctx context.Context, scope Scope) PageContent {
	var (
		pc            PageContent
		g             errgroup.Group
		okB, okN, okP bool
	)

	g.Go(func() error {
		pc.Blogs, okB = fetchKind(ctx, a.timeout, models.KindBlog, scope, a.src.ListBlogs)
		return nil
	})
	g.Go(func() error {
		pc.Notes, okN = fetchKind(ctx, a.timeout, models.KindNote, scope, a.src.ListNotes)
		return nil
	})
	g.Go(func() error {
		pc.Problems, okP = fetchKind(ctx, a.timeout, models.KindProblem, scope, a.src.ListProblems)
		return nil
	})

	// Every goroutine returns nil; Wait is only the join point.
	_ = g.Wait()

	for _, k := range []struct {
		ok   bool
		kind models.ContentKind
	}{{okB, models.KindBlog}, {okN, models.KindNote}, {okP, models.KindProblem}} {
		if !k.ok {
			pc.Failed = append(pc.Failed, k.kind)
		}
	}

	pc.TotalCount = len(pc.Blogs) + len(pc.Notes) + len(pc.Problems)
	return pc
}

// fetchKind runs one listing under its own timeout and degrades any error
// to an empty, non-nil slice. ok is false when the fetch failed.
func fetchKind[T any](
	ctx context.Context,
	timeout time.Duration,
	kind models.ContentKind,
	scope Scope,
	list func(context.Context, Scope) ([]T, error),
) (items []T, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	items, err := list(ctx, scope)
	fetchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		fetchFailures.WithLabelValues(string(kind)).Inc()
		slog.Warn("content fetch failed, serving empty list",
			"kind", kind,
			"scope", scope.String(),
			"error", err,
		)
		return []T{}, false
	}
	if items == nil {
		return []T{}, true
	}
	return items, true
}
