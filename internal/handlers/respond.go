// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP endpoints: the public taxonomy
// and content reads, and the admin-only create operations.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"devmastery/internal/models"
	"devmastery/internal/taxonomy"
)

// maxBodyBytes caps admin request bodies.
const maxBodyBytes = 1 << 20

// Store is everything the handlers need from persistence. Find methods
// return (nil, nil) when the record does not exist.
type Store interface {
	taxonomy.Repository

	FindBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	FindNote(ctx context.Context, id uuid.UUID) (*models.Note, error)
	FindProblem(ctx context.Context, id uuid.UUID) (*models.Problem, error)

	NextTopicOrder(ctx context.Context) (int, error)
	NextSubTopicOrder(ctx context.Context, topicID uuid.UUID) (int, error)
	CreateTopic(ctx context.Context, t *models.Topic) (*models.Topic, error)
	CreateSubTopic(ctx context.Context, st *models.SubTopic) (*models.SubTopic, error)
	CreateBlog(ctx context.Context, b *models.Blog) (*models.Blog, error)
	CreateNote(ctx context.Context, n *models.Note) (*models.Note, error)
	CreateProblem(ctx context.Context, p *models.Problem) (*models.Problem, error)
}

// writeJSON encodes data as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeRaw writes an already-encoded JSON body, typically from the cache.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into dst, rejecting unknown
// fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large (max %d bytes)", maxBodyBytes)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: unexpected trailing data")
	}
	return nil
}
