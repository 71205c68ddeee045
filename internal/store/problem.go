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
	"devmastery/internal/taxonomy"
)

// ProblemStore handles LeetCode problem database operations.
type ProblemStore struct {
	db *sql.DB
}

// NewProblemStore creates a new ProblemStore with the given database connection.
func NewProblemStore(db *sql.DB) *ProblemStore {
	return &ProblemStore{db: db}
}

const problemColumns = recordColumns + `, c.difficulty, c.description, c.leetcode_url`

func problemDest(p *models.Problem) []any {
	return append(recordDest(&p.Record), &p.Difficulty, &p.Description, &p.LeetcodeURL)
}

// List returns problems in scope, newest first. Solutions and resources
// are not loaded.
func (s *ProblemStore) List(ctx context.Context, scope taxonomy.Scope) ([]models.Problem, error) {
	conds, args := scopeWhere(scope, "c", nil, nil)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+problemColumns+`
		FROM leetcode_problems c JOIN users u ON u.id = c.author_id
		`+whereClause(conds)+`
		ORDER BY c.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()

	problems := []models.Problem{}
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(problemDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

// FindByID retrieves a problem with its solutions and resources. Returns
// nil if not found.
func (s *ProblemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Problem, error) {
	p := &models.Problem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+problemColumns+`
		FROM leetcode_problems c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id).Scan(problemDest(p)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find problem by id: %w", err)
	}

	if p.Solutions, err = s.solutions(ctx, id); err != nil {
		return nil, err
	}
	if p.Resources, err = s.resources(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProblemStore) solutions(ctx context.Context, problemID uuid.UUID) ([]models.ProblemSolution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, problem_id, language, code, explanation, time_complexity, space_complexity, created_at
		FROM problem_solutions WHERE problem_id = $1
		ORDER BY created_at
	`, problemID)
	if err != nil {
		return nil, fmt.Errorf("list solutions: %w", err)
	}
	defer rows.Close()

	var out []models.ProblemSolution
	for rows.Next() {
		var ps models.ProblemSolution
		if err := rows.Scan(
			&ps.ID, &ps.ProblemID, &ps.Language, &ps.Code, &ps.Explanation,
			&ps.TimeComplexity, &ps.SpaceComplexity, &ps.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan solution: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *ProblemStore) resources(ctx context.Context, problemID uuid.UUID) ([]models.ProblemResource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, problem_id, title, url, type, created_at
		FROM problem_resources WHERE problem_id = $1
		ORDER BY created_at
	`, problemID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []models.ProblemResource
	for rows.Next() {
		var pr models.ProblemResource
		if err := rows.Scan(&pr.ID, &pr.ProblemID, &pr.Title, &pr.URL, &pr.Type, &pr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// Create inserts a problem together with its solutions and resources in a
// single transaction.
func (s *ProblemStore) Create(ctx context.Context, p *models.Problem) (*models.Problem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create problem begin tx: %w", err)
	}
	defer tx.Rollback()

	result := *p
	err = tx.QueryRowContext(ctx, `
		INSERT INTO leetcode_problems (title, difficulty, description, leetcode_url,
		                               author_id, topic_id, sub_topic_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Difficulty, p.Description, p.LeetcodeURL, p.AuthorID, p.TopicID, p.SubTopicID,
	).Scan(&result.ID, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}

	result.Solutions = make([]models.ProblemSolution, len(p.Solutions))
	for i, ps := range p.Solutions {
		ps.ProblemID = result.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO problem_solutions (problem_id, language, code, explanation,
			                               time_complexity, space_complexity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, ps.ProblemID, ps.Language, ps.Code, ps.Explanation, ps.TimeComplexity, ps.SpaceComplexity,
		).Scan(&ps.ID, &ps.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("create solution: %w", err)
		}
		result.Solutions[i] = ps
	}

	result.Resources = make([]models.ProblemResource, len(p.Resources))
	for i, pr := range p.Resources {
		pr.ProblemID = result.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO problem_resources (problem_id, title, url, type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, pr.ProblemID, pr.Title, pr.URL, pr.Type).Scan(&pr.ID, &pr.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("create resource: %w", err)
		}
		result.Resources[i] = pr
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create problem commit: %w", err)
	}
	return &result, nil
}
