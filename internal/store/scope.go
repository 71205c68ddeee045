// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"devmastery/internal/taxonomy"
)

// ErrDuplicateSlug is returned by Create methods when the slug is already
// taken within its uniqueness domain.
var ErrDuplicateSlug = errors.New("slug already exists")

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// mapInsertErr converts unique violations into ErrDuplicateSlug.
func mapInsertErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateSlug
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scopeWhere appends the filter for scope to conds and args. alias is the
// content table alias. Topic scope matches topic_id only and subtopic scope
// matches sub_topic_id only, so subtopic pages never include records that
// are attached to the parent topic alone.
func scopeWhere(scope taxonomy.Scope, alias string, conds []string, args []any) ([]string, []any) {
	switch {
	case scope.IsTopic():
		args = append(args, scope.TopicSlug())
		conds = append(conds, fmt.Sprintf(
			"%s.topic_id = (SELECT id FROM topics WHERE slug = $%d)", alias, len(args)))

	case scope.IsSubTopic() && scope.TopicSlug() != "":
		args = append(args, scope.SubTopicSlug(), scope.TopicSlug())
		conds = append(conds, fmt.Sprintf(
			"%s.sub_topic_id IN (SELECT st.id FROM sub_topics st JOIN topics tp ON tp.id = st.topic_id"+
				" WHERE st.slug = $%d AND tp.slug = $%d)", alias, len(args)-1, len(args)))

	case scope.IsSubTopic():
		args = append(args, scope.SubTopicSlug())
		conds = append(conds, fmt.Sprintf(
			"%s.sub_topic_id IN (SELECT id FROM sub_topics WHERE slug = $%d)", alias, len(args)))
	}
	return conds, args
}

// whereClause joins conds into a WHERE clause, or returns "" when empty.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}
