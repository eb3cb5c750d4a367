package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// storeError translates Postgres integrity violations (SQLSTATE class 23)
// into *domain.DataIntegrityError and wraps everything else.
func storeError(action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		detail := pgErr.Detail
		if detail == "" {
			detail = pgErr.Message
		}
		return &domain.DataIntegrityError{
			Constraint: pgErr.ConstraintName,
			Detail:     detail,
			Err:        err,
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func affectedOne(result sql.Result, resource string, id uuid.UUID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q literally anywhere in a column
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// whereClause accumulates numbered predicates for a dynamically built query
type whereClause struct {
	conds []string
	args  []any
}

// add appends cond with every "?" bound to the same positional argument.
func (w *whereClause) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
