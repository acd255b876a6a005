// Package query implements core.QueryService against Postgres with sqlx.
// It builds single-table statements only: the hosted backend contract is
// equality/range filters, optional ordering and an optional limit.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
)

// identifiers come from code, never from request input; the whitelist is a
// guard against programming mistakes ending up concatenated into SQL
var identRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type PostgresService struct {
	db *sqlx.DB
}

var _ core.QueryService = (*PostgresService)(nil)

func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: sqlx.NewDb(db, "postgres")}
}

func quoteIdent(name string) (string, error) {
	if !identRegex.MatchString(name) {
		return "", errors.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

func (s *PostgresService) Select(ctx context.Context, q core.Query) ([]core.Record, error) {
	table, err := quoteIdent(q.Table)
	if err != nil {
		return nil, err
	}

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString("SELECT * FROM " + table)

	if len(q.Filters) > 0 {
		conds := make([]string, 0, len(q.Filters))
		for _, f := range q.Filters {
			field, err := quoteIdent(f.Field)
			if err != nil {
				return nil, err
			}
			if f.Op == core.FilterNotNull {
				conds = append(conds, field+" IS NOT NULL")
				continue
			}
			args = append(args, f.Value)
			conds = append(conds, fmt.Sprintf("%s %s $%d", field, f.Op, len(args)))
		}
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if q.Order != nil {
		field, err := quoteIdent(q.Order.Field)
		if err != nil {
			return nil, err
		}
		direction := "DESC"
		if q.Order.Ascending {
			direction = "ASC"
		}
		sb.WriteString(" ORDER BY " + field + " " + direction)
	}

	if q.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit))
	}

	rows, err := s.db.QueryxContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", q.Table)
	}
	defer func() { _ = rows.Close() }()

	var out []core.Record
	for rows.Next() {
		rec := make(core.Record)
		if err = rows.MapScan(rec); err != nil {
			return nil, errors.Wrapf(err, "scanning %s row", q.Table)
		}
		out = append(out, normalize(rec))
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s rows", q.Table)
	}
	return out, nil
}

func (s *PostgresService) Insert(ctx context.Context, table string, rec core.Record) (core.Record, error) {
	quoted, err := quoteIdent(table)
	if err != nil {
		return nil, err
	}

	// deterministic column order
	cols := make([]string, 0, len(rec))
	for col := range rec {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	quotedCols := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols))
	for i, col := range cols {
		qc, err := quoteIdent(col)
		if err != nil {
			return nil, err
		}
		quotedCols = append(quotedCols, qc)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, rec[col])
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoted, strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "),
	)

	saved := make(core.Record)
	if err = s.db.QueryRowxContext(ctx, stmt, args...).MapScan(saved); err != nil {
		return nil, errors.Wrapf(err, "inserting into %s", table)
	}
	return normalize(saved), nil
}

func (s *PostgresService) Update(ctx context.Context, table, id string, changes core.Record) error {
	quoted, err := quoteIdent(table)
	if err != nil {
		return err
	}

	cols := make([]string, 0, len(changes))
	for col := range changes {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		qc, err := quoteIdent(col)
		if err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", qc, i+1))
		args = append(args, changes[col])
	}
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", quoted, strings.Join(sets, ", "), len(args))
	_, err = s.db.ExecContext(ctx, stmt, args...)
	return errors.Wrapf(err, "updating %s", table)
}

// normalize smooths driver type variance so Record getters behave the same
// as with the in-memory service ([]byte text columns in particular).
func normalize(rec core.Record) core.Record {
	for k, v := range rec {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
		}
	}
	return rec
}
