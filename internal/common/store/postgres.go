package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"github.com/project-tktt/job-insight/internal/common/filter"
)

// PostgresStore keeps one record type in one table. Text fields are stored
// as TEXT and numeric fields as BIGINT.
type PostgresStore[T Record] struct {
	db     *sql.DB
	schema Schema[T]
}

// OpenPostgres opens and pings a connection pool.
func OpenPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore creates the table if needed.
func NewPostgresStore[T Record](ctx context.Context, db *sql.DB, schema Schema[T]) (*PostgresStore[T], error) {
	s := &PostgresStore[T]{db: db, schema: schema}
	if err := s.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("ensure table %s: %w", schema.Name, err)
	}
	return s, nil
}

func (s *PostgresStore[T]) ensureTable(ctx context.Context) error {
	defs := make([]string, 0, len(s.schema.Fields))
	for _, f := range s.schema.Fields {
		typ := "TEXT"
		if s.schema.Numeric[f] {
			typ = "BIGINT"
		}
		def := column(f) + " " + typ
		if f == "id" {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", s.schema.Name, strings.Join(defs, ",\n\t"))
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore[T]) columns() []string {
	cols := make([]string, len(s.schema.Fields))
	for i, f := range s.schema.Fields {
		cols[i] = column(f)
	}
	return cols
}

func (s *PostgresStore[T]) Query(ctx context.Context, p *filter.Predicate, page Page) ([]T, error) {
	var b sqlBuilder
	where := b.where(p, s.schema.has)

	query := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(s.columns(), ", "), s.schema.Name, where)
	if s.schema.has(page.OrderBy) {
		query += " ORDER BY " + column(page.OrderBy)
		if page.Desc {
			query += " DESC"
		}
	}
	if page.Limit > 0 {
		query += " LIMIT " + b.bind(page.Limit)
	}
	if page.Offset > 0 {
		query += " OFFSET " + b.bind(page.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.schema.Name, err)
	}
	defer rows.Close()

	res := make([]T, 0)
	values := make([]sql.NullString, len(s.schema.Fields))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.schema.Name, err)
		}
		r := s.schema.New()
		for i, f := range s.schema.Fields {
			r.SetField(f, values[i].String)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.schema.Name, err)
	}
	return res, nil
}

func (s *PostgresStore[T]) Count(ctx context.Context, p *filter.Predicate) (int64, error) {
	var b sqlBuilder
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.schema.Name, b.where(p, s.schema.has))

	var n int64
	if err := s.db.QueryRowContext(ctx, query, b.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.schema.Name, err)
	}
	return n, nil
}

func (s *PostgresStore[T]) upsertQuery() string {
	cols := s.columns()
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols)-1)
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != "id" {
			updates = append(updates, c+" = EXCLUDED."+c)
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		s.schema.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

// BulkIndex upserts records in one transaction. Each row runs under its own
// savepoint, so a record that fails is logged and skipped without aborting
// the rest of the batch.
func (s *PostgresStore[T]) BulkIndex(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.upsertQuery())
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(s.schema.Fields))
	for _, r := range records {
		for i, f := range s.schema.Fields {
			v, _ := r.Field(f)
			args[i] = v
		}
		if _, err := tx.ExecContext(ctx, savepointRow); err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			slog.Warn("index record failed", slog.String("table", s.schema.Name), slog.String("id", key(r)), slog.Any("error", err))
			if _, err := tx.ExecContext(ctx, rollbackRow); err != nil {
				return fmt.Errorf("rollback to savepoint: %w", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, releaseRow); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const (
	savepointRow = "SAVEPOINT bulk_row"
	rollbackRow  = "ROLLBACK TO SAVEPOINT bulk_row"
	releaseRow   = "RELEASE SAVEPOINT bulk_row"
)

// sqlBuilder accumulates positional arguments while a WHERE clause is
// rendered.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) where(p *filter.Predicate, known func(string) bool) string {
	if p == nil {
		return ""
	}
	return " WHERE " + b.expr(p, known)
}

func (b *sqlBuilder) expr(p *filter.Predicate, known func(string) bool) string {
	switch p.Op {
	case filter.OpLike, filter.OpEq:
		if !known(p.Field) {
			return "FALSE"
		}
		if p.Op == filter.OpEq {
			return column(p.Field) + " = " + b.bind(p.Value)
		}
		return column(p.Field) + ` LIKE ` + b.bind("%"+escapeLike(p.Value)+"%") + ` ESCAPE '\'`
	case filter.OpAnd, filter.OpOr:
		sep := " AND "
		if p.Op == filter.OpOr {
			sep = " OR "
		}
		parts := make([]string, len(p.Terms))
		for i, t := range p.Terms {
			parts[i] = b.expr(t, known)
		}
		return "(" + strings.Join(parts, sep) + ")"
	}
	return "FALSE"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
