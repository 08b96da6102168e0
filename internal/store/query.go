package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

type operator int

const (
	opEq operator = iota
	opContainsFold
)

type condition struct {
	column string
	op     operator
	value  string
}

// Filter is a conjunction of column conditions. Column names always come
// from repository code, never from callers. Blank values add no condition.
type Filter struct {
	conds []condition
}

// Eq matches rows whose column equals value.
func (f Filter) Eq(column, value string) Filter {
	if value == "" {
		return f
	}
	f.conds = append(f.conds[:len(f.conds):len(f.conds)], condition{column: column, op: opEq, value: value})
	return f
}

// ContainsFold matches rows whose column contains value, ignoring case.
func (f Filter) ContainsFold(column, value string) Filter {
	if value == "" {
		return f
	}
	f.conds = append(f.conds[:len(f.conds):len(f.conds)], condition{column: column, op: opContainsFold, value: value})
	return f
}

// where renders the filter as a WHERE clause with ? placeholders.
func (f Filter) where() (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(f.conds))
	args := make([]any, 0, len(f.conds))
	for _, c := range f.conds {
		switch c.op {
		case opContainsFold:
			parts = append(parts, "LOWER("+c.column+`) LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(strings.ToLower(c.value))+"%")
		default:
			parts = append(parts, c.column+" = ?")
			args = append(args, c.value)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindOptions controls ordering and windowing of a find.
type FindOptions struct {
	Skip  int
	Limit int
	// Sort is an ORDER BY expression; the table default applies when empty.
	Sort string
}

// table holds the shared query plumbing for one entity type.
type table[T any] struct {
	db *sqlx.DB
	// name is the bare table name used for deletes.
	name string
	// from is the FROM clause used for reads, which may join other tables.
	from string
	// columns is the select list for reads.
	columns string
	// idColumn is the (qualified) primary key column used for reads.
	idColumn string
	// sort is the default ORDER BY expression.
	sort string
}

func (t table[T]) find(ctx context.Context, f Filter, opts FindOptions) ([]T, error) {
	where, args := f.where()
	sort := opts.Sort
	if sort == "" {
		sort = t.sort
	}

	var b strings.Builder
	b.WriteString("SELECT " + t.columns + " FROM " + t.from + where)
	if sort != "" {
		b.WriteString(" ORDER BY " + sort)
	}
	if opts.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, opts.Limit, max(opts.Skip, 0))
	}

	items := []T{}
	if err := t.db.SelectContext(ctx, &items, t.db.Rebind(b.String()), args...); err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (t table[T]) count(ctx context.Context, f Filter) (int, error) {
	where, args := f.where()
	var total int
	query := t.db.Rebind("SELECT COUNT(1) FROM " + t.from + where)
	if err := t.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (t table[T]) findByID(ctx context.Context, id string) (T, error) {
	var item T
	query := t.db.Rebind("SELECT " + t.columns + " FROM " + t.from + " WHERE " + t.idColumn + " = ?")
	if err := t.db.GetContext(ctx, &item, query, id); err != nil {
		return item, classify(err)
	}
	return item, nil
}

func (t table[T]) deleteByID(ctx context.Context, id string) error {
	result, err := t.db.ExecContext(ctx, t.db.Rebind("DELETE FROM "+t.name+" WHERE id = ?"), id)
	if err != nil {
		return classify(err)
	}
	return expectAffected(result)
}

// exec runs a write statement against a single row, reporting ErrNotFound
// when no row matched.
func (t table[T]) exec(ctx context.Context, query string, args ...any) error {
	result, err := t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	if err != nil {
		return classify(err)
	}
	return expectAffected(result)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectAffected(result rowsAffecter) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
