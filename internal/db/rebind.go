package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// RebindQuery rewrites ? placeholders to Postgres' $1, $2, ... form.
// Question marks inside single-quoted literals are left alone.
func RebindQuery(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			quoted = !quoted
			b.WriteByte(ch)
		case ch == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

type rebinder struct {
	inner DBTX
}

// Rebind wraps d so every statement is rewritten with RebindQuery.
func Rebind(d DBTX) DBTX {
	return rebinder{inner: d}
}

func (r rebinder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.inner.ExecContext(ctx, RebindQuery(query), args...)
}

func (r rebinder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.inner.QueryContext(ctx, RebindQuery(query), args...)
}

func (r rebinder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return r.inner.QueryRowContext(ctx, RebindQuery(query), args...)
}
