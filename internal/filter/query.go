package filter

import (
	"strings"

	"marinaops/internal/domain"
	"marinaops/internal/page"
)

// Query is a filtered, sorted, paginated list over one Entity.
type Query struct {
	Entity *Entity
	Where  Predicate
	order  string
	desc   bool
	limit  int
	offset int
}

// NewQuery validates req's sort field against e and captures paging.
func NewQuery(e *Entity, where Predicate, req page.Request) (Query, error) {
	req = req.Normalize()
	expr, ok := e.SortExpr(req.SortBy)
	if !ok {
		return Query{}, domain.Invalidf("cannot sort by %q", req.SortBy)
	}
	return Query{
		Entity: e,
		Where:  where,
		order:  expr,
		desc:   req.Desc(),
		limit:  req.PageSize,
		offset: req.Offset(),
	}, nil
}

func (q Query) from(sb *strings.Builder) {
	sb.WriteString(" FROM ")
	sb.WriteString(q.Entity.Table)
	sb.WriteString(" ")
	sb.WriteString(q.Entity.Alias)
	for _, j := range q.Entity.Joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
}

// Select renders the page query.
func (q Query) Select() (string, []any) {
	var b builder
	b.sb.WriteString("SELECT ")
	b.sb.WriteString(strings.Join(q.Entity.Columns, ", "))
	q.from(&b.sb)
	b.sb.WriteString(" WHERE ")
	compileInto(&b, q.Where)

	dir := " ASC"
	if q.desc {
		dir = " DESC"
	}
	b.sb.WriteString(" ORDER BY ")
	b.sb.WriteString(q.order)
	b.sb.WriteString(dir)
	if idCol := q.Entity.Col("id"); q.order != idCol {
		b.sb.WriteString(", ")
		b.sb.WriteString(idCol)
		b.sb.WriteString(" ASC")
	}
	b.sb.WriteString(" LIMIT ")
	b.sb.WriteString(b.arg(q.limit))
	b.sb.WriteString(" OFFSET ")
	b.sb.WriteString(b.arg(q.offset))
	return b.sb.String(), b.args
}

// Count renders the total-size query for the same filter.
func (q Query) Count() (string, []any) {
	var b builder
	b.sb.WriteString("SELECT COUNT(*)")
	q.from(&b.sb)
	b.sb.WriteString(" WHERE ")
	compileInto(&b, q.Where)
	return b.sb.String(), b.args
}
