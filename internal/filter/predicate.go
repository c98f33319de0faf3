package filter

import (
	"strconv"
	"strings"
)

// Predicate is one of True, Contains, Equals, All or Any.
type Predicate interface {
	appendSQL(b *builder)
}

// True matches every row.
type True struct{}

// Contains matches when Field contains Text, ignoring case.
type Contains struct {
	Field Field
	Text  string
}

// Equals matches when Field equals Value.
type Equals struct {
	Field Field
	Value any
}

// All is the conjunction of its predicates; empty matches everything.
type All []Predicate

// Any is the disjunction of its predicates; empty matches nothing.
type Any []Predicate

// OwnedBy restricts e to rows owned by ownerID.
func OwnedBy(e *Entity, ownerID int64) Predicate {
	return Equals{Field: e.Owner, Value: ownerID}
}

type builder struct {
	sb   strings.Builder
	args []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Compile renders p as a SQL condition with $n placeholders.
func Compile(p Predicate) (string, []any) {
	var b builder
	compileInto(&b, p)
	return b.sb.String(), b.args
}

func compileInto(b *builder, p Predicate) {
	if p == nil {
		p = True{}
	}
	p.appendSQL(b)
}

func (True) appendSQL(b *builder) {
	b.sb.WriteString("TRUE")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (c Contains) appendSQL(b *builder) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(c.Text)) + "%"
	b.sb.WriteString("LOWER(")
	b.sb.WriteString(c.Field.Expr)
	b.sb.WriteString(") LIKE ")
	b.sb.WriteString(b.arg(pattern))
}

func (e Equals) appendSQL(b *builder) {
	b.sb.WriteString(e.Field.Expr)
	b.sb.WriteString(" = ")
	b.sb.WriteString(b.arg(e.Value))
}

func (a All) appendSQL(b *builder) {
	parts := make([]Predicate, 0, len(a))
	for _, p := range a {
		if p == nil {
			continue
		}
		if _, ok := p.(True); ok {
			continue
		}
		parts = append(parts, p)
	}
	writeGroup(b, parts, " AND ", "TRUE")
}

func (a Any) appendSQL(b *builder) {
	writeGroup(b, a, " OR ", "FALSE")
}

func writeGroup(b *builder, parts []Predicate, sep, empty string) {
	switch len(parts) {
	case 0:
		b.sb.WriteString(empty)
	case 1:
		compileInto(b, parts[0])
	default:
		b.sb.WriteString("(")
		for i, p := range parts {
			if i > 0 {
				b.sb.WriteString(sep)
			}
			compileInto(b, p)
		}
		b.sb.WriteString(")")
	}
}
