package filter

import (
	"fmt"
	"strings"
)

// Row resolves a field expression to its value for one in-memory record.
// A missing or nil value behaves like SQL NULL.
type Row func(expr string) any

// Match evaluates p against row with the same semantics Compile gives
// the database.
func Match(p Predicate, row Row) bool {
	switch v := p.(type) {
	case nil, True:
		return true
	case Contains:
		s, ok := row(v.Field.Expr).(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(v.Text))
	case Equals:
		return equalValues(row(v.Field.Expr), v.Value)
	case All:
		for _, c := range v {
			if !Match(c, row) {
				return false
			}
		}
		return true
	case Any:
		for _, c := range v {
			if Match(c, row) {
				return true
			}
		}
		return false
	}
	return false
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if ai, ok := asInt64(a); ok {
		if bi, ok := asInt64(b); ok {
			return ai == bi
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case *int64:
		if n == nil {
			return 0, false
		}
		return *n, true
	}
	return 0, false
}
