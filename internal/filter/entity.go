// Package filter builds the WHERE / ORDER BY / LIMIT part of list queries
// from a typed predicate instead of ad-hoc strings. Each record type
// declares an Entity once; predicates may only reference its Fields.
package filter

// FieldKind says how free-text search treats a field.
type FieldKind uint8

const (
	Text FieldKind = iota
	Numeric
)

// Field is a column reachable from an entity's base table, either on the
// table itself or one join away.
type Field struct {
	Expr  string
	Kind  FieldKind
	Scale int64
}

// TextField is matched by case-insensitive substring.
func TextField(expr string) Field {
	return Field{Expr: expr, Kind: Text}
}

// NumberField is matched by exact value.
func NumberField(expr string) Field {
	return Field{Expr: expr, Kind: Numeric, Scale: 1}
}

// CentsField is a money column stored in cents; search text is in units.
func CentsField(expr string) Field {
	return Field{Expr: expr, Kind: Numeric, Scale: 100}
}

// Entity describes how one record type is listed.
type Entity struct {
	Table   string
	Alias   string
	Columns []string
	Joins   []string
	// Owner is the expression holding the owning user id.
	Owner  Field
	Search []Field
	// Sort maps public sort names to expressions. "id" is always allowed.
	Sort map[string]string
}

// Col qualifies a column with the entity alias.
func (e *Entity) Col(name string) string {
	return e.Alias + "." + name
}

// SortExpr resolves a public sort name.
func (e *Entity) SortExpr(name string) (string, bool) {
	if name == "" || name == "id" {
		return e.Col("id"), true
	}
	expr, ok := e.Sort[name]
	return expr, ok
}
