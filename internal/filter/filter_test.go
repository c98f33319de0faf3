package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marinaops/internal/domain"
	"marinaops/internal/page"
)

var yardEntity = &Entity{
	Table:   "boatyards",
	Alias:   "b",
	Columns: []string{"b.id", "b.name"},
	Joins: []string{
		"LEFT JOIN states st ON st.id = b.state_id",
	},
	Owner: NumberField("b.owner_id"),
	Search: []Field{
		TextField("b.name"),
		TextField("st.name"),
		CentsField("b.fee_cents"),
	},
	Sort: map[string]string{"name": "b.name"},
}

type scope struct {
	unrestricted bool
	owner        int64
}

func (s scope) Unrestricted() bool { return s.unrestricted }
func (s scope) OwnerID() int64     { return s.owner }

func TestSearch_BlankIsTrue(t *testing.T) {
	sql, args := Compile(Search(yardEntity, "   "))
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, args)
}

func TestSearch_TextOnly(t *testing.T) {
	sql, args := Compile(Search(yardEntity, "Harbor"))
	assert.Equal(t, "(LOWER(b.name) LIKE $1 OR LOWER(st.name) LIKE $2)", sql)
	assert.Equal(t, []any{"%harbor%", "%harbor%"}, args)
}

func TestSearch_NumericAddsExactMatch(t *testing.T) {
	sql, args := Compile(Search(yardEntity, "12.50"))
	assert.Equal(t, "(LOWER(b.name) LIKE $1 OR LOWER(st.name) LIKE $2 OR b.fee_cents = $3)", sql)
	assert.Equal(t, []any{"%12.50%", "%12.50%", int64(1250)}, args)
}

func TestSearch_FractionalCentsSkipsNumeric(t *testing.T) {
	_, args := Compile(Search(yardEntity, "1.005"))
	assert.Len(t, args, 2)
}

func TestSearch_EscapesLikeWildcards(t *testing.T) {
	_, args := Compile(Search(yardEntity, "50%_off"))
	assert.Equal(t, `%50\%\_off%`, args[0])
}

func TestScoped_AddsOwnerPredicate(t *testing.T) {
	sql, args := Compile(Scoped(yardEntity, scope{owner: 7}, "dock"))
	assert.Equal(t, "(b.owner_id = $1 AND (LOWER(b.name) LIKE $2 OR LOWER(st.name) LIKE $3))", sql)
	assert.Equal(t, []any{int64(7), "%dock%", "%dock%"}, args)
}

func TestScoped_OwnerOnlyWhenNoText(t *testing.T) {
	sql, args := Compile(Scoped(yardEntity, scope{owner: 3}, ""))
	assert.Equal(t, "b.owner_id = $1", sql)
	assert.Equal(t, []any{int64(3)}, args)
}

func TestScoped_UnrestrictedHasNoOwnerPredicate(t *testing.T) {
	sql, args := Compile(Scoped(yardEntity, scope{unrestricted: true}, ""))
	assert.Equal(t, "TRUE", sql)
	assert.Empty(t, args)
}

func TestCompile_EmptyAnyIsFalse(t *testing.T) {
	sql, _ := Compile(Any{})
	assert.Equal(t, "FALSE", sql)
}

func TestQuery_SelectAndCount(t *testing.T) {
	q, err := NewQuery(yardEntity, Scoped(yardEntity, scope{owner: 9}, ""), page.Request{PageNumber: 1, PageSize: 10, SortBy: "name", SortDir: "desc"})
	require.NoError(t, err)

	sel, args := q.Select()
	assert.Equal(t,
		"SELECT b.id, b.name FROM boatyards b LEFT JOIN states st ON st.id = b.state_id WHERE b.owner_id = $1 ORDER BY b.name DESC, b.id ASC LIMIT $2 OFFSET $3",
		sel)
	assert.Equal(t, []any{int64(9), 10, 10}, args)

	cnt, cargs := q.Count()
	assert.Equal(t, "SELECT COUNT(*) FROM boatyards b LEFT JOIN states st ON st.id = b.state_id WHERE b.owner_id = $1", cnt)
	assert.Equal(t, []any{int64(9)}, cargs)
}

func TestQuery_DefaultSortIsID(t *testing.T) {
	q, err := NewQuery(yardEntity, True{}, page.Request{})
	require.NoError(t, err)
	sel, args := q.Select()
	assert.Contains(t, sel, "ORDER BY b.id ASC LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{page.DefaultPageSize, 0}, args)
}

func TestQuery_RejectsUnknownSort(t *testing.T) {
	_, err := NewQuery(yardEntity, True{}, page.Request{SortBy: "password"})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestMatch_MirrorsCompile(t *testing.T) {
	row := func(values map[string]any) Row {
		return func(expr string) any { return values[expr] }
	}
	mine := row(map[string]any{"b.owner_id": int64(7), "b.name": "North Harbor", "st.name": nil, "b.fee_cents": int64(1250)})
	theirs := row(map[string]any{"b.owner_id": int64(8), "b.name": "North Harbor"})

	p := Scoped(yardEntity, scope{owner: 7}, "HARBOR")
	assert.True(t, Match(p, mine))
	assert.False(t, Match(p, theirs))
	assert.False(t, Match(Scoped(yardEntity, scope{owner: 7}, "marina"), mine))
	assert.True(t, Match(Search(yardEntity, "12.5"), mine))
	assert.True(t, Match(Scoped(yardEntity, scope{unrestricted: true}, ""), theirs))
}
