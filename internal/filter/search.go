package filter

import (
	"math"
	"strconv"
	"strings"
)

// Scope is the ownership restriction applied to a list.
type Scope interface {
	Unrestricted() bool
	OwnerID() int64
}

// Search matches text against e's search fields: substring on text
// fields, and exact value on numeric fields when text parses as a number.
// Blank text matches everything.
func Search(e *Entity, text string) Predicate {
	text = strings.TrimSpace(text)
	if text == "" {
		return True{}
	}
	lowered := strings.ToLower(text)
	var or Any
	for _, f := range e.Search {
		switch f.Kind {
		case Text:
			or = append(or, Contains{Field: f, Text: lowered})
		case Numeric:
			if v, ok := scaledValue(text, f.Scale); ok {
				or = append(or, Equals{Field: f, Value: v})
			}
		}
	}
	return or
}

// Scoped is Search AND-ed with the ownership predicate of s. Unrestricted
// scopes add no ownership predicate.
func Scoped(e *Entity, s Scope, text string) Predicate {
	search := Search(e, text)
	if s == nil || s.Unrestricted() {
		return search
	}
	return All{OwnedBy(e, s.OwnerID()), search}
}

func scaledValue(text string, scale int64) (int64, bool) {
	if scale <= 0 {
		scale = 1
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(text, "$"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	v := f * float64(scale)
	r := math.Round(v)
	if math.Abs(v-r) > 1e-6 || math.Abs(r) > math.MaxInt64/2 {
		return 0, false
	}
	return int64(r), true
}
