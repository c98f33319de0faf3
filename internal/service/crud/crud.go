// Package crud holds the pieces every entity service shares: patch
// application, scoped fetches and business id generation.
package crud

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
)

// MaxIDAttempts bounds business id generation.
const MaxIDAttempts = 100

// Clock is the time source used for audit stamps.
type Clock func() time.Time

// Now returns c(), or time.Now when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// Set overwrites *dst when src is present.
func Set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// SetString is Set with surrounding whitespace removed.
func SetString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// SetRef overwrites a reference when src is present. A non-positive id
// clears it.
func SetRef(dst **int64, src *int64) {
	if src == nil {
		return
	}
	if *src <= 0 {
		*dst = nil
		return
	}
	id := *src
	*dst = &id
}

// Fetch loads a record by id and fails unless scope permits its owner.
func Fetch[T any](ctx context.Context, scope auth.Scope, id int64, get func(context.Context, int64) (*T, error), owner func(*T) int64) (*T, error) {
	rec, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scope.Check(owner(rec)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Taken reports whether a business id is in use.
type Taken func(ctx context.Context, id string) (bool, error)

// BusinessID draws prefix + digits random decimal digits until taken
// reports a free value. After MaxIDAttempts draws it gives up with an
// internal error.
func BusinessID(ctx context.Context, prefix string, digits int, taken Taken) (string, error) {
	limit := 1
	for range digits {
		limit *= 10
	}
	for range MaxIDAttempts {
		id := fmt.Sprintf("%s%0*d", prefix, digits, rand.IntN(limit))
		used, err := taken(ctx, id)
		if err != nil {
			return "", err
		}
		if !used {
			return id, nil
		}
	}
	return "", domain.Internal(fmt.Sprintf("no free %s id after %d attempts", prefix, MaxIDAttempts), errors.New("business id space exhausted"))
}
