package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marinaops/internal/domain"
)

func TestGPS(t *testing.T) {
	for _, ok := range []string{"41.5 -71.3", "41.5,-71.3", "41.5, -71.3", "-90 180"} {
		assert.NoError(t, GPS(ok), ok)
	}
	for _, bad := range []string{"", "41.5", "91 10", "10 181", "north south", "1 2 3"} {
		err := GPS(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("email", "ops@harbor.test"))
	assert.ErrorIs(t, Email("email", "ops-at-harbor"), domain.ErrValidation)
	assert.ErrorIs(t, Email("email", "  "), domain.ErrValidation)
}

func TestNumbersAndFirst(t *testing.T) {
	assert.NoError(t, NonNegative("cost", 0))
	assert.Error(t, NonNegative("cost", -1))
	assert.Error(t, Positive("amount", 0))

	err := First(nil, Required("name", " "), Positive("amount", 0))
	assert.EqualError(t, err, "name is required")
}
