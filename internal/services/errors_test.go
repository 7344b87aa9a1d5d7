package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"unique violation race", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped serialization failure", errors.Wrap(&pgconn.PgError{Code: "40001"}, "upsert tap"), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", errors.Wrap(context.Canceled, "commit"), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestTransientError(t *testing.T) {
	cause := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	err := error(&transientError{cause: cause})

	assert.True(t, errors.Is(err, ErrTransient))
	assert.False(t, errors.Is(err, ErrRoundNotActive))

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Contains(t, err.Error(), "transient store failure")
}
