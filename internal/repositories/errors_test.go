package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg other code", &pgconn.PgError{Code: "23503"}, false},
		{"gorm duplicated", gorm.ErrDuplicatedKey, true},
		{"message only", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestNotFoundMapsRecordNotFound(t *testing.T) {
	sentinel := errors.New("thing not found")

	assert.ErrorIs(t, notFound(gorm.ErrRecordNotFound, sentinel), sentinel)
	assert.ErrorIs(t, notFound(fmt.Errorf("q: %w", gorm.ErrRecordNotFound), sentinel), sentinel)

	other := errors.New("boom")
	assert.Equal(t, other, notFound(other, sentinel))
}
