package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, ErrMissingReference},
		{"wrapped postgres foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), ErrMissingReference},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"gorm translated foreign key", gorm.ErrForeignKeyViolated, ErrMissingReference},
		{"gorm translated duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"sqlite message", errors.New("FOREIGN KEY constraint failed"), ErrMissingReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, classify(tt.in), tt.want)
		})
	}
}

func TestClassify_PassesThroughOtherErrors(t *testing.T) {
	t.Parallel()
	other := &pgconn.PgError{Code: "57014"}
	assert.Same(t, other, classify(other))
	assert.NoError(t, classify(nil))
}
