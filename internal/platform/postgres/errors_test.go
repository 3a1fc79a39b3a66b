package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/ShipIM/database-refactoring/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		wantErr     error
		wantMsgPart string
	}{
		{name: "no rows", err: sql.ErrNoRows, wantErr: store.ErrNotFound},
		{
			name:    "unique violation",
			err:     &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "favourite_pkey"},
			wantErr: store.ErrDuplicate,
		},
		{
			name:        "foreign key violation",
			err:         &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "favourite_item_id_fkey"},
			wantErr:     store.ErrInvalidEntity,
			wantMsgPart: "favourite_item_id_fkey",
		},
		{
			name:        "check violation",
			err:         &pgconn.PgError{Code: checkViolationCode, ConstraintName: "item_component_quantity_check"},
			wantErr:     store.ErrInvalidEntity,
			wantMsgPart: "check constraint violation",
		},
		{
			name:        "not null violation",
			err:         &pgconn.PgError{Code: notNullViolationCode, ColumnName: "name"},
			wantErr:     store.ErrInvalidEntity,
			wantMsgPart: "not null violation (name)",
		},
		{
			name:    "wrapped pg error",
			err:     fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			wantErr: store.ErrDuplicate,
		},
		{name: "unmapped error", err: generic, wantErr: generic},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.wantErr)
			if tt.wantMsgPart != "" {
				assert.Contains(t, got.Error(), tt.wantMsgPart)
			}
		})
	}

	assert.NoError(t, MapError(nil))
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("other")))

	err := MapUniqueViolation(unique, store.ErrLoginExists)
	assert.ErrorIs(t, err, store.ErrLoginExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = MapUniqueViolation(fk, store.ErrLoginExists)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NotErrorIs(t, err, store.ErrLoginExists)
}
