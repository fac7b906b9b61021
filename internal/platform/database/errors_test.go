package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("something broke"), false},
		{
			"sqlite unique",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			true,
		},
		{
			"sqlite primary key",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey},
			true,
		},
		{
			"sqlite other constraint",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull},
			false,
		},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres not null", &pgconn.PgError{Code: "23502"}, false},
		{
			"wrapped sqlite unique",
			fmt.Errorf("insert lead: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}),
			true,
		},
		{
			"wrapped postgres unique",
			fmt.Errorf("insert lead: %w", &pgconn.PgError{Code: "23505"}),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
