package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/guideworks/guide-lab/pkg/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows maps to not found", sql.ErrNoRows, errNotFound},
		{"wrapped no rows maps to not found", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation maps to duplicate", &pgconn.PgError{Code: "23505"}, errDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMapError_OtherErrorsPassThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	if got := repository.MapError(pgErr, errNotFound, errDuplicate); got != pgErr {
		t.Errorf("expected the original pg error, got %v", got)
	}

	other := errors.New("connection reset")
	if got := repository.MapError(other, errNotFound, errDuplicate); got != other {
		t.Errorf("expected the original error, got %v", got)
	}
}
