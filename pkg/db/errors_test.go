package db

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{
			name: "postgres phrasing",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_orders_public_id" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "sqlite phrasing",
			err:  errors.New("UNIQUE constraint failed: orders.public_id"),
			want: true,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("creating order: %w", errors.New("UNIQUE constraint failed: orders.public_id")),
			want: true,
		},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
