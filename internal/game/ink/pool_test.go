package ink

import (
	"errors"
	"testing"
)

func TestPoolPayAndRefresh(t *testing.T) {
	pool := NewPool()
	pool.Add(3)
	pool.Add(0)

	if pool.Capacity() != 3 || pool.Available() != 3 {
		t.Fatalf("expected 3/3 ink, got %d/%d", pool.Available(), pool.Capacity())
	}
	if err := pool.Pay(2); err != nil {
		t.Fatalf("unexpected error paying 2: %v", err)
	}
	if pool.Available() != 1 {
		t.Fatalf("expected 1 ink remaining, got %d", pool.Available())
	}

	err := pool.Pay(2)
	if !errors.Is(err, ErrInsufficientInk) {
		t.Fatalf("expected insufficient ink error, got %v", err)
	}
	if pool.Available() != 1 {
		t.Fatalf("failed payment must not spend ink, got %d", pool.Available())
	}

	if err := pool.Pay(0); err != nil {
		t.Fatalf("free cost should always succeed: %v", err)
	}

	pool.Refresh()
	if pool.Available() != 3 {
		t.Fatalf("expected refreshed pool to have 3 ink, got %d", pool.Available())
	}
}

func TestFold(t *testing.T) {
	cases := []struct {
		name string
		base int
		adj  []int
		want int
	}{
		{"no adjustments", 4, nil, 4},
		{"reduction", 4, []int{-1, -1}, 2},
		{"increase", 2, []int{1}, 3},
		{"floor at zero", 2, []int{-5}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fold(tc.base, tc.adj); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
