package utils

import (
	"testing"

	"busbackend/internal/domain"
)

func TestComputeFare(t *testing.T) {
	cases := []struct {
		name        string
		from, to    domain.City
		largeFamily bool
		want        int64
	}{
		{"direct", domain.Madrid, domain.Barcelona, false, 45},
		{"reverse", domain.Barcelona, domain.Madrid, false, 45},
		{"large family", domain.Madrid, domain.Barcelona, true, 36},
		{"unknown pair", domain.Toledo, domain.Pontevedra, false, DefaultFare},
		{"same city", domain.Soria, domain.Soria, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeFare(tc.from, tc.to, tc.largeFamily); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}
