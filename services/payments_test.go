package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		price string
		want  int64
	}{
		{"45.00", 4500},
		{"45", 4500},
		{"0.01", 1},
		{"10.555", 1056},
		{"12.5", 1250},
	}
	for _, tc := range cases {
		got, err := MinorUnits(decimal.RequireFromString(tc.price))
		if err != nil {
			t.Fatalf("MinorUnits(%s): %v", tc.price, err)
		}
		if got != tc.want {
			t.Fatalf("MinorUnits(%s) = %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestMinorUnitsRejectsNonPositive(t *testing.T) {
	for _, price := range []string{"0", "-5", "0.001"} {
		_, err := MinorUnits(decimal.RequireFromString(price))
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("MinorUnits(%s): expected ErrInvalidAmount, got %v", price, err)
		}
	}
}
