package payments

import "testing"

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{150.00, 15000},
		{19.99, 1999},
		{0.01, 1},
		{0, 0},
		{1234.56, 123456},
		{0.1, 10},
		{29.95, 2995},
	}
	for _, tc := range cases {
		if got := MinorUnits(tc.amount); got != tc.want {
			t.Errorf("MinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
