package resolver

import "testing"

func TestMatchesDenomination(t *testing.T) {
	cases := []struct {
		name   string
		listed string
		denom  int64
		query  string
		want   bool
	}{
		{"exact", "PEPE", 1, "PEPE", true},
		{"exact case-insensitive", "pepe", 1, "PEPE", true},
		{"exact zero denomination", "BTC", 0, "btc", true},
		{"different symbols", "DOGE", 1, "PEPE", false},

		{"thousand prefix", "1000CAT", 1000, "CAT", true},
		{"thousand prefix case-insensitive", "1000cat", 1000, "CAT", true},
		{"thousand prefix wrong remainder", "1000CAT", 1000, "DOG", false},
		{"ten thousand prefix", "10000SATS", 10000, "SATS", true},
		{"million digit prefix", "1000000MOG", 1_000_000, "MOG", true},

		{"1M prefix", "1MBABYDOGE", 1_000_000, "BABYDOGE", true},
		{"1M prefix wrong remainder", "1MBABYDOGE", 1_000_000, "DOGE", false},
		{"1M prefix wrong denomination", "1MBABYDOGE", 1000, "BABYDOGE", false},

		{"digit prefix wrong remainder", "1000000X", 1_000_000, "0X", false},

		{"denomination one blocks prefix", "1000CAT", 1, "CAT", false},
		{"no digit prefix to strip", "SATOSHI", 1000, "SATS", false},
		{"query carries the prefix", "1000CAT", 1000, "1000CAT", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesDenomination(tc.listed, tc.denom, tc.query); got != tc.want {
				t.Errorf("MatchesDenomination(%q, %d, %q) = %v, want %v",
					tc.listed, tc.denom, tc.query, got, tc.want)
			}
		})
	}
}
