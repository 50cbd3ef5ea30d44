package resolver

import "testing"

func TestStandardize(t *testing.T) {
	std := NewStandardizer(DefaultAliasGroups())

	cases := []struct {
		in   string
		want string
	}{
		{"BEP20", "BSC"},
		{"BNB Smart Chain (BEP20)", "BSC"},
		{"BNB Smart Chain", "BSC"},
		{"bep-20", "BSC"},
		{"ERC20", "ETH"},
		{"Ethereum (ERC20)", "ETH"},
		{"ethereum", "ETH"},
		{"TRC20", "TRX"},
		{"Tron (TRC20)", "TRX"},
		{"Arbitrum One", "ARBITRUM"},
		{"ARB", "ARBITRUM"},
		{"Polygon PoS", "POLYGON"},
		{"MATIC", "POLYGON"},
		{"OP Mainnet", "OPTIMISM"},
		{"Avalanche C-Chain", "AVAX"},
		{"AVAXC", "AVAX"},
		{"Solana", "SOL"},
		{"Bitcoin", "BTC"},
		{"XRP Ledger", "XRP"},
		{"The Open Network", "TON"},
		{"APT", "APTOS"},
		{"ORDIBTC", "BRC20"},
		{"ORDI-BRC20", "BRC20"},

		// Parenthesized fragments are stripped before lookup, so an unknown
		// label with a qualifier collapses to its bare form.
		{"Base (OP Stack)", "BASE"},

		// Unknown labels pass through cleaned but uncanonicalized.
		{"KAVAEVM", "KAVAEVM"},
		{"  Starknet  ", "STARKNET"},

		{"", ""},
	}
	for _, tc := range cases {
		if got := std.Standardize(tc.in); got != tc.want {
			t.Errorf("Standardize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Bare "BTC" must resolve to the native Bitcoin group even though the BRC20
// group also lists it as an alias; earlier groups win overlaps.
func TestStandardizeBTCOverlap(t *testing.T) {
	std := NewStandardizer(DefaultAliasGroups())
	if got := std.Standardize("BTC"); got != "BTC" {
		t.Fatalf("Standardize(BTC) = %q, want BTC", got)
	}
}

func TestStandardizeIdempotent(t *testing.T) {
	std := NewStandardizer(DefaultAliasGroups())
	inputs := []string{"BEP20", "Ethereum (ERC20)", "Arbitrum One", "AVAXC", "KAVAEVM", "BTC", ""}
	for _, in := range inputs {
		once := std.Standardize(in)
		if twice := std.Standardize(once); twice != once {
			t.Errorf("Standardize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestStandardizeAliasGroupEquivalence(t *testing.T) {
	std := NewStandardizer(DefaultAliasGroups())
	for _, g := range DefaultAliasGroups() {
		if g.Code == "BRC20" {
			// BTC overlaps with the native group on purpose.
			continue
		}
		for _, alias := range g.Aliases {
			if got := std.Standardize(alias); got != g.Code {
				t.Errorf("Standardize(%q) = %q, want %q", alias, got, g.Code)
			}
		}
	}
}
