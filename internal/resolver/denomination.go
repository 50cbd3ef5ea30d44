package resolver

import (
	"strconv"
	"strings"
)

// MatchesDenomination reports whether a listed symbol denotes the queried base
// asset, accounting for denominated tickers. Venues sometimes list scaled
// units of an asset under a prefixed symbol ("1000CAT" trading thousandths of
// CAT, "1MBABYDOGE" trading millionths of BABYDOGE); the listing's
// denomination field carries the scale factor.
//
// Three forms match, checked in order:
//
//  1. Exact case-insensitive equality between listed and query symbol.
//  2. denomination > 1 and the listed symbol starts with the denomination's
//     decimal digits: the remainder after the digits must equal the query.
//  3. denomination == 1_000_000 and the listed symbol starts with the literal
//     "1M": the remainder after "1M" must equal the query.
//
// When the listed symbol carries the digit prefix but the remainder differs,
// the match fails outright; the "1M" form is only consulted when the digit
// prefix is absent.
func MatchesDenomination(listedSymbol string, denomination int64, querySymbol string) bool {
	if strings.EqualFold(listedSymbol, querySymbol) {
		return true
	}
	if denomination <= 1 {
		return false
	}

	digits := strconv.FormatInt(denomination, 10)
	if strings.HasPrefix(listedSymbol, digits) {
		return strings.EqualFold(listedSymbol[len(digits):], querySymbol)
	}
	if denomination == 1_000_000 && strings.HasPrefix(listedSymbol, "1M") {
		return strings.EqualFold(listedSymbol[2:], querySymbol)
	}
	return false
}
