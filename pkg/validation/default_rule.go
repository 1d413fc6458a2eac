package validation

import (
	"errors"
	"strings"
)

var ErrInvalidCurrency = errors.New("currency must be 2-10 letters or digits")

// NormalizeCurrency upper-cases an ISO-4217 code or a free-form crypto
// symbol (BTC, USDT, ...) and checks its shape. No conversion table is
// involved: wallets only need currencies to compare equal.
func NormalizeCurrency(code string) (string, error) {
	cur := strings.ToUpper(strings.TrimSpace(code))
	if len(cur) < 2 || len(cur) > 10 {
		return "", ErrInvalidCurrency
	}
	for _, r := range cur {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", ErrInvalidCurrency
		}
	}
	return cur, nil
}
