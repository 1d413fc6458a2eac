package cli

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

// FormatAmount renders minor units with the currency's symbol and fraction.
// Codes go-money does not know (crypto symbols) are printed raw.
func FormatAmount(amount int64, currency string) string {
	if money.GetCurrency(currency) == nil {
		return fmt.Sprintf("%d %s", amount, currency)
	}
	return money.New(amount, currency).Display()
}
