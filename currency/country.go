package currency

import "strings"

// countryCurrencies maps common country-name spellings (and aliases)
// to the currency programs in that country are priced in
var countryCurrencies = map[string]Code{
	"nigeria": NGN,

	"united states":            USD,
	"united states of america": USD,
	"usa":                      USD,
	"us":                       USD,
	"america":                  USD,

	"united kingdom": GBP,
	"uk":             GBP,
	"england":        GBP,
	"scotland":       GBP,
	"wales":          GBP,
	"great britain":  GBP,

	"canada":      CAD,
	"australia":   AUD,
	"switzerland": CHF,
	"sweden":      SEK,
	"norway":      NOK,
	"denmark":     DKK,
	"japan":       JPY,
	"singapore":   SGD,
	"new zealand": NZD,
	"hong kong":   HKD,

	"germany":         EUR,
	"france":          EUR,
	"netherlands":     EUR,
	"the netherlands": EUR,
	"holland":         EUR,
	"ireland":         EUR,
	"spain":           EUR,
	"italy":           EUR,
	"portugal":        EUR,
	"austria":         EUR,
	"belgium":         EUR,
	"finland":         EUR,
	"greece":          EUR,
}

// CurrencyForCountry resolves the country name to its currency code.
// Matching is case-insensitive; unmapped input resolves to USD
func CurrencyForCountry(country string) Code {
	c, ok := countryCurrencies[strings.ToLower(strings.TrimSpace(country))]
	if !ok {
		return USD
	}

	return c
}
