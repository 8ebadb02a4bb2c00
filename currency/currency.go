package currency

import "strings"

// Code is an ISO-4217-style currency code from the supported set
type Code string

const (
	USD Code = "USD"
	NGN Code = "NGN"
	GBP Code = "GBP"
	EUR Code = "EUR"
	CAD Code = "CAD"
	AUD Code = "AUD"
	CHF Code = "CHF"
	SEK Code = "SEK"
	NOK Code = "NOK"
	DKK Code = "DKK"
	JPY Code = "JPY"
	SGD Code = "SGD"
	NZD Code = "NZD"
	HKD Code = "HKD"
)

// Codes returns the supported currency set, in display order
func Codes() []Code {
	return []Code{
		USD, NGN, GBP, EUR, CAD, AUD, CHF,
		SEK, NOK, DKK, JPY, SGD, NZD, HKD,
	}
}

func (c Code) String() string {
	return string(c)
}

// Known reports whether the code is part of the supported set
func (c Code) Known() bool {
	switch c {
	case USD, NGN, GBP, EUR, CAD, AUD, CHF,
		SEK, NOK, DKK, JPY, SGD, NZD, HKD:
		return true
	default:
		return false
	}
}

// Normalize uppercases and trims the given raw code.
// Codes outside the supported set are coerced to USD,
// so unknown input never propagates past the boundary
func Normalize(raw string) Code {
	c := Code(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Known() {
		return USD
	}

	return c
}
