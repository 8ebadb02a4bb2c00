package currency

// RateToUSD returns the static fallback rate for the given code,
// expressed as units of the currency per 1 USD.
// This table is the system's ultimate backstop: it is a total function,
// and codes outside the supported set resolve to 1 (USD equivalence)
func RateToUSD(c Code) float64 {
	switch c {
	case USD:
		return 1
	case NGN:
		return 1500
	case GBP:
		return 0.79
	case EUR:
		return 0.92
	case CAD:
		return 1.36
	case AUD:
		return 1.52
	case CHF:
		return 0.88
	case SEK:
		return 11.25
	case NOK:
		return 10.65
	case DKK:
		return 6.87
	case JPY:
		return 149.5
	case SGD:
		return 1.34
	case NZD:
		return 1.64
	case HKD:
		return 7.82
	default:
		return 1
	}
}

// Symbol returns the display symbol for the given code.
// Unknown codes fall back to the raw code itself
func Symbol(c Code) string {
	switch c {
	case USD:
		return "$"
	case NGN:
		return "₦"
	case GBP:
		return "£"
	case EUR:
		return "€"
	case CAD:
		return "CA$"
	case AUD:
		return "A$"
	case CHF:
		return "CHF"
	case SEK, NOK, DKK:
		return "kr"
	case JPY:
		return "¥"
	case SGD:
		return "S$"
	case NZD:
		return "NZ$"
	case HKD:
		return "HK$"
	default:
		return c.String()
	}
}
