package currency

import "github.com/leekchan/accounting"

// FormatAmount renders the amount as a locale-correct money string
// for the given currency ("35 000 kr", "₦4,666,667", "$1,200.50").
// It is deterministic and never fails: codes outside the supported
// set render as "<amount> <CODE>" passthrough
func FormatAmount(c Code, amount float64) string {
	ac := formatterFor(c)

	return ac.FormatMoneyFloat64(amount)
}

// formatterFor maps a code to its display formatter.
// Symbol placement and separators follow the common locale
// of each currency's home market
func formatterFor(c Code) accounting.Accounting {
	switch c {
	case USD:
		return accounting.Accounting{Symbol: "$", Precision: 2, Thousand: ",", Decimal: "."}
	case NGN:
		// Tuition-scale amounts, whole naira only
		return accounting.Accounting{Symbol: "₦", Precision: 0, Thousand: ",", Decimal: "."}
	case GBP:
		return accounting.Accounting{Symbol: "£", Precision: 2, Thousand: ",", Decimal: "."}
	case EUR:
		return accounting.Accounting{Symbol: "€", Precision: 2, Thousand: ".", Decimal: ","}
	case CAD:
		return accounting.Accounting{Symbol: "CA$", Precision: 2, Thousand: ",", Decimal: "."}
	case AUD:
		return accounting.Accounting{Symbol: "A$", Precision: 2, Thousand: ",", Decimal: "."}
	case CHF:
		return accounting.Accounting{Symbol: "CHF", Precision: 2, Thousand: "'", Decimal: ".", Format: "%s %v"}
	case SEK, NOK:
		return accounting.Accounting{Symbol: "kr", Precision: 0, Thousand: " ", Decimal: ",", Format: "%v %s"}
	case DKK:
		return accounting.Accounting{Symbol: "kr", Precision: 0, Thousand: ".", Decimal: ",", Format: "%v %s"}
	case JPY:
		return accounting.Accounting{Symbol: "¥", Precision: 0, Thousand: ",", Decimal: "."}
	case SGD:
		return accounting.Accounting{Symbol: "S$", Precision: 2, Thousand: ",", Decimal: "."}
	case NZD:
		return accounting.Accounting{Symbol: "NZ$", Precision: 2, Thousand: ",", Decimal: "."}
	case HKD:
		return accounting.Accounting{Symbol: "HK$", Precision: 2, Thousand: ",", Decimal: "."}
	default:
		// Passthrough representation for unsupported codes
		return accounting.Accounting{Symbol: c.String(), Precision: 2, Thousand: ",", Decimal: ".", Format: "%v %s"}
	}
}
