package types

import (
	"time"

	"github.com/studyglobal/fxcore/currency"
)

// Source tags how a resolved rate was obtained
type Source string

const (
	SourceAPI      Source = "api"      // live provider response
	SourceCache    Source = "cache"    // served from the TTL cache
	SourceFallback Source = "fallback" // static rate table
)

func (s Source) String() string {
	return string(s)
}

// Entry is a single resolved exchange rate for an ordered currency pair
type Entry struct {
	ObtainedAt time.Time     `json:"obtained_at"`
	From       currency.Code `json:"from"`
	To         currency.Code `json:"to"`
	Source     Source        `json:"source"`
	Rate       float64       `json:"rate"`
}

// Pair is an ordered (from, to) currency pair.
// A->B and B->A are distinct pairs: their rates may come
// from different sources
type Pair struct {
	From currency.Code `json:"from"`
	To   currency.Code `json:"to"`
}

// Key derives the deterministic cache / coalescing key for the pair
func (p Pair) Key() string {
	return p.From.String() + "->" + p.To.String()
}
