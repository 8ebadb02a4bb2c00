// Package convert is the single entry point for currency conversion
// and money formatting. Every method returns a usable value under all
// failure conditions; degraded output is always preferred to an error
package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/types"
)

// DefaultHomeCurrency is the viewer's home currency used for
// secondary conversion displays
const DefaultHomeCurrency = currency.NGN

var errInvalidResolver = errors.New("invalid rate resolver")

// RateResolver resolves a rate for an ordered currency pair.
// It must not fail
type RateResolver interface {
	ResolveRate(ctx context.Context, from, to currency.Code) types.Entry
}

// Converter converts and formats amounts between currencies
type Converter struct {
	resolver RateResolver
	logger   *slog.Logger
	home     currency.Code
}

// New creates a new conversion facade
func New(resolver RateResolver, opts ...Option) (*Converter, error) {
	if resolver == nil {
		return nil, errInvalidResolver
	}

	c := &Converter{
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		home:     DefaultHomeCurrency,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Home returns the configured viewer home currency
func (c *Converter) Home() currency.Code {
	return c.home
}

// Convert converts the amount between currencies using only the
// static rate table. It is synchronous and safe for contexts that
// cannot block on I/O, such as list sorting
func (c *Converter) Convert(amount float64, from, to currency.Code) float64 {
	if amount <= 0 {
		return 0
	}

	return amount * currency.RateToUSD(to) / currency.RateToUSD(from)
}

// ConvertLive converts the amount through the full resolution
// pipeline (live provider, cache, static fallback), reporting how
// the rate was obtained alongside the result
func (c *Converter) ConvertLive(
	ctx context.Context,
	amount float64,
	from, to currency.Code,
) (float64, types.Source) {
	// Non-positive amounts never spend network budget
	if amount <= 0 {
		return 0, types.SourceFallback
	}

	entry := c.resolver.ResolveRate(ctx, from, to)

	return amount * entry.Rate, entry.Source
}

// Format renders the amount as a money string in the given currency,
// using only static data
func (c *Converter) Format(amount float64, code currency.Code) string {
	return currency.FormatAmount(code, amount)
}

// FormatLive converts the amount through the full resolution
// pipeline and renders the result in the target currency
func (c *Converter) FormatLive(
	ctx context.Context,
	amount float64,
	from, to currency.Code,
) string {
	converted, _ := c.ConvertLive(ctx, amount, from, to)

	return currency.FormatAmount(to, converted)
}

// DisplayOptions controls tuition display composition
type DisplayOptions struct {
	// ShowConversion adds a secondary home-currency approximation
	// when the destination currency differs from the viewer's
	ShowConversion bool
}

// Display is a render-ready tuition price
type Display struct {
	// Primary is the amount in the program's native currency.
	// Always present
	Primary string `json:"primary"`

	// Secondary is the approximate amount in the viewer's home
	// currency, if requested and applicable
	Secondary string `json:"secondary,omitempty"`

	// IsRealTime reports whether the secondary conversion used a
	// live provider rate for this specific call
	IsRealTime bool `json:"is_real_time"`
}

// DisplayTuition resolves the program's native currency from the
// destination country and composes the display strings.
// It always yields a usable Primary, whatever the network, quota
// or input state
func (c *Converter) DisplayTuition(
	ctx context.Context,
	amount float64,
	country string,
	opts DisplayOptions,
) Display {
	native := currency.CurrencyForCountry(country)

	if amount < 0 {
		amount = 0
	}

	display := Display{
		Primary: currency.FormatAmount(native, amount),
	}

	if !opts.ShowConversion || native == c.home || amount == 0 {
		return display
	}

	entry := c.resolver.ResolveRate(ctx, native, c.home)

	c.logger.Debug(
		"resolved tuition conversion rate",
		"from", native,
		"to", c.home,
		"rate", entry.Rate,
		"source", entry.Source,
	)

	display.Secondary = "≈ " + currency.FormatAmount(c.home, amount*entry.Rate)
	display.IsRealTime = entry.Source == types.SourceAPI

	return display
}
