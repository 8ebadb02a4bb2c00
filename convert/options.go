package convert

import (
	"log/slog"

	"github.com/studyglobal/fxcore/currency"
)

type Option func(c *Converter)

// WithLogger specifies the logger for the converter
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithHomeCurrency specifies the viewer's home currency.
// Defaults to NGN
func WithHomeCurrency(code currency.Code) Option {
	return func(c *Converter) {
		c.home = currency.Normalize(code.String())
	}
}
