package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studyglobal/fxcore/convert"
	"github.com/studyglobal/fxcore/currency"
)

var (
	errInvalidAmount   = errors.New("invalid amount")
	errMissingCountry  = errors.New("missing country")
	errInvalidCurrency = errors.New("invalid currency (must be 3 letters)")
	errInvalidConvert  = errors.New("invalid convert flag")
)

// ConvertAmount converts an amount between two currencies through
// the full resolution pipeline
func (s *Server) ConvertAmount(w http.ResponseWriter, r *http.Request) {
	var (
		fromParam = chi.URLParam(r, "from")
		toParam   = chi.URLParam(r, "to")

		amountParam = r.URL.Query().Get("amount")
	)

	// Parse the source currency
	from, err := parseCurrencySymbol(fromParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the target currency
	to, err := parseCurrencySymbol(toParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the amount
	amount, err := parseAmount(amountParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	result, source := s.converter.ConvertLive(r.Context(), amount, from, to)

	resp := &ConvertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Result:    result,
		Formatted: s.converter.Format(result, to),
		Source:    source.String(),
	}

	writeJSON(w, http.StatusOK, resp)
}

// FormatAmount renders an amount as a money string in the given currency
func (s *Server) FormatAmount(w http.ResponseWriter, r *http.Request) {
	var (
		currencyParam = chi.URLParam(r, "currency")
		amountParam   = r.URL.Query().Get("amount")
	)

	code, err := parseCurrencySymbol(currencyParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	amount, err := parseAmount(amountParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	resp := &FormatResponse{
		Amount:    amount,
		Currency:  code,
		Formatted: s.converter.Format(amount, code),
	}

	writeJSON(w, http.StatusOK, resp)
}

// Tuition composes the tuition display for a destination country
func (s *Server) Tuition(w http.ResponseWriter, r *http.Request) {
	var (
		amountParam  = r.URL.Query().Get("amount")
		countryParam = r.URL.Query().Get("country")
		convertParam = r.URL.Query().Get("convert")
	)

	amount, err := parseAmount(amountParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	country := strings.TrimSpace(countryParam)
	if country == "" {
		writeError(w, http.StatusBadRequest, errMissingCountry)

		return
	}

	showConversion := false

	if convertParam != "" {
		showConversion, err = strconv.ParseBool(convertParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidConvert)

			return
		}
	}

	display := s.converter.DisplayTuition(
		r.Context(),
		amount,
		country,
		convert.DisplayOptions{
			ShowConversion: showConversion,
		},
	)

	resp := &TuitionResponse{
		Currency: currency.CurrencyForCountry(country),
		Display:  display,
	}

	writeJSON(w, http.StatusOK, resp)
}

// Currencies lists the supported currency set
func (s *Server) Currencies(w http.ResponseWriter, _ *http.Request) {
	codes := currency.Codes()

	results := make([]CurrencyInfo, 0, len(codes))
	for _, code := range codes {
		results = append(results, CurrencyInfo{
			Code:   code,
			Symbol: currency.Symbol(code),
		})
	}

	resp := &CurrenciesResponse{
		Results: results,
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseCurrencySymbol validates the shape of the currency code.
// Well-formed but unsupported codes are coerced to USD further down,
// never rejected
func parseCurrencySymbol(v string) (currency.Code, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) != 3 {
		return "", errInvalidCurrency
	}

	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", errInvalidCurrency
		}
	}

	return currency.Normalize(s), nil
}

func parseAmount(v string) (float64, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, errInvalidAmount
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errInvalidAmount
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errInvalidAmount
	}

	return amount, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
