package server

import (
	"github.com/studyglobal/fxcore/convert"
	"github.com/studyglobal/fxcore/currency"
)

type ConvertResponse struct {
	From      currency.Code `json:"from"`
	To        currency.Code `json:"to"`
	Formatted string        `json:"formatted"`
	Source    string        `json:"source"`
	Amount    float64       `json:"amount"`
	Result    float64       `json:"result"`
}

type FormatResponse struct {
	Currency  currency.Code `json:"currency"`
	Formatted string        `json:"formatted"`
	Amount    float64       `json:"amount"`
}

type TuitionResponse struct {
	Currency currency.Code   `json:"currency"`
	Display  convert.Display `json:"display"`
}

type CurrencyInfo struct {
	Code   currency.Code `json:"code"`
	Symbol string        `json:"symbol"`
}

type CurrenciesResponse struct {
	Results []CurrencyInfo `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
