package domain

import "fmt"

// Currency maps an ISO-4217 alphabetic code to its numeric ledger id and
// minor-unit exponent. One ledger per currency.
type Currency struct {
	Code     string `json:"code"`
	Ledger   int32  `json:"ledger"`   // ISO-4217 numeric code
	Exponent int32  `json:"exponent"` // Minor unit digits (2 for THB, 0 for JPY)
}

// Currencies the ledger knows about. Extending this table is a schema-safe
// operation because ledger ids follow ISO-4217 numeric codes.
var currencies = map[string]Currency{
	"THB": {Code: "THB", Ledger: 764, Exponent: 2},
	"USD": {Code: "USD", Ledger: 840, Exponent: 2},
	"EUR": {Code: "EUR", Ledger: 978, Exponent: 2},
	"GBP": {Code: "GBP", Ledger: 826, Exponent: 2},
	"JPY": {Code: "JPY", Ledger: 392, Exponent: 0},
	"KRW": {Code: "KRW", Ledger: 410, Exponent: 0},
	"SGD": {Code: "SGD", Ledger: 702, Exponent: 2},
	"INR": {Code: "INR", Ledger: 356, Exponent: 2},
	"AUD": {Code: "AUD", Ledger: 36, Exponent: 2},
	"VND": {Code: "VND", Ledger: 704, Exponent: 0},
}

// CurrencyByCode resolves an alphabetic currency code to its ledger mapping.
func CurrencyByCode(code string) (Currency, error) {
	c, ok := currencies[code]
	if !ok {
		return Currency{}, fmt.Errorf("unknown currency code %q", code)
	}
	return c, nil
}

// CurrencyByLedger resolves a numeric ledger id back to its currency.
func CurrencyByLedger(ledger int32) (Currency, error) {
	for _, c := range currencies {
		if c.Ledger == ledger {
			return c, nil
		}
	}
	return Currency{}, fmt.Errorf("unknown ledger id %d", ledger)
}
