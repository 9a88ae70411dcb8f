// Package currency formats monetary amounts for form display.
//
// Fraction digits follow the CLDR standard rounding of each currency, so USD
// renders with cents and KRW renders whole won.
package currency

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	usdSymbol = "$"
	krwSymbol = "₩"
)

// FormatUSD formats v as US dollars with cents, e.g. "$1,125.00".
func FormatUSD(v float64) string {
	return format(language.AmericanEnglish, usdSymbol, fractionDigits(currency.USD), v)
}

// FormatUSDWhole formats v as whole US dollars, e.g. "$100,000".
func FormatUSDWhole(v float64) string {
	return format(language.AmericanEnglish, usdSymbol, 0, v)
}

// FormatKRW formats v as Korean won, e.g. "₩1,500,000".
func FormatKRW(v float64) string {
	return format(language.Korean, krwSymbol, fractionDigits(currency.KRW), v)
}

func fractionDigits(unit currency.Unit) int {
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

func format(tag language.Tag, symbol string, digits int, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	printer := message.NewPrinter(tag)
	return sign + symbol + printer.Sprintf(fmt.Sprintf("%%.%df", digits), v)
}
