package leads

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as US dollars with cents. A missing or zero
// amount renders as "-".
func FormatCurrency(amount *float64) string {
	if amount == nil || *amount == 0 {
		return "-"
	}
	v := *amount
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + printer.Sprintf("%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatSimpleCurrency renders "$" and a grouped number with up to three
// decimals. A missing or zero amount renders as "Not specified".
func FormatSimpleCurrency(amount *float64) string {
	if amount == nil || *amount == 0 {
		return "Not specified"
	}
	return "$" + printer.Sprintf("%v", number.Decimal(*amount, number.MaxFractionDigits(3)))
}
