package common

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders a whole-rupee amount with Indian digit grouping, e.g. ₹9,60,000.
func FormatINR(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	return inrPrinter.Sprintf("₹%v", number.Decimal(whole))
}

// FormatINRFloat is FormatINR for float inputs.
func FormatINRFloat(amount float64) string {
	return FormatINR(decimal.NewFromFloat(amount))
}
