// Package matching scores (transaction, invoice) pairs. Each strategy is a
// pure function returning a confidence in [0,1] and a match classification; a
// zero Result means the pair is structurally ineligible for that strategy.
package matching

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/models"
)

var tolerance = decimal.RequireFromString("0.01")

type Result struct {
	Confidence float64
	Type       models.MatchType
}

// Matched reports whether a strategy produced a usable classification.
func (r Result) Matched() bool {
	return r.Type != "" && r.Confidence > 0
}

// dayGap is the whole number of days between two dates, ignoring sign.
func dayGap(a, b time.Time) int {
	return int(math.Abs(a.Sub(b).Hours() / 24))
}

// daysAfter is the signed whole number of days a falls after b.
func daysAfter(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}

func containsEither(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// referencesInvoice reports whether text mentions the invoice number, either
// in full or by its prefix before the first "-"/"_" separator.
func referencesInvoice(text, invoiceNumber string) bool {
	if text == "" || invoiceNumber == "" {
		return false
	}
	if containsEither(text, invoiceNumber) {
		return true
	}
	if i := strings.IndexAny(invoiceNumber, "-_"); i > 0 {
		return containsEither(text, invoiceNumber[:i])
	}
	return false
}
