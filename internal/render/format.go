package render

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for every missing value.
const NotAvailable = "N/A"

var spanish = language.MustParse("es-ES")

// newPrinter returns an es-ES printer. Printers are not shared between
// goroutines.
func newPrinter() *message.Printer {
	return message.NewPrinter(spanish)
}

// Price formats an amount in euros, e.g. "12.500,00 €".
func Price(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return newPrinter().Sprintf("%.2f €", *v)
}

// Mileage formats a distance in kilometres, e.g. "45.000 km".
func Mileage(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return newPrinter().Sprintf("%d km", int64(math.Round(*v)))
}

// WeightKB formats an average weight with two decimals, e.g. "123,45 KB".
func WeightKB(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return newPrinter().Sprintf("%.2f KB", *v)
}

// Count formats a whole number with es-ES grouping.
func Count(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NotAvailable
	}
	return newPrinter().Sprintf("%d", int64(math.Round(*v)))
}

// Int formats years and door counts without grouping.
func Int(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

// Text returns s, or NotAvailable for blank and "N/A" values.
func Text(s string) string {
	if present(s) {
		return strings.TrimSpace(s)
	}
	return NotAvailable
}

// Link returns the URL to show for an optional link, or "".
func Link(s *string) string {
	if s == nil || !present(*s) {
		return ""
	}
	return strings.TrimSpace(*s)
}

func present(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, NotAvailable)
}
