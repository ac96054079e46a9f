// Package ordernum formats and validates human-facing order numbers of the
// form ORD-YYYYMMDD-NNNN. The per-day sequence itself is allocated inside the
// order creation transaction; this package only owns the textual contract.
package ordernum

import (
	"fmt"
	"regexp"
	"time"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
)

// MaxPerDay caps the daily sequence. Crossing it fails order creation loudly
// rather than silently widening the number, keeping same-day numbers
// lexicographically sortable.
const MaxPerDay = 9999

const datePattern = "20060102"

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{4}$`)

// Format renders an order number for the given day and sequence value.
// Sequence values start at 1.
func Format(day time.Time, seq int) (string, error) {
	if seq < 1 || seq > MaxPerDay {
		return "", domainErrors.ErrSequenceExhausted
	}
	return fmt.Sprintf("ORD-%s-%04d", day.Format(datePattern), seq), nil
}

// Valid reports whether the string matches the order number contract.
func Valid(number string) bool {
	return numberPattern.MatchString(number)
}
