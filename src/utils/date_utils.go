package utils

import (
	"strings"
	"time"
)

// CanonicalDateFormat is the MM/DD/YYYY layout every normalized transaction
// date uses, placeholders like "Various" excepted.
const CanonicalDateFormat = "01/02/2006"

// NormalizeDate rewrites an M/D/YY-style date as MM/DD/YYYY. Input that does
// not split into three /-separated parts (including "Various") is returned
// unchanged; downstream classification treats such values as unparseable
// instead of failing the row.
func NormalizeDate(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return raw
	}
	month, day, year := padTwo(parts[0]), padTwo(parts[1]), parts[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return month + "/" + day + "/" + year
}

func padTwo(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

// IsLongTermHolding reports whether the holding period between two normalized
// dates exceeds one year. The inclusive day count (both endpoints counted)
// must exceed 365: acquired 01/01/2023 and sold 01/01/2024 is long-term,
// sold 12/31/2023 is not. Unparseable dates classify as short-term.
func IsLongTermHolding(dateAcquired, dateSold string) bool {
	acquired, err := time.Parse(CanonicalDateFormat, dateAcquired)
	if err != nil {
		return false
	}
	sold, err := time.Parse(CanonicalDateFormat, dateSold)
	if err != nil {
		return false
	}
	daysHeld := int(sold.Sub(acquired).Hours()/24) + 1
	return daysHeld > 365
}
