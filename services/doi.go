package services

import (
	"fmt"
	"strings"
)

// FormatDOI mints the deterministic DOI string for a published paper:
// {prefix}/{journal_short}.{year}.{VV}{II}{PP} with the volume, issue and
// paper number each zero-padded to two digits.
func FormatDOI(prefix, shortCode string, year, volume, issue, paperNumber int) string {
	return fmt.Sprintf("%s/%s.%d.%02d%02d%02d",
		prefix,
		strings.ToLower(shortCode),
		year,
		volume,
		issue,
		paperNumber,
	)
}
