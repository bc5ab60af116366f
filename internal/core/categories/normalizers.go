package categories

import "strings"

// CurrencySymbols maps symbols and names found in fund reports to ISO 4217 codes.
var CurrencySymbols = map[string]string{
	"€":               "EUR",
	"euro":            "EUR",
	"$":               "USD",
	"us$":             "USD",
	"us dollar":       "USD",
	"£":               "GBP",
	"pound sterling":  "GBP",
	"¥":               "JPY",
	"yen":             "JPY",
	"chf":             "CHF",
	"swiss franc":     "CHF",
	"fr.":             "CHF",
	"kr":              "SEK",
	"swedish krona":   "SEK",
	"norwegian krone": "NOK",
	"danish krone":    "DKK",
}

// NormalizeCurrency converts currency symbols and names to their ISO code.
// Anything already looking like a code is upper-cased; the rest is
// returned trimmed.
func NormalizeCurrency(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := CurrencySymbols[strings.ToLower(s)]; ok {
		return code
	}
	if len(s) == 3 && isLetters(s) {
		return strings.ToUpper(s)
	}
	return s
}

// NormalizeFlag converts the usual spellings of a yes/no flag to "Y" or "N".
// Unrecognised values are returned trimmed and upper-cased.
func NormalizeFlag(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "Y", "YES", "S", "SI", "1", "TRUE":
		return "Y"
	case "N", "NO", "0", "FALSE":
		return "N"
	}
	return s
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
