package infer

import "time"

// timeLayouts are tried in order; the first one that parses every value of a
// column wins. ISO forms come first, then day-first before month-first for the
// ambiguous numeric forms.
var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 -0700",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"20060102",
	"02.01.2006",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Layouts returns the ordered candidate time layouts.
func Layouts() []string {
	out := make([]string, len(timeLayouts))
	copy(out, timeLayouts)
	return out
}
