package conversation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	quantityPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	expiryPattern   = regexp.MustCompile(`^\s*(\d{2})\.(\d{2})\.(\d{4})\s*,\s*(\d+(?:\.\d+)?)\s*$`)
)

// parseQuantity accepts a non-negative decimal; a comma works as the
// decimal separator.
func parseQuantity(text string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if !quantityPattern.MatchString(s) {
		return decimal.Zero, false
	}
	qty, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return qty, true
}

type expiryInputError int

const (
	expiryOK expiryInputError = iota
	expiryBadFormat
	expiryBadDate
)

// parseExpiry parses "DD.MM.YYYY, qty". The date must exist in the
// calendar.
func parseExpiry(text string) (time.Time, decimal.Decimal, expiryInputError) {
	m := expiryPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, decimal.Zero, expiryBadFormat
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, decimal.Zero, expiryBadDate
	}

	qty, err := decimal.NewFromString(m[4])
	if err != nil {
		return time.Time{}, decimal.Zero, expiryBadFormat
	}
	return date, qty, expiryOK
}

// command is a parsed callback payload such as "cat:wine" or "page:2".
type command struct {
	kind string
	arg  string
}

func parseCommand(data string) command {
	kind, arg, _ := strings.Cut(data, ":")
	return command{kind: kind, arg: arg}
}

func (c command) index() (int, bool) {
	i, err := strconv.Atoi(c.arg)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
