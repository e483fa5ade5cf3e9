// Package formatter renders domain values for the terminal.
package formatter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
)

var (
	Bold  = color.New(color.Bold)
	Faint = color.New(color.Faint)
	Price = color.New(color.FgGreen)
)

// Now is the clock used by TimeAgo
var Now = time.Now

// TimeAgo describes t relative to now: "just now", "5 minutes ago",
// "yesterday", "3 weeks ago", "2 months ago" and so on. Months and years
// count calendar boundaries.
func TimeAgo(t time.Time) string {
	now := Now()
	seconds := int64(now.Sub(t) / time.Second)

	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return plural(minutes, "minute") + " ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	days := hours / 24
	if days == 1 {
		return "yesterday"
	}
	if days < 7 {
		return plural(days, "day") + " ago"
	}
	if weeks := days / 7; weeks < 5 {
		return plural(weeks, "week") + " ago"
	}
	t = t.In(now.Location())
	months := int64((now.Year()-t.Year())*12 + int(now.Month()-t.Month()))
	if months < 12 {
		return plural(months, "month") + " ago"
	}
	return plural(int64(now.Year()-t.Year()), "year") + " ago"
}

// TimeAgoString parses a backend timestamp; unparseable input gives ""
func TimeAgoString(s string) string {
	t, ok := api.ParseTime(s)
	if !ok {
		return ""
	}
	return TimeAgo(t)
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Money formats an amount with two decimals
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Truncate shortens s to max runes, ending with "..."
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// Count formats n with its unit, pluralized
func Count(n int, unit string) string {
	return plural(int64(n), unit)
}

// OrDash returns "-" for empty strings
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
