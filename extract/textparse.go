// Package extract implements the extraction core: locating ad cards in an
// unstructured document tree, parsing the bilingual (Korean/English) card
// text into typed fields, and selecting the representative creative image.
//
// Everything in this package is pure with respect to the browser: it
// operates on card text and on the dom.Node capability only, so the same
// code runs against a live page, an archived page source, and test
// fixtures.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// libraryIDRules are tried in order, most specific label first; the first
// match wins. Each captures the digit run after the label.
var libraryIDRules = []*regexp.Regexp{
	regexp.MustCompile(`라이브러리 ID:\s*(\d+)`),
	regexp.MustCompile(`Library ID:\s*(\d+)`),
	regexp.MustCompile(`라이브러리ID:\s*(\d+)`),
	regexp.MustCompile(`LibraryID:\s*(\d+)`),
}

// LibraryID extracts the ad library identifier from card text.
// Returns "" when no label is present.
func LibraryID(text string) string {
	for _, rule := range libraryIDRules {
		if m := rule.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// dateRule pairs a pattern with an extractor that turns its submatches
// into a normalized date. ok=false means the rule did not really apply
// (e.g. out-of-range day) and evaluation falls through to the next rule.
type dateRule struct {
	re      *regexp.Regexp
	extract func(m []string) (string, bool)
}

var englishMonths = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// dateRules run in strictly decreasing specificity: the dated Korean
// "started running" phrasing, bare Korean dates, the English phrasing,
// generic labelled free text, and finally month-only forms with the day
// defaulting to 1.
var dateRules = []dateRule{
	{regexp.MustCompile(`(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.에\s+게재\s+시작함`), ymdExtract},
	{regexp.MustCompile(`(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.에\s+게재\s+시작`), ymdExtract},
	{regexp.MustCompile(`(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.`), ymdExtract},
	{regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`), ymdExtract},
	{regexp.MustCompile(`(?i)Started running on\s+([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})`), monthFirstExtract},
	{regexp.MustCompile(`(?i)Started running on\s+(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`), dayFirstExtract},
	{regexp.MustCompile(`게재\s+시작일:\s*([^\n]+)`), freeTextExtract},
	{regexp.MustCompile(`시작일:\s*([^\n]+)`), freeTextExtract},
	{regexp.MustCompile(`게재\s+시작:\s*([^\n]+)`), freeTextExtract},
	{regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월`), monthOnlyExtract},
	{regexp.MustCompile(`(\d{4})\.\s*(\d{1,2})\.`), monthOnlyExtract},
}

// StartDate extracts the ad's start date from card text, normalized to
// YYYY-MM-DD. Returns "" when nothing parseable is found; malformed
// numeric dates (day 32 and the like) fall through to later rules
// instead of failing the parse.
func StartDate(text string) string {
	for _, rule := range dateRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if date, ok := rule.extract(m); ok {
			return date
		}
	}
	return ""
}

func ymdExtract(m []string) (string, bool) {
	return normalizeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
}

func monthFirstExtract(m []string) (string, bool) {
	month, ok := englishMonths[strings.ToLower(m[1])]
	if !ok {
		return "", false
	}
	return normalizeDate(atoi(m[3]), int(month), atoi(m[2]))
}

func dayFirstExtract(m []string) (string, bool) {
	month, ok := englishMonths[strings.ToLower(m[2])]
	if !ok {
		return "", false
	}
	return normalizeDate(atoi(m[3]), int(month), atoi(m[1]))
}

func monthOnlyExtract(m []string) (string, bool) {
	return normalizeDate(atoi(m[1]), atoi(m[2]), 1)
}

// freeTextLayouts are the fixed formats tried against text captured by the
// generic "label: free text" rules.
var freeTextLayouts = []string{
	"2006-1-2",
	"2006.1.2",
	"2006/1/2",
	"2006년 1월 2일",
	"2006. 1. 2.",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"1/2/2006",
}

func freeTextExtract(m []string) (string, bool) {
	raw := strings.Join(strings.Fields(strings.TrimSpace(m[1])), " ")
	for _, layout := range freeTextLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// normalizeDate validates the numeric triple against the real calendar and
// formats it. time.Date silently rolls over out-of-range values, so the
// round-trip comparison is what rejects day 32 or month 13.
func normalizeDate(year, month, day int) (string, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// platformTokens maps literal substrings found in card text to canonical
// platform names, in scan order. The localized generic "플랫폼" label alone
// implies Facebook.
var platformTokens = []struct {
	token     string
	canonical string
}{
	{"facebook", "Facebook"},
	{"instagram", "Instagram"},
	{"플랫폼", "Facebook"},
}

// Platforms extracts the canonical platform list from card text, without
// duplicates. Defaults to ["Facebook"] when no token is present.
func Platforms(text string) []string {
	lower := strings.ToLower(text)

	var platforms []string
	for _, pt := range platformTokens {
		if !strings.Contains(lower, pt.token) {
			continue
		}
		if !containsString(platforms, pt.canonical) {
			platforms = append(platforms, pt.canonical)
		}
	}

	if len(platforms) == 0 {
		return []string{"Facebook"}
	}
	return platforms
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
