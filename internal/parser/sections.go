package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Multi-section statements mark transaction blocks explicitly and state their
// coverage window in one or more billing-range headers earlier in the text.
// The markers are matched case-insensitively on the original text so byte
// offsets always index the string being sliced.
var (
	sectionStartRe = regexp.MustCompile(`(?i)\*start\*transactiondetail`)
	sectionEndRe   = regexp.MustCompile(`(?i)\*end\*transactiondetail`)

	billingRangeRe = regexp.MustCompile(
		`(?i)([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})\s+through\s+([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})`)
	sectionLineRe = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s+(-?[\d,]+\.\d{2})\s*$`)
)

// billingRange is a statement coverage window used for year inference.
type billingRange struct {
	pos        int
	startMonth int
	startYear  int
	endYear    int
}

// HasTransactionSections reports whether the text carries explicit
// transaction-detail section markers. Sectioned statements parse the same
// way under either dialect.
func HasTransactionSections(text string) bool {
	return sectionStartRe.MatchString(text)
}

// parseSections handles statements with explicit *start*transactiondetail
// blocks. Each block takes its year-inference context from the nearest
// preceding billing-range header by text position.
func parseSections(text string) []DraftTransaction {
	ranges := findBillingRanges(text)

	var drafts []DraftTransaction
	skipped := 0

	offset := 0
	for {
		loc := sectionStartRe.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start := offset + loc[0]
		bodyStart := offset + loc[1]

		bodyEnd := len(text)
		offset = len(text)
		if end := sectionEndRe.FindStringIndex(text[bodyStart:]); end != nil {
			bodyEnd = bodyStart + end[0]
			offset = bodyStart + end[1]
		}
		body := text[bodyStart:bodyEnd]

		rng := nearestPrecedingRange(ranges, start)

		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)

			match := sectionLineRe.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			parts := strings.SplitN(match[1], "/", 2)
			month, _ := strconv.Atoi(parts[0])
			day, _ := strconv.Atoi(parts[1])

			date, ok := validDate(rangeYear(rng, month), month, day)
			if !ok {
				skipped++
				continue
			}

			balance := parseAmount(match[4])
			drafts = append(drafts, DraftTransaction{
				Date:        date,
				Description: match[2],
				Amount:      parseAmount(match[3]),
				Balance:     &balance,
			})
		}
	}

	logSkipped("sections", skipped)
	return sortByDate(drafts)
}

func findBillingRanges(text string) []billingRange {
	var ranges []billingRange
	for _, idx := range billingRangeRe.FindAllStringSubmatchIndex(text, -1) {
		match := billingRangeRe.FindStringSubmatch(text[idx[0]:idx[1]])
		startMonth, ok := monthNumber(match[1])
		if !ok {
			continue
		}
		if _, ok := monthNumber(match[4]); !ok {
			continue
		}
		startYear, _ := strconv.Atoi(match[3])
		endYear, _ := strconv.Atoi(match[6])
		ranges = append(ranges, billingRange{
			pos:        idx[0],
			startMonth: startMonth,
			startYear:  startYear,
			endYear:    endYear,
		})
	}
	return ranges
}

func nearestPrecedingRange(ranges []billingRange, pos int) *billingRange {
	var nearest *billingRange
	for i := range ranges {
		if ranges[i].pos < pos {
			nearest = &ranges[i]
		}
	}
	return nearest
}

// rangeYear chooses a line's year from its billing range. A same-year range
// uses that year outright. A range spanning a year boundary assigns the start
// year to months at or after the start month and the end year to the rest;
// the rule is applied literally, including at month boundaries.
func rangeYear(rng *billingRange, lineMonth int) int {
	if rng == nil {
		return time.Now().Year()
	}
	if rng.startYear == rng.endYear {
		return rng.startYear
	}
	if lineMonth >= rng.startMonth {
		return rng.startYear
	}
	return rng.endYear
}

func monthNumber(name string) (int, bool) {
	name = strings.ToLower(name)
	if name == "" {
		return 0, false
	}
	parsed, err := time.Parse("January", strings.ToUpper(name[:1])+name[1:])
	if err != nil {
		return 0, false
	}
	return int(parsed.Month()), true
}
