// Package parser converts raw statement text into draft transaction records.
//
// Three grammars are supported: credit-card statements, debit/checking
// statements, and multi-section statements that mark explicit transaction
// detail blocks. Malformed lines are always skipped, never fatal: an empty or
// fully unparseable input yields an empty slice.
package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"pennywise/internal/logger"
)

// Dialect selects the statement grammar.
type Dialect string

const (
	DialectCredit Dialect = "credit"
	DialectDebit  Dialect = "debit"
)

// DraftTransaction is a parsed statement line before sanitization and
// classification. Balance is only populated by grammars that carry a running
// balance; it is dropped downstream and never persisted.
type DraftTransaction struct {
	Date        time.Time
	Description string
	Amount      float64
	Balance     *float64
}

var (
	statementDateRe = regexp.MustCompile(`(?i)Statement\s*Date[:\s]+(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	throughDateRe   = regexp.MustCompile(`(?i)through\s+(\d{1,2})/(\d{1,2})/(\d{2,4})`)

	creditLineRe       = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+([\d,]+\.\d{2})\s*$`)
	debitBalanceLineRe = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s+[\d,]+\.\d{2}\s*$`)
	debitPlainLineRe   = regexp.MustCompile(`^(\d{2}/\d{2})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s*$`)
)

// creditSkip lists phrases that mark non-transaction lines on credit
// statements even when the line matches the transaction shape.
var creditSkip = []string{
	"TOTAL FEES", "TOTAL INTEREST", "BALANCE SUBJECT", "PAGE", "STATEMENT DATE", "BILLING PERIOD",
}

// creditKeywords mark inflows on credit statements, where printed amounts are
// unsigned. The match is a plain substring test and can misread a merchant
// whose name contains a keyword; that behavior is intentional.
var creditKeywords = []string{
	"PAYMENT", "RETURN", "REFUND", "CREDIT", "REVERSAL", "CASHBACK",
}

var debitSkip = []string{
	"BEGINNING BALANCE", "ENDING BALANCE", "TOTAL", "DATE DESCRIPTION",
}

// Parse converts raw extracted statement text into an ordered sequence of
// draft transactions. Statements that mark explicit transaction detail
// sections use the multi-section grammar regardless of dialect; otherwise the
// dialect selects the credit or debit grammar.
func Parse(rawText string, dialect Dialect) []DraftTransaction {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	if HasTransactionSections(rawText) {
		return parseSections(rawText)
	}

	if dialect == DialectCredit {
		return parseCredit(rawText)
	}
	return parseDebit(rawText)
}

// parseCredit parses credit-card statement text. Transaction lines carry an
// unsigned amount; sign is inferred from the inflow keyword set.
func parseCredit(text string) []DraftTransaction {
	stmtMonth, stmtYear := headerMonthYear(text, statementDateRe)

	var drafts []DraftTransaction
	skipped := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		match := creditLineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		desc := match[2]
		if containsAny(strings.ToUpper(desc), creditSkip) {
			continue
		}

		date, ok := lineDate(match[1], stmtMonth, stmtYear)
		if !ok {
			skipped++
			continue
		}

		amount := parseAmount(match[3])
		if containsAny(strings.ToUpper(desc), creditKeywords) {
			amount = abs(amount)
		} else {
			amount = -abs(amount)
		}

		drafts = append(drafts, DraftTransaction{Date: date, Description: desc, Amount: amount})
	}

	logSkipped("credit", skipped)
	return sortByDate(drafts)
}

// parseDebit parses debit/checking statement text. Amounts are taken as
// printed; the balance-bearing line shape is attempted before the balance-free
// one so trailing running balances are not misread as amounts.
func parseDebit(text string) []DraftTransaction {
	stmtMonth, stmtYear := headerMonthYear(text, throughDateRe, statementDateRe)

	var drafts []DraftTransaction
	skipped := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if containsAny(strings.ToUpper(line), debitSkip) {
			continue
		}

		for _, re := range []*regexp.Regexp{debitBalanceLineRe, debitPlainLineRe} {
			match := re.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			date, ok := lineDate(match[1], stmtMonth, stmtYear)
			if !ok {
				skipped++
				break
			}

			drafts = append(drafts, DraftTransaction{
				Date:        date,
				Description: match[2],
				Amount:      parseAmount(match[3]),
			})
			break
		}
	}

	logSkipped("debit", skipped)
	return sortByDate(drafts)
}

// headerMonthYear extracts the statement month/year from the first matching
// header pattern, falling back to the current date when no header is present.
func headerMonthYear(text string, patterns ...*regexp.Regexp) (month, year int) {
	for _, re := range patterns {
		if match := re.FindStringSubmatch(text); match != nil {
			month, _ = strconv.Atoi(match[1])
			year, _ = strconv.Atoi(match[3])
			if year < 100 {
				year += 2000
			}
			return month, year
		}
	}
	now := time.Now()
	return int(now.Month()), now.Year()
}

// lineDate resolves a MM/DD line date against the statement header. A line
// month greater than the header month belongs to the prior calendar year
// (a December transaction on a January statement). Dates that fail calendar
// validation skip the line only.
func lineDate(mmdd string, stmtMonth, stmtYear int) (time.Time, bool) {
	parts := strings.SplitN(mmdd, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])

	year := stmtYear
	if month > stmtMonth {
		year = stmtYear - 1
	}

	return validDate(year, month, day)
}

// validDate builds a calendar date, rejecting values Go would normalize
// (e.g. February 30 becoming March 2).
func validDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		logger.Get().Debugw("invalid calendar date", "year", year, "month", month, "day", day)
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(date.Month()) != month || date.Day() != day || date.Year() != year {
		logger.Get().Debugw("invalid calendar date", "year", year, "month", month, "day", day)
		return time.Time{}, false
	}
	return date, true
}

func parseAmount(s string) float64 {
	value, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return value
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func sortByDate(drafts []DraftTransaction) []DraftTransaction {
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].Date.Before(drafts[j].Date)
	})
	return drafts
}

func logSkipped(grammar string, skipped int) {
	if skipped > 0 {
		logger.Get().Infow("skipped unparseable statement lines", "grammar", grammar, "count", skipped)
	}
}
