package parser

import "regexp"

// accountPatterns are tried in order against the full statement text; the
// first successful match wins. Order matters: the label-prefixed and
// masked-digit shapes are more specific than the trailing loose fallback.
var accountPatterns = []*regexp.Regexp{
	// "Account Number: XXXX XXXX XXXX 1234" or "Card #: ...1234"
	regexp.MustCompile(`(?i)(?:account|acct|card)[\s#:]*(?:number)?[\s:]*[\dxX*\s-]*(\d{4})\b`),
	// "XXXXXXXXXXXX1234"
	regexp.MustCompile(`[xX*]{8,}(\d{4})\b`),
	// "Account ending in 1234"
	regexp.MustCompile(`(?i)ending\s+in\s+(\d{4})`),
	// "Last 4: 1234"
	regexp.MustCompile(`(?i)last\s*4[\s:]+(\d{4})`),
	// loose fallback: account-ish label followed eventually by 4 digits
	regexp.MustCompile(`(?i)account[^\d]*(\d{4})\s`),
}

// ExtractAccountLast4 returns the last four digits of the account or card
// number mentioned in the statement text, or "" when none is found.
func ExtractAccountLast4(text string) string {
	for _, re := range accountPatterns {
		if match := re.FindStringSubmatch(text); match != nil {
			return match[1]
		}
	}
	return ""
}
