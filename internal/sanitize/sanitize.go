// Package sanitize strips personally identifying content from transaction
// descriptions before anything is cached or persisted.
//
// The substitution rules form an ordered cascade: specific shapes (explicit
// card numbers, masked-card references) must fire before generic catch-alls
// (any 8+ digit run). Do not reorder rules without re-verifying those
// specificity assumptions.
package sanitize

import (
	"regexp"
	"strings"

	"pennywise/internal/parser"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var rules = []rule{
	// Card numbers (full or partial)
	{regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`), "[CARD]"},
	{regexp.MustCompile(`(?i)\b(?:ending\s*(?:in)?|last\s*4|x{4,})\s*\d{4}\b`), "[CARD]"},
	{regexp.MustCompile(`(?i)\bCard\s+\d{4}\b`), "[CARD]"},

	// Account numbers (6+ digits with an account-ish label)
	{regexp.MustCompile(`(?i)\b(?:acct?|account)\.?\s*#?\s*\d{6,}\b`), "[ACCOUNT]"},

	// Transaction/Reference/Confirmation numbers
	{regexp.MustCompile(`(?i)\b(?:trans(?:action)?|ref(?:erence)?|conf(?:irmation)?|trace|auth(?:orization)?)\s*#?\s*:?\s*[A-Z0-9]{6,}\b`), "[REF]"},

	// Check numbers
	{regexp.MustCompile(`(?i)\b(?:check|chk|cheque)\s*#?\s*:?\s*\d{3,}\b`), "[CHECK]"},

	// Phone numbers
	{regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`), "[PHONE]"},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL]"},

	// SSN-shaped numbers
	{regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`), "[SSN]"},

	// Generic long numbers (8+ digits)
	{regexp.MustCompile(`\b\d{8,}\b`), "[ID]"},

	// Alphanumeric reference codes
	{regexp.MustCompile(`\b[A-Z]{2,}[0-9]{6,}\b`), "[REF]"},
	{regexp.MustCompile(`\b[0-9]{3,}[A-Z]{2,}[0-9]{2,}\b`), "[REF]"},
}

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	repeatedTagsRe = regexp.MustCompile(`(\[\w+\])(?:\s*\[\w+\])*`)
)

// Description applies the full sanitization cascade to a single description.
// It is pure and total, and idempotent: sanitizing an already-sanitized
// string is a no-op.
func Description(text string) string {
	result := text

	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}

	result = strings.TrimSpace(whitespaceRe.ReplaceAllString(result, " "))
	result = collapseRepeatedTags(result)

	return result
}

// collapseRepeatedTags reduces consecutive runs of an identical bracket tag
// (e.g. "[CARD] [CARD]") to a single occurrence. Runs of differing tags are
// left alone.
func collapseRepeatedTags(text string) string {
	return repeatedTagsRe.ReplaceAllStringFunc(text, func(run string) string {
		tags := strings.Fields(run)
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if len(out) == 0 || out[len(out)-1] != tag {
				out = append(out, tag)
			}
		}
		return strings.Join(out, " ")
	})
}

// Drafts sanitizes every draft's description and drops any running balance.
// Balances are never persisted, which keeps account-state history out of the
// ledger.
func Drafts(drafts []parser.DraftTransaction) []parser.DraftTransaction {
	out := make([]parser.DraftTransaction, len(drafts))
	for i, d := range drafts {
		d.Description = Description(d.Description)
		d.Balance = nil
		out[i] = d
	}
	return out
}
