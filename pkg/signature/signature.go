// Package signature splits email text into body content and a trailing
// signature block, covering the closing phrases common in English, French,
// German, Italian, Dutch and Luxembourgish mail.
package signature

import (
	"regexp"
	"strings"
)

// Delimiter lines and markdown image blocks count at every occurrence;
// closing phrases only at their last occurrence, so a salutation quoted
// mid-thread does not truncate the message.
var (
	delimiterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\n[ \t]*--[ \t]*\n`),
		regexp.MustCompile(`\n[ \t]*={3,}[ \t]*\n`),
		regexp.MustCompile(`\n[ \t]*_{3,}[ \t]*\n`),
		regexp.MustCompile(`\n[ \t]*-{3,}[ \t]*\n`),
		regexp.MustCompile(`\n[ \t]*\*{3,}[ \t]*\n`),
		regexp.MustCompile(`\n[ \t]*-{3,}[ \t]*\z`),
	}

	closingPatterns = []*regexp.Regexp{
		// English
		regexp.MustCompile(`(?im)\n[ \t]*(?:best regards?|regards?|kind regards?|warm regards?|brgds?|cheers|thanks?|thank you|many thanks|sincerely|cordially|warmly|best|sent from my [^\n]*?)[ \t]*,?[ \t]*$`),
		// French
		regexp.MustCompile(`(?im)\n[ \t]*(?:cordialement|bien cordialement|salutations|meilleures salutations|amicalement|merci|bien à vous|respectueusement)[ \t]*,?[ \t]*$`),
		// German
		regexp.MustCompile(`(?im)\n[ \t]*(?:mit freundlichen grüßen|freundliche grüße|viele grüße|herzliche grüße|beste grüße)[ \t]*,?[ \t]*$`),
		// Italian
		regexp.MustCompile(`(?im)\n[ \t]*(?:cordiali saluti|distinti saluti|saluti|grazie|un saluto|cari saluti)[ \t]*,?[ \t]*$`),
		// Dutch
		regexp.MustCompile(`(?im)\n[ \t]*(?:met vriendelijke groet|vriendelijke groeten|hartelijke groeten|groeten)[ \t]*,?[ \t]*$`),
		// Luxembourgish
		regexp.MustCompile(`(?im)\n[ \t]*(?:mat frëndleche gréiss|frëndlech gréiss|villmools merci|merci)[ \t]*,?[ \t]*$`),
	}

	markdownPatterns = []*regexp.Regexp{
		// A blank line followed by an inline image usually marks a logo block.
		regexp.MustCompile(`\n\n[ \t]*!\[[^\]]*\]\([^)]*\)`),
	}
)

// Split separates text into content and a trailing signature. The earliest
// candidate offset across all pattern families wins. Reply headers such as
// "On ... wrote:" stay in the content unless a signature precedes them, in
// which case everything from the signature start onward is dropped together.
func Split(text string) (content string, sig string) {
	if text == "" {
		return "", ""
	}

	var candidates []int

	for _, p := range delimiterPatterns {
		for _, m := range p.FindAllStringIndex(text, -1) {
			candidates = append(candidates, m[0])
		}
	}

	for _, p := range closingPatterns {
		matches := p.FindAllStringIndex(text, -1)
		if len(matches) > 0 {
			candidates = append(candidates, matches[len(matches)-1][0])
		}
	}

	for _, p := range markdownPatterns {
		for _, m := range p.FindAllStringIndex(text, -1) {
			candidates = append(candidates, m[0])
		}
	}

	if len(candidates) == 0 {
		return text, ""
	}

	earliest := candidates[0]
	for _, c := range candidates[1:] {
		if c < earliest {
			earliest = c
		}
	}

	return text[:earliest], strings.TrimSpace(text[earliest:])
}
