package extract

import (
	"regexp"
	"strings"
)

// Text-showing regions of a PDF content stream sit between BT/ET graphics
// markers. Inside them, literal-string operands appear either as single
// strings ("(...) Tj") or as arrays of strings interleaved with kerning
// numbers ("[...] TJ"). The literal pattern tolerates escaped characters so
// an escaped paren does not end the match early.
var (
	pdfTextBlockRe = regexp.MustCompile(`(?s)BT(.*?)ET`)
	pdfShowRe      = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*Tj`)
	pdfShowArrRe   = regexp.MustCompile(`(?s)\[(.*?)\]\s*TJ`)
	pdfLiteralRe   = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// extractPDFText pulls literal-string text-show operands out of every BT..ET
// block and joins them with single spaces. Returns "" when the file has no
// recoverable text layer (encoded fonts, scans).
func extractPDFText(data []byte) string {
	src := string(data)

	var parts []string
	for _, block := range pdfTextBlockRe.FindAllStringSubmatch(src, -1) {
		body := block[1]

		for _, m := range pdfShowRe.FindAllStringSubmatch(body, -1) {
			if s := unescapePDFString(m[1]); s != "" {
				parts = append(parts, s)
			}
		}
		for _, arr := range pdfShowArrRe.FindAllStringSubmatch(body, -1) {
			for _, m := range pdfLiteralRe.FindAllStringSubmatch(arr[1], -1) {
				if s := unescapePDFString(m[1]); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.Join(parts, " ")
}

// unescapePDFString resolves the escape sequences PDF literal strings use:
// \n \r \t plus escaped backslash and parens. Unknown escapes keep the
// escaped character, matching how most producers emit them.
func unescapePDFString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '(', ')':
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
