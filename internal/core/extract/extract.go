package extract

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Supported upload extensions. Checked by the pipeline's type gate before any
// storage fetch, and again by extractors when dispatching.
var supportedExtensions = map[string]bool{
	"txt":  true,
	"pdf":  true,
	"docx": true,
}

// Extension returns the lowercase suffix after the last dot, without the dot.
// Empty string when the name has no extension.
func Extension(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
}

// Supported reports whether the extension is on the upload allow-list.
func Supported(ext string) bool {
	return supportedExtensions[ext]
}

var (
	hspaceRe   = regexp.MustCompile(`[ \t]+`)
	lineEdgeRe = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	paraRunRe  = regexp.MustCompile(`\n{3,}`)
)

// NormalizeWhitespace applies the shared post-extraction cleanup: CRLF to LF,
// runs of spaces/tabs to a single space, trimmed line edges, and runs of three
// or more newlines collapsed to exactly two (one paragraph break).
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = hspaceRe.ReplaceAllString(s, " ")
	s = lineEdgeRe.ReplaceAllString(s, "\n")
	s = paraRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// decodePlain decodes bytes as UTF-8, replacing invalid sequences instead of
// failing.
func decodePlain(data []byte) string {
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
