package extract

import (
	"regexp"
	"strings"
)

// DOCX text runs live in <w:t> elements of the word/document.xml part. The
// container is a zip, but producer files keep enough of the XML readable in
// the raw byte stream for a pattern scan to recover most text without
// unzipping, which is all this extractor attempts.
var docxRunRe = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)

// Single pass, so "&amp;lt;" correctly becomes "&lt;".
var xmlEntityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func extractDocxText(data []byte) string {
	src := decodePlain(data)

	var parts []string
	for _, m := range docxRunRe.FindAllStringSubmatch(src, -1) {
		run := xmlEntityReplacer.Replace(m[1])
		if run != "" {
			parts = append(parts, run)
		}
	}
	return strings.Join(parts, " ")
}
