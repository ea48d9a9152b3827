package extract

import (
	"context"
	"fmt"

	"github.com/Exavo-ai/exavo-rag/internal/core"
)

var _ core.TextExtractor = (*HeuristicExtractor)(nil)

// HeuristicExtractor recovers readable text from common producer-generated
// files by byte-pattern matching, without conformant format parsers. It is
// best effort: a scanned PDF or an exotic DOCX may yield an empty result,
// which the pipeline reports as an empty document rather than a parse error.
type HeuristicExtractor struct{}

func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

func (e *HeuristicExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch ext := Extension(fileName); ext {
	case "txt":
		return NormalizeWhitespace(decodePlain(data)), nil
	case "pdf":
		return NormalizeWhitespace(extractPDFText(data)), nil
	case "docx":
		return NormalizeWhitespace(extractDocxText(data)), nil
	default:
		return "", fmt.Errorf("no extraction strategy for .%s files", ext)
	}
}
