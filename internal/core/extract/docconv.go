package extract

import (
	"bytes"
	"context"
	"fmt"

	"code.sajari.com/docconv"

	"github.com/Exavo-ai/exavo-rag/internal/core"
)

var _ core.TextExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor is the conformant-parser variant: same contract as the
// heuristic extractor, backed by sajari/docconv instead of byte patterns.
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

func (e *DocconvExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if Extension(fileName) == "txt" {
		return NormalizeWhitespace(decodePlain(data)), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(fileName), e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return NormalizeWhitespace(res.Body), nil
}
