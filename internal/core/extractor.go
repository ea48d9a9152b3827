package core

import "context"

// TextExtractor converts raw file bytes into a plain Unicode string.
// The fileName hint (its extension) selects the parsing strategy.
// Extractors return whatever readable text they recover; emptiness is judged
// by the pipeline after normalization.
type TextExtractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}
