package chunker

import (
	"regexp"
	"strings"
)

// avgWordChars is the fixed characters-per-word ratio used to turn the
// char-denominated size knobs into word budgets.
const avgWordChars = 1.33

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// Chunker splits normalized text into paragraph-respecting, overlapping
// segments sized for downstream embedding. Both size knobs are in characters;
// internally everything is counted in words.
type Chunker struct {
	targetWords  int
	overlapWords int
}

// New converts the character budgets to word budgets. Degenerate values are
// clamped so the chunker always makes forward progress.
func New(chunkSizeChars, overlapChars int) *Chunker {
	target := int(float64(chunkSizeChars) / avgWordChars)
	if target < 1 {
		target = 1
	}
	overlap := int(float64(overlapChars) / avgWordChars)
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= target {
		overlap = target - 1
	}
	return &Chunker{targetWords: target, overlapWords: overlap}
}

// Split produces the ordered chunk sequence for text. Paragraph boundaries
// are never split unless a single paragraph alone exceeds the word budget;
// consecutive chunks share a trailing/leading word overlap. Returns an empty
// slice only for empty or whitespace-only input.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	var buf []string // running word buffer for the chunk being built

	// fresh tracks whether buf holds any words not already emitted. A buffer
	// carrying only the overlap seed never flushes on its own: that would
	// duplicate the tail of the previous chunk verbatim.
	fresh := false

	emit := func(words []string) {
		if s := strings.TrimSpace(strings.Join(words, " ")); s != "" {
			chunks = append(chunks, s)
		}
	}

	for _, para := range paragraphSplitRe.Split(text, -1) {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		// A single paragraph over the budget gets sliced into fixed-size
		// word windows, each advancing by target-overlap words.
		if len(words) > c.targetWords {
			if fresh {
				emit(buf)
			}
			step := c.targetWords - c.overlapWords
			var last []string
			for start := 0; ; start += step {
				end := start + c.targetWords
				if end > len(words) {
					end = len(words)
				}
				last = words[start:end]
				emit(last)
				if end == len(words) {
					break
				}
			}
			// Seed the next chunk with the tail of the final window.
			buf = append([]string(nil), tail(last, c.overlapWords)...)
			fresh = false
			continue
		}

		if len(buf)+len(words) > c.targetWords {
			if fresh {
				emit(buf)
			}
			seed := append([]string(nil), tail(buf, c.overlapWords)...)
			buf = append(seed, words...)
			fresh = true
			continue
		}

		buf = append(buf, words...)
		fresh = true
	}

	if fresh {
		emit(buf)
	}
	return chunks
}

// tail returns the last n elements of words (all of them when n >= len).
func tail(words []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(words) {
		return words
	}
	return words[len(words)-n:]
}
