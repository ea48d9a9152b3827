package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Exavo-ai/exavo-rag/internal/core"
)

var _ core.TextExtractor = (*GeminiExtractor)(nil)

const extractInstruction = "Extract all readable text from this document. " +
	"Return only the raw extracted text, with paragraphs separated by blank lines. " +
	"Do not add commentary, headings, or formatting of your own."

// GeminiExtractor sends the file bytes to a multimodal Gemini model and uses
// its answer as the extracted text. Plain-text files never hit the API. The
// result is untrusted free text; it goes through the same normalization as
// the heuristic path and nothing downstream executes or interprets it.
type GeminiExtractor struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewGeminiExtractor(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiExtractor, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiExtractor{client: cl, modelName: modelName, timeout: timeout}, nil
}

func (e *GeminiExtractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *GeminiExtractor) Extract(ctx context.Context, fileName string, data []byte) (string, error) {
	ext := Extension(fileName)
	if ext == "txt" {
		return NormalizeWhitespace(decodePlain(data)), nil
	}

	// Own timeout, tighter than the overall request deadline. A slow model
	// call surfaces as an extraction failure, not a hung request.
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	m := e.client.GenerativeModel(e.modelName)
	resp, err := m.GenerateContent(callCtx,
		genai.Blob{MIMEType: mimeTypeFor(ext), Data: data},
		genai.Text(extractInstruction),
	)
	if err != nil {
		return "", fmt.Errorf("gemini extraction: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return NormalizeWhitespace(b.String()), nil
}

func mimeTypeFor(ext string) string {
	switch ext {
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
