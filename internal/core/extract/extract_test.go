package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("report.PDF"))
	assert.Equal(t, "docx", Extension("a.b.docx"))
	assert.Equal(t, "", Extension("noext"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("txt"))
	assert.True(t, Supported("pdf"))
	assert.True(t, Supported("docx"))
	assert.False(t, Supported("exe"))
	assert.False(t, Supported("png"))
	assert.False(t, Supported(""))
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "a  \t b\r\nc   \n\n\n\n\nd"
	assert.Equal(t, "a b\nc\n\nd", NormalizeWhitespace(in))
}

func TestHeuristic_PlainTextPermissiveUTF8(t *testing.T) {
	e := NewHeuristicExtractor()
	data := append([]byte{0xff, 0xfe}, []byte("hello world")...)

	got, err := e.Extract(context.Background(), "notes.txt", data)
	require.NoError(t, err)
	assert.Contains(t, got, "hello world")
}

func TestHeuristic_PDFTextShowOperands(t *testing.T) {
	raw := "%PDF-1.4\n1 0 obj\n<< /Length 80 >>\nstream\n" +
		"BT /F1 12 Tf 72 720 Td (Hello World) Tj ET\n" +
		"BT [(Foo) -250 (Bar\\(baz\\))] TJ ET\n" +
		"endstream\nendobj\n"

	e := NewHeuristicExtractor()
	got, err := e.Extract(context.Background(), "doc.pdf", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Hello World Foo Bar(baz)", got)
}

func TestHeuristic_PDFEscapes(t *testing.T) {
	raw := "BT (Line1\\nLine2\\tEnd \\\\ done) Tj ET"

	e := NewHeuristicExtractor()
	got, err := e.Extract(context.Background(), "doc.pdf", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Line1\nLine2 End \\ done", got)
}

func TestHeuristic_PDFNoTextLayer(t *testing.T) {
	e := NewHeuristicExtractor()
	got, err := e.Extract(context.Background(), "scan.pdf", []byte("%PDF-1.4 binary image data only"))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestHeuristic_DocxRuns(t *testing.T) {
	raw := `<?xml version="1.0"?><w:document><w:body><w:p>` +
		`<w:r><w:t>Hello</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve">world &amp; co</w:t></w:r>` +
		`</w:p></w:body></w:document>`

	e := NewHeuristicExtractor()
	got, err := e.Extract(context.Background(), "doc.docx", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Hello world & co", got)
}

func TestHeuristic_UnknownExtension(t *testing.T) {
	e := NewHeuristicExtractor()
	_, err := e.Extract(context.Background(), "binary.exe", []byte("MZ"))
	assert.Error(t, err)
}

func TestHeuristic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewHeuristicExtractor()
	_, err := e.Extract(ctx, "a.txt", []byte("text"))
	assert.Error(t, err)
}
