package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Exavo-ai/exavo-rag/internal/core/chunker"
	"github.com/Exavo-ai/exavo-rag/internal/models"
)

// fakeDB implements core.DbClient in memory.
type fakeDB struct {
	docs          map[string]*models.Document
	chunks        []models.DocumentChunk
	deletedDocs   []string
	failCreateDoc bool
	failInsChunks bool
	countOverride int
	countForced   bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{docs: map[string]*models.Document{}}
}

func (f *fakeDB) CreateUser(ctx context.Context, u *models.User) error { return nil }
func (f *fakeDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (f *fakeDB) CreateDocument(ctx context.Context, doc *models.Document) error {
	if f.failCreateDoc {
		return errors.New("insert failed")
	}
	cp := *doc
	f.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDB) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	return f.docs[id], nil
}

func (f *fakeDB) GetDocumentByHash(ctx context.Context, userID, hash string) (*models.Document, error) {
	for _, d := range f.docs {
		if d.UserID == userID && d.ContentHash == hash {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CountDocumentsByUser(ctx context.Context, userID string) (int, error) {
	if f.countForced {
		return f.countOverride, nil
	}
	n := 0
	for _, d := range f.docs {
		if d.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error) {
	return nil, nil
}

func (f *fakeDB) DeleteDocument(ctx context.Context, id string) error {
	delete(f.docs, id)
	f.deletedDocs = append(f.deletedDocs, id)
	return nil
}

func (f *fakeDB) InsertDocumentChunks(ctx context.Context, rows []models.DocumentChunk) error {
	if f.failInsChunks {
		return errors.New("chunk insert failed")
	}
	f.chunks = append(f.chunks, rows...)
	return nil
}

func (f *fakeDB) GetChunksByDocument(ctx context.Context, docID string) ([]models.DocumentChunk, error) {
	return nil, nil
}

func (f *fakeDB) UpdateChunkEmbedding(ctx context.Context, id string, emb []float32) error {
	return nil
}

func (f *fakeDB) Close() error { return nil }

// fakeObj implements core.ObjectClient in memory and records calls.
type fakeObj struct {
	store       map[string][]byte
	getCalls    int
	deleteCalls []string
}

func newFakeObj() *fakeObj {
	return &fakeObj{store: map[string][]byte{}}
}

func (f *fakeObj) UploadFile(ctx context.Context, bucket, key string, data []byte, ct string) (string, error) {
	f.store[key] = data
	return "https://fake/" + key, nil
}

func (f *fakeObj) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	f.getCalls++
	data, ok := f.store[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeObj) DeleteFile(ctx context.Context, bucket, key string) error {
	f.deleteCalls = append(f.deleteCalls, key)
	delete(f.store, key)
	return nil
}

// fakeExtractor returns fixed text and counts invocations.
type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, name string, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func threeParagraphs() string {
	var paras []string
	for p := 0; p < 3; p++ {
		words := make([]string, 50)
		for i := range words {
			words[i] = fmt.Sprintf("p%dw%d", p, i)
		}
		paras = append(paras, strings.Join(words, " "))
	}
	return strings.Join(paras, "\n\n")
}

func newTestPipeline(db *fakeDB, obj *fakeObj, ext *fakeExtractor) *Pipeline {
	return NewPipeline(db, obj, ext, chunker.New(800, 150), Config{
		Bucket:         "test-bucket",
		MaxFileBytes:   5 << 20,
		MaxDocsPerUser: 3,
	})
}

func TestIngest_RejectsMissingFields(t *testing.T) {
	p := newTestPipeline(newFakeDB(), newFakeObj(), &fakeExtractor{})

	_, err := p.Ingest(context.Background(), "u1", "", "u1/x.txt")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, AsError(err).Status)

	_, err = p.Ingest(context.Background(), "u1", "x.txt", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, AsError(err).Status)
}

func TestIngest_RejectsForeignPath(t *testing.T) {
	p := newTestPipeline(newFakeDB(), newFakeObj(), &fakeExtractor{})

	_, err := p.Ingest(context.Background(), "u1", "x.txt", "u2/x.txt")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, AsError(err).Status)
}

func TestIngest_ExtensionGateRunsBeforeStorage(t *testing.T) {
	obj := newFakeObj()
	p := newTestPipeline(newFakeDB(), obj, &fakeExtractor{})

	for _, name := range []string{"a.exe", "a.png", "a"} {
		_, err := p.Ingest(context.Background(), "u1", name, "u1/"+name)
		require.Error(t, err, name)
		pe := AsError(err)
		assert.Equal(t, http.StatusBadRequest, pe.Status, name)
		assert.Equal(t, StepTypeGate, pe.Step, name)
	}
	assert.Zero(t, obj.getCalls, "storage must not be read for rejected extensions")
	assert.Empty(t, obj.deleteCalls)
}

func TestIngest_SizeGuardCleansUpBlob(t *testing.T) {
	obj := newFakeObj()
	obj.store["u1/big.txt"] = make([]byte, 6<<20)
	p := newTestPipeline(newFakeDB(), obj, &fakeExtractor{text: "ignored"})

	_, err := p.Ingest(context.Background(), "u1", "big.txt", "u1/big.txt")
	require.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, AsError(err).Status)
	assert.Equal(t, []string{"u1/big.txt"}, obj.deleteCalls)
}

func TestIngest_QuotaGuard(t *testing.T) {
	db := newFakeDB()
	db.countOverride, db.countForced = 3, true
	obj := newFakeObj()
	obj.store["u1/a.txt"] = []byte("hello world")
	p := newTestPipeline(db, obj, &fakeExtractor{text: "hello world"})

	_, err := p.Ingest(context.Background(), "u1", "a.txt", "u1/a.txt")
	require.Error(t, err)
	pe := AsError(err)
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)
	assert.Equal(t, StepQuotaGuard, pe.Step)
	assert.Len(t, obj.deleteCalls, 1)

	// Two existing documents is still under the ceiling.
	db.countOverride = 2
	obj.store["u1/a.txt"] = []byte("hello world")
	res, err := p.Ingest(context.Background(), "u1", "a.txt", "u1/a.txt")
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
}

func TestIngest_DedupIsIdempotent(t *testing.T) {
	db := newFakeDB()
	obj := newFakeObj()
	ext := &fakeExtractor{text: "some extracted text"}
	p := newTestPipeline(db, obj, ext)

	obj.store["u1/a.txt"] = []byte("identical bytes")
	first, err := p.Ingest(context.Background(), "u1", "a.txt", "u1/a.txt")
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.Equal(t, 1, first.ChunksCreated)

	// Byte-identical re-upload under a different name.
	obj.store["u1/b.txt"] = []byte("identical bytes")
	second, err := p.Ingest(context.Background(), "u1", "b.txt", "u1/b.txt")
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Zero(t, second.ChunksCreated)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	assert.Len(t, db.docs, 1, "no second document row")
	assert.Equal(t, 1, ext.calls, "duplicate must not re-extract")
	assert.Len(t, obj.deleteCalls, 2, "both blobs cleaned up")
}

func TestIngest_EmptyExtraction(t *testing.T) {
	obj := newFakeObj()
	obj.store["u1/blank.pdf"] = []byte("%PDF-1.4")
	p := newTestPipeline(newFakeDB(), obj, &fakeExtractor{text: "  \n\t  "})

	_, err := p.Ingest(context.Background(), "u1", "blank.pdf", "u1/blank.pdf")
	require.Error(t, err)
	pe := AsError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.Status)
	assert.Equal(t, StepExtract, pe.Step)
	assert.Len(t, obj.deleteCalls, 1)
}

func TestIngest_ExtractionFailure(t *testing.T) {
	obj := newFakeObj()
	obj.store["u1/a.pdf"] = []byte("%PDF-1.4")
	p := newTestPipeline(newFakeDB(), obj, &fakeExtractor{err: errors.New("model timeout")})

	_, err := p.Ingest(context.Background(), "u1", "a.pdf", "u1/a.pdf")
	require.Error(t, err)
	pe := AsError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.Status)
	assert.Contains(t, pe.Message, "model timeout")
	assert.Len(t, obj.deleteCalls, 1)
}

func TestIngest_DocumentInsertFailure(t *testing.T) {
	db := newFakeDB()
	db.failCreateDoc = true
	obj := newFakeObj()
	obj.store["u1/a.txt"] = []byte("content")
	p := newTestPipeline(db, obj, &fakeExtractor{text: "content words here"})

	_, err := p.Ingest(context.Background(), "u1", "a.txt", "u1/a.txt")
	require.Error(t, err)
	pe := AsError(err)
	assert.Equal(t, http.StatusInternalServerError, pe.Status)
	assert.Equal(t, StepPersist, pe.Step)

	assert.Empty(t, db.chunks, "chunk insert must not be attempted")
	assert.Empty(t, db.deletedDocs)
	assert.Len(t, obj.deleteCalls, 1)
}

func TestIngest_CompensatingRollback(t *testing.T) {
	db := newFakeDB()
	db.failInsChunks = true
	obj := newFakeObj()
	obj.store["u1/a.txt"] = []byte("content")
	p := newTestPipeline(db, obj, &fakeExtractor{text: "content words here"})

	_, err := p.Ingest(context.Background(), "u1", "a.txt", "u1/a.txt")
	require.Error(t, err)
	pe := AsError(err)
	assert.Equal(t, http.StatusInternalServerError, pe.Status)
	assert.Equal(t, StepPersist, pe.Step)

	assert.Len(t, db.deletedDocs, 1, "document row must be compensated away")
	assert.Empty(t, db.docs)
	assert.Len(t, obj.deleteCalls, 1)
}

func TestIngest_SuccessEndToEnd(t *testing.T) {
	db := newFakeDB()
	obj := newFakeObj()
	obj.store["u1/report.txt"] = []byte("raw upload bytes")
	p := newTestPipeline(db, obj, &fakeExtractor{text: threeParagraphs()})

	res, err := p.Ingest(context.Background(), "u1", "report.txt", "u1/report.txt")
	require.NoError(t, err)

	// 150 words against a ~600 word budget: one chunk.
	assert.Equal(t, 1, res.ChunksCreated)
	assert.False(t, res.Duplicate)
	require.Len(t, db.chunks, 1)

	ch := db.chunks[0]
	assert.Equal(t, res.DocumentID, ch.DocumentID)
	assert.Equal(t, "u1", ch.UserID)
	assert.Equal(t, 0, ch.Position)
	assert.Nil(t, ch.Embedding, "embedding stays empty at ingest time")
	assert.Len(t, strings.Fields(ch.Text), 150)

	doc := db.docs[res.DocumentID]
	require.NotNil(t, doc)
	assert.Equal(t, "report.txt", doc.FileName)
	assert.Len(t, doc.ContentHash, 64, "hex sha256")

	assert.Equal(t, []string{"u1/report.txt"}, obj.deleteCalls, "blob removed exactly once on success")
}
