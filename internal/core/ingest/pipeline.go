package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Exavo-ai/exavo-rag/internal/core"
	"github.com/Exavo-ai/exavo-rag/internal/core/chunker"
	"github.com/Exavo-ai/exavo-rag/internal/core/extract"
	"github.com/Exavo-ai/exavo-rag/internal/models"
)

// Config carries the ingestion policy values. They were constants in the
// original edge function; here they arrive from the environment.
type Config struct {
	Bucket         string
	MaxFileBytes   int
	MaxDocsPerUser int
}

// Result is the successful outcome of one ingestion request. Duplicate means
// the exact bytes were ingested before: DocumentID then names the existing
// document and ChunksCreated is zero.
type Result struct {
	DocumentID    string
	ChunksCreated int
	Duplicate     bool
}

// Pipeline runs the synchronous upload→extract→chunk→persist flow. One
// instance serves all requests; it holds no per-request state.
type Pipeline struct {
	db        core.DbClient
	obj       core.ObjectClient
	extractor core.TextExtractor
	chunker   *chunker.Chunker
	cfg       Config
}

func NewPipeline(db core.DbClient, obj core.ObjectClient, ext core.TextExtractor, ch *chunker.Chunker, cfg Config) *Pipeline {
	return &Pipeline{db: db, obj: obj, extractor: ext, chunker: ch, cfg: cfg}
}

// Ingest processes one uploaded blob for userID. filePath is the object key
// the client uploaded to; it must be prefixed by the caller's own user id.
// On any terminal outcome after the blob has been fetched, the blob is
// removed from storage best-effort.
func (p *Pipeline) Ingest(ctx context.Context, userID, fileName, filePath string) (*Result, error) {
	if userID == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "missing authenticated user", Step: StepValidate}
	}
	if fileName == "" || filePath == "" {
		return nil, errBadRequest("file_name and file_path are required")
	}
	if !strings.HasPrefix(filePath, userID+"/") {
		return nil, errForbidden()
	}

	// Type gate runs before any storage fetch.
	ext := extract.Extension(fileName)
	if !extract.Supported(ext) {
		return nil, errUnsupportedType(ext)
	}

	data, err := p.obj.GetFile(ctx, p.cfg.Bucket, filePath)
	if err != nil {
		return nil, errStorageRead(err)
	}

	// The blob is transient: once fetched it is removed on every exit path,
	// success, duplicate, or failure. WithoutCancel so a caller hang-up
	// doesn't leave the object orphaned.
	defer p.cleanupBlob(context.WithoutCancel(ctx), filePath)

	if len(data) > p.cfg.MaxFileBytes {
		return nil, errPayloadTooLarge()
	}

	count, err := p.db.CountDocumentsByUser(ctx, userID)
	if err != nil {
		return nil, errDatabase(StepQuotaGuard, err)
	}
	if count >= p.cfg.MaxDocsPerUser {
		return nil, errQuotaExceeded()
	}

	sum := sha256.Sum256(data)
	contentHash := hex.EncodeToString(sum[:])

	existing, err := p.db.GetDocumentByHash(ctx, userID, contentHash)
	if err != nil {
		return nil, errDatabase(StepDedup, err)
	}
	if existing != nil {
		// Idempotent re-upload: no extraction, no new rows.
		return &Result{DocumentID: existing.ID, ChunksCreated: 0, Duplicate: true}, nil
	}

	text, err := p.extractor.Extract(ctx, fileName, data)
	if err != nil {
		return nil, errExtractionFailed(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyDocument()
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, errNoChunks()
	}

	doc := &models.Document{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    filepath.Base(fileName),
		ContentHash: contentHash,
	}
	if err := p.db.CreateDocument(ctx, doc); err != nil {
		return nil, errPersistence(err)
	}

	rows := make([]models.DocumentChunk, len(chunks))
	for i, ct := range chunks {
		rows[i] = models.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			UserID:     userID,
			Text:       ct,
			Position:   i,
		}
	}
	if err := p.db.InsertDocumentChunks(ctx, rows); err != nil {
		// No multi-statement transaction spans both inserts; compensate by
		// deleting the document row we just created.
		if delErr := p.db.DeleteDocument(context.WithoutCancel(ctx), doc.ID); delErr != nil {
			log.Printf("ingest: compensating delete of document %s failed: %v", doc.ID, delErr)
		}
		return nil, errPersistence(err)
	}

	return &Result{DocumentID: doc.ID, ChunksCreated: len(chunks)}, nil
}

// cleanupBlob removes the transient upload object. Failures are logged and
// never escalated; they must not mask the primary result.
func (p *Pipeline) cleanupBlob(ctx context.Context, filePath string) {
	if err := p.obj.DeleteFile(ctx, p.cfg.Bucket, filePath); err != nil {
		log.Printf("ingest: cleanup of %s failed: %v", filePath, err)
	}
}
