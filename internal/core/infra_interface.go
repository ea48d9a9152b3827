package core

import (
	"context"

	"github.com/Exavo-ai/exavo-rag/internal/models"
)

// DbClient defines all persistence operations the pipeline and handlers need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) (err error)
	GetUserByEmail(ctx context.Context, email string) (user *models.User, err error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	GetDocumentByHash(ctx context.Context, userID, contentHash string) (*models.Document, error)
	CountDocumentsByUser(ctx context.Context, userID string) (int, error)
	ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	InsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error
	GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error)
	UpdateChunkEmbedding(ctx context.Context, chunkID string, embedding []float32) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so you can replace AWS with MinIO, GCP, etc. easily.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
