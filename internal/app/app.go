package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Exavo-ai/exavo-rag/internal/config"
	"github.com/Exavo-ai/exavo-rag/internal/core"
	"github.com/Exavo-ai/exavo-rag/internal/core/chunker"
	db "github.com/Exavo-ai/exavo-rag/internal/core/database"
	"github.com/Exavo-ai/exavo-rag/internal/core/extract"
	"github.com/Exavo-ai/exavo-rag/internal/core/ingest"
	objectclient "github.com/Exavo-ai/exavo-rag/internal/core/object-client"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Pipeline     *ingest.Pipeline
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	extractor, err := newExtractor(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the extractor, %w", err)
	}

	pipeline := ingest.NewPipeline(
		dbClient,
		objClient,
		extractor,
		chunker.New(cfg.ChunkSizeChars, cfg.ChunkOverlapChars),
		ingest.Config{
			Bucket:         cfg.BucketName,
			MaxFileBytes:   cfg.MaxFileBytes,
			MaxDocsPerUser: cfg.MaxDocsPerUser,
		},
	)

	server := NewServer(cfg, dbClient, objClient, pipeline)

	return &App{DBClient: dbClient, ObjectClient: objClient, Pipeline: pipeline, Server: server}, nil
}

// newExtractor selects the extraction strategy from config. All strategies
// honor the same contract, so the pipeline never knows which one runs.
func newExtractor(ctx context.Context, cfg *config.Config) (core.TextExtractor, error) {
	switch cfg.Extractor {
	case "", "heuristic":
		return extract.NewHeuristicExtractor(), nil
	case "gemini":
		return extract.NewGeminiExtractor(ctx, cfg.AIAPIKey, cfg.GenModel,
			time.Duration(cfg.ExtractTimeoutSec)*time.Second)
	case "docconv":
		return extract.NewDocconvExtractor(false), nil
	default:
		return nil, fmt.Errorf("unknown extractor strategy %q", cfg.Extractor)
	}
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
