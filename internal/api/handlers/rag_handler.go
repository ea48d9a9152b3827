package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	appMiddleware "github.com/Exavo-ai/exavo-rag/internal/api/middlewares"
	"github.com/Exavo-ai/exavo-rag/internal/core/ingest"
)

// RagHandler exposes the document ingestion pipeline over HTTP.
type RagHandler struct {
	pipeline *ingest.Pipeline
}

func NewRagHandler(p *ingest.Pipeline) *RagHandler {
	return &RagHandler{pipeline: p}
}

type ragUploadRequest struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

type ragUploadResponse struct {
	Success       bool   `json:"success"`
	DocumentID    string `json:"document_id"`
	ChunksCreated int    `json:"chunks_created"`
	Duplicate     bool   `json:"duplicate,omitempty"`
	Message       string `json:"message,omitempty"`
}

type ragErrorResponse struct {
	Error string `json:"error"`
	Step  string `json:"step,omitempty"`
}

// Upload runs the full ingestion pipeline for an already-staged storage
// object. The caller always gets a structured JSON body, never a stack trace.
func (h *RagHandler) Upload(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("rag upload: panic: %v", rec)
			writeRagError(w, &ingest.Error{
				Status:  http.StatusInternalServerError,
				Message: fmt.Sprintf("internal error: %v", rec),
			})
		}
	}()

	userID, ok := appMiddleware.UserID(r.Context())
	if !ok {
		writeRagError(w, &ingest.Error{Status: http.StatusUnauthorized, Message: "user_id not found in context"})
		return
	}

	var req ragUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRagError(w, &ingest.Error{Status: http.StatusBadRequest, Message: "invalid request body"})
		return
	}

	res, err := h.pipeline.Ingest(r.Context(), userID, req.FileName, req.FilePath)
	if err != nil {
		writeRagError(w, ingest.AsError(err))
		return
	}

	resp := ragUploadResponse{
		Success:       true,
		DocumentID:    res.DocumentID,
		ChunksCreated: res.ChunksCreated,
		Duplicate:     res.Duplicate,
	}
	if res.Duplicate {
		resp.Message = "document already ingested"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeRagError(w http.ResponseWriter, e *ingest.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	json.NewEncoder(w).Encode(ragErrorResponse{Error: e.Message, Step: e.Step})
}
