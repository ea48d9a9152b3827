package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appMiddleware "github.com/Exavo-ai/exavo-rag/internal/api/middlewares"
	"github.com/Exavo-ai/exavo-rag/internal/config"
	"github.com/Exavo-ai/exavo-rag/internal/core"
)

type DocumentHandler struct {
	dbclient     core.DbClient
	objectclient core.ObjectClient
	cfg          *config.Config
}

func NewDocumentHandler(dbclient core.DbClient, objectclient core.ObjectClient, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{dbclient: dbclient, objectclient: objectclient, cfg: cfg}
}

// UploadDocument stages raw file bytes in object storage under the caller's
// prefix and returns the path. Ingestion happens in a separate call to the
// rag upload endpoint; until then the object is transient.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {

	r.ParseMultipartForm(32 << 20) // 32 MB

	userID, ok := appMiddleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	// Sanitize filename to prevent path traversal or invalid characters
	cleanFilename := filepath.Base(header.Filename)
	key := fmt.Sprintf("%s/%s_%s", userID, uuid.NewString(), cleanFilename)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if _, err := h.objectclient.UploadFile(uploadctx, h.cfg.BucketName, key, data, contentType); err != nil {
		http.Error(w, fmt.Sprintf("upload failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"file_name": cleanFilename,
		"file_path": key,
	})
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := appMiddleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	documents, err := h.dbclient.ListDocumentsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documents)
}

// DeleteDocument removes a user-owned document; its chunks cascade in the
// database.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := appMiddleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	docID := chi.URLParam(r, "id")
	doc, err := h.dbclient.GetDocumentByID(r.Context(), docID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil || doc.UserID != userID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	if err := h.dbclient.DeleteDocument(r.Context(), docID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
