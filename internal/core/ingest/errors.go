package ingest

import (
	"errors"
	"net/http"
)

// Step labels identify the pipeline stage a failure came from. They appear in
// the error envelope so callers can tell a gate rejection from a storage or
// database fault.
const (
	StepValidate   = "validate"
	StepTypeGate   = "type_gate"
	StepFetch      = "fetch"
	StepSizeGuard  = "size_guard"
	StepQuotaGuard = "quota_guard"
	StepDedup      = "dedup"
	StepExtract    = "extract"
	StepChunk      = "chunk"
	StepPersist    = "persist"
)

// Error is the pipeline's terminal failure: a stable user-facing message, the
// HTTP status it maps to, and the step that produced it.
type Error struct {
	Status  int
	Message string
	Step    string
}

func (e *Error) Error() string {
	return e.Message
}

// AsError unwraps err to a pipeline *Error, or wraps it into a generic 500 so
// handlers always have a structured result to serialize.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}

func errBadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg, Step: StepValidate}
}

func errForbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "file path does not belong to the authenticated user", Step: StepValidate}
}

func errUnsupportedType(ext string) *Error {
	msg := "unsupported file type: ." + ext
	if ext == "" {
		msg = "file has no extension"
	}
	return &Error{Status: http.StatusBadRequest, Message: msg, Step: StepTypeGate}
}

func errStorageRead(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "failed to read uploaded file: " + err.Error(), Step: StepFetch}
}

func errPayloadTooLarge() *Error {
	return &Error{Status: http.StatusRequestEntityTooLarge, Message: "file exceeds the maximum allowed size", Step: StepSizeGuard}
}

func errQuotaExceeded() *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: "document limit reached", Step: StepQuotaGuard}
}

func errExtractionFailed(cause string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: "text extraction failed: " + cause, Step: StepExtract}
}

func errEmptyDocument() *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: "document contains no extractable text", Step: StepExtract}
}

func errNoChunks() *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: "no chunks could be generated from the document", Step: StepChunk}
}

func errPersistence(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "failed to store document: " + err.Error(), Step: StepPersist}
}

func errDatabase(step string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "database error: " + err.Error(), Step: step}
}
