// pkg/server/handler.go
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/audit"
	"github.com/abhaysharma000/Money-Muling/pkg/config"
	"github.com/abhaysharma000/Money-Muling/pkg/demo"
	"github.com/abhaysharma000/Money-Muling/pkg/engine"
	"github.com/abhaysharma000/Money-Muling/pkg/ingest"
	"github.com/abhaysharma000/Money-Muling/pkg/model"
	"github.com/abhaysharma000/Money-Muling/pkg/pipeline"
	"github.com/abhaysharma000/Money-Muling/pkg/schema"
)

// maxUploadBytes caps the multipart form held in memory during an upload
const maxUploadBytes = 64 << 20

// Handler owns the request-handling dependencies: the resolver/normalizer
// pair, the session handle, the provenance recorder, and the demo
// generator. One handler serves all requests.
type Handler struct {
	cfg        *config.Config
	resolver   *schema.Resolver
	normalizer *schema.Normalizer
	recorder   audit.Recorder
	session    *Session
	generator  *demo.Generator
	logger     *zap.Logger

	// newEngine builds the engine instance for one upload; replaced in
	// tests with a stub factory
	newEngine func(logger *zap.Logger) (engine.Engine, error)
}

// NewHandler wires the request-handling components together
func NewHandler(cfg *config.Config, recorder audit.Recorder, logger *zap.Logger) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if recorder == nil {
		return nil, errors.New("audit recorder cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	resolver, err := schema.NewResolver(logger)
	if err != nil {
		return nil, err
	}
	resolver = resolver.WithSampleRows(cfg.SampleRows)

	if cfg.AliasFile != "" {
		aliases, err := schema.LoadAliasFile(cfg.AliasFile)
		if err != nil {
			return nil, err
		}
		resolver = resolver.WithAliases(aliases)
	}

	normalizer, err := schema.NewNormalizer(logger)
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:        cfg,
		resolver:   resolver,
		normalizer: normalizer,
		recorder:   recorder,
		session:    NewSession(),
		generator:  demo.NewGenerator(42),
		logger:     logger,
		newEngine: func(logger *zap.Logger) (engine.Engine, error) {
			return engine.NewForensicsEngine(logger)
		},
	}, nil
}

// handleRoot returns the service banner
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Financial Forensics Engine API"})
}

// handleUpload accepts a multipart CSV upload, normalizes it, and streams
// the analysis back as server-sent events. Schema and malformed-input
// failures are rejected with 400 before any pipeline stage starts.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", requestIDFromContext(r.Context()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", requestIDFromContext(r.Context()))
		return
	}
	defer file.Close()

	if err := ingest.ValidateFilename(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), requestIDFromContext(r.Context()))
		return
	}

	table, err := ingest.ReadTable(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), requestIDFromContext(r.Context()))
		return
	}

	h.analyzeTable(w, r, table)
}

// handleGenerateDemo builds a synthetic ledger in memory and pushes it
// through the same resolution and analysis path as a real upload
func (h *Handler) handleGenerateDemo(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.generator.WriteLedger(&buf, h.cfg.DemoTransactions); err != nil {
		h.logger.Error("Demo ledger generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "demo generation failed", requestIDFromContext(r.Context()))
		return
	}

	table, err := ingest.ReadTable(&buf)
	if err != nil {
		h.logger.Error("Demo ledger unparseable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "demo generation failed", requestIDFromContext(r.Context()))
		return
	}

	h.analyzeTable(w, r, table)
}

// analyzeTable resolves and normalizes a raw table, installs a fresh engine
// in the session, and streams the pipeline's events until the terminal one
func (h *Handler) analyzeTable(w http.ResponseWriter, r *http.Request, table *model.RawTable) {
	uploadID := uuid.New().String()
	logger := h.logger.With(zap.String("uploadID", uploadID))

	mapping, err := h.resolver.Resolve(table)
	if err != nil {
		if schema.IsSchemaError(err) {
			writeError(w, http.StatusBadRequest, err.Error(), requestIDFromContext(r.Context()))
			return
		}
		logger.Error("Schema resolution failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "schema resolution failed", requestIDFromContext(r.Context()))
		return
	}

	canonical, err := h.normalizer.Normalize(table, mapping)
	if err != nil {
		logger.Error("Normalization failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "normalization failed", requestIDFromContext(r.Context()))
		return
	}

	// Provenance recording must never block or fail an upload
	if err := h.recorder.Record(r.Context(), uploadID, mapping.Operations()); err != nil {
		logger.Error("Failed to record resolution provenance", zap.Error(err))
	}

	eng, err := h.newEngine(logger)
	if err != nil {
		logger.Error("Engine construction failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "engine initialization failed", requestIDFromContext(r.Context()))
		return
	}
	h.session.Swap(uploadID, eng)

	runner, err := pipeline.NewRunner(eng, logger)
	if err != nil {
		logger.Error("Runner construction failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "pipeline initialization failed", requestIDFromContext(r.Context()))
		return
	}

	stream := runner.Run(r.Context(), canonical)

	sw, err := newSSEWriter(w)
	if err != nil {
		logger.Error("Streaming unsupported by response writer", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "streaming unsupported", requestIDFromContext(r.Context()))
		return
	}

	for ev := range stream {
		if err := sw.WriteEvent(ev.Payload()); err != nil {
			// Client is gone; the request context cancellation stops the
			// pipeline at its next stage boundary
			logger.Warn("Event stream write failed", zap.Error(err))
			return
		}
	}
}

// handleDeepDive produces the per-account forensic deep-dive against the
// engine state of the most recent upload
func (h *Handler) handleDeepDive(w http.ResponseWriter, r *http.Request, accountID string) {
	eng, uploadID, ok := h.session.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis has been run yet", requestIDFromContext(r.Context()))
		return
	}

	if !eng.HasNode(accountID) {
		writeError(w, http.StatusNotFound, "Account not found", requestIDFromContext(r.Context()))
		return
	}

	h.logger.Debug("Serving account deep-dive",
		zap.String("uploadID", uploadID),
		zap.String("accountID", accountID))

	writeJSON(w, http.StatusOK, buildDeepDive(eng, accountID))
}

// writeJSON serializes a JSON response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the error body shape for non-streaming failures
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError serializes a JSON error response
func writeError(w http.ResponseWriter, status int, msg, requestID string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID})
}
