// Package web exposes the extraction service and the record store over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hourlog/extract"
	"hourlog/internal/logging"
	"hourlog/output"
	"hourlog/storage"
	"hourlog/worklog"
)

const (
	welcomeMessage = "Welcome to the PDM Hour Logging API!"
	parsedMessage  = "Text parsed successfully."
	emptyInputText = "Input text cannot be empty."
	maxBodyBytes   = 1 << 20
)

// Parser is the extraction entry point the API delegates to.
type Parser interface {
	Parse(ctx context.Context, text string, override string) (extract.Outcome, error)
}

// RecordStore is the persistence the worklog endpoints need.
type RecordStore interface {
	InsertRecords(records []worklog.Record) (string, int, error)
	ListRecords() ([]storage.StoredRecord, error)
	DeleteBatch(batchID string) (int64, error)
}

// TaxonomyView serves the taxonomy to clients building task paths.
type TaxonomyView interface {
	JSON() string
}

type Options struct {
	// Store is optional; without it the worklog endpoints answer 503.
	Store          RecordStore
	Taxonomy       TaxonomyView
	AllowedOrigins []string
	Logger         logging.Logger
}

type Server struct {
	parser   Parser
	store    RecordStore
	taxonomy TaxonomyView
	origins  []string
	log      logging.Logger
	mux      *http.ServeMux
}

type parseRequest struct {
	Text     string   `json:"text"`
	TaskPath []string `json:"task_path"`
}

type parseResponse struct {
	Message  string           `json:"message"`
	Data     []worklog.Record `json:"data"`
	Errors   []string         `json:"errors"`
	Warnings []string         `json:"warnings,omitempty"`
	Strategy string           `json:"strategy,omitempty"`
}

type saveRequest struct {
	Records []worklog.Record `json:"records"`
}

type saveResponse struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewServer(parser Parser, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(context.Background())
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	server := &Server{
		parser:   parser,
		store:    opts.Store,
		taxonomy: opts.Taxonomy,
		origins:  origins,
		log:      logger.With("component", "web"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleRoot)
	mux.HandleFunc("POST /api/v1/parse-text", server.handleParseText)
	mux.HandleFunc("GET /api/v1/taxonomy", server.handleTaxonomy)
	mux.HandleFunc("GET /api/v1/worklogs", server.handleWorklogList)
	mux.HandleFunc("POST /api/v1/worklogs", server.handleWorklogSave)
	mux.HandleFunc("GET /api/v1/worklogs/daily", server.handleWorklogDaily)
	mux.HandleFunc("DELETE /api/v1/worklogs/batches/{batch}", server.handleWorklogBatchDelete)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.applyCORS(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r.WithContext(logging.ContextWithLogger(r.Context(), s.log)))
	s.log.Debug("request served",
		"method", r.Method,
		"path", r.URL.Path,
		"status", recorder.status,
		"duration", time.Since(started),
	)
}

func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	allowed := ""
	for _, candidate := range s.origins {
		if candidate == "*" {
			allowed = "*"
			if origin != "" {
				allowed = origin
			}
			break
		}
		if origin != "" && strings.EqualFold(candidate, origin) {
			allowed = origin
			break
		}
	}
	if allowed == "" {
		return
	}

	header := w.Header()
	header.Set("Access-Control-Allow-Origin", allowed)
	header.Set("Access-Control-Allow-Credentials", "true")
	header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	header.Add("Vary", "Origin")
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var body parseRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, emptyInputText)
		return
	}

	outcome, err := s.parser.Parse(r.Context(), body.Text, extract.OverrideFromPath(body.TaskPath))
	if err != nil {
		if errors.Is(err, extract.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, emptyInputText)
			return
		}
		s.log.Error("parse text failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := parseResponse{
		Message:  parsedMessage,
		Data:     outcome.Records,
		Errors:   outcome.Errors,
		Warnings: outcome.Warnings,
		Strategy: outcome.Strategy,
	}
	if response.Data == nil {
		response.Data = []worklog.Record{}
	}
	if response.Errors == nil {
		response.Errors = []string{}
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	if s.taxonomy == nil {
		writeError(w, http.StatusServiceUnavailable, "taxonomy is not loaded")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, s.taxonomy.JSON())
}

func (s *Server) handleWorklogList(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	records, err := s.store.ListRecords()
	if err != nil {
		s.log.Error("list worklogs failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

func (s *Server) handleWorklogSave(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var body saveRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(body.Records) == 0 {
		writeError(w, http.StatusBadRequest, "records must not be empty")
		return
	}

	batchID, inserted, err := s.store.InsertRecords(body.Records)
	if err != nil {
		s.log.Error("save worklogs failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("worklogs saved", "batch_id", batchID, "inserted", inserted)
	writeJSON(w, http.StatusCreated, saveResponse{BatchID: batchID, Inserted: inserted})
}

func (s *Server) handleWorklogDaily(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	stored, err := s.store.ListRecords()
	if err != nil {
		s.log.Error("list worklogs failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": output.BuildDailySummaries(storage.Records(stored))})
}

func (s *Server) handleWorklogBatchDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	batchID := strings.TrimSpace(r.PathValue("batch"))
	deleted, err := s.store.DeleteBatch(batchID)
	if err != nil {
		s.log.Error("delete batch failed", "batch_id", batchID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "worklog storage is not configured")
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
