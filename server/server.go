// Package server exposes a session.Controller over HTTP: a small embedded
// page plus the JSON API the page drives.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/session"
)

//go:embed static/index.html
var static embed.FS

// maxUploadMemory is how much of a multipart upload is kept in memory; the
// rest spills to temporary files.
const maxUploadMemory = 32 << 20

// shutdownTimeout bounds how long Run waits for open requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves one controller.
type Server struct {
	ctrl   *session.Controller
	logger *log.Logger
	mux    *http.ServeMux
}

// LanguageInfo describes a selectable code language.
type LanguageInfo struct {
	ID   codelai.Language `json:"id"`
	Name string           `json:"name"`
}

// New creates a server for ctrl. A nil logger discards log output.
func New(ctrl *session.Controller, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Server{
		ctrl:   ctrl,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/languages", s.handleLanguages)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("PUT /api/input", s.handleInput)
	s.mux.HandleFunc("PUT /api/language", s.handleLanguage)
	s.mux.HandleFunc("PUT /api/mode", s.handleMode)
	s.mux.HandleFunc("PUT /api/target", s.handleTarget)
	s.mux.HandleFunc("DELETE /api/error", s.handleDismiss)
	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/translate", s.handleTranslate)
	s.mux.HandleFunc("GET /api/download", s.handleDownload)
}

// ServeHTTP implements http.Handler with one log line per request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Printf("%s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page not available")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs := make([]LanguageInfo, len(codelai.SupportedLanguages))
	for i, l := range codelai.SupportedLanguages {
		langs[i] = LanguageInfo{ID: l, Name: l.DisplayName()}
	}
	writeJSON(w, http.StatusOK, langs)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input string `json:"input"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.ctrl.SetInput(body.Input)
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if !decode(w, r, &body) {
		return
	}
	lang := codelai.Language(strings.ToLower(strings.TrimSpace(body.Language)))
	if err := s.ctrl.SetLanguage(lang); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if !decode(w, r, &body) {
		return
	}
	mode, ok := codelai.ParseMode(body.Mode)
	if !ok {
		mode = codelai.Mode(body.Mode)
	}
	if err := s.ctrl.SetMode(mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetLang string `json:"targetLang"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := s.ctrl.SetTargetLang(body.TargetLang); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.ctrl.DismissError()
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form field \"file\"")
		return
	}
	defer f.Close()

	if err := s.ctrl.Upload(filepath.Base(header.Filename), f); err != nil {
		s.logger.Printf("upload %q: %v", header.Filename, err)
		writeError(w, http.StatusBadRequest, session.FileReadFailedMessage)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	// The page cannot cancel a translation once dispatched; the translator's
	// timeout bounds it instead.
	ctx := context.WithoutCancel(r.Context())

	start := time.Now()
	err := s.ctrl.Translate(ctx)

	var ie *codelai.InputError
	switch {
	case err == nil:
		st := s.ctrl.State()
		s.logger.Printf("translated %s (%s -> %s) in %v", st.Language, st.Mode, st.TargetLang, time.Since(start).Round(time.Millisecond))
		writeJSON(w, http.StatusOK, st)
	case errors.Is(err, session.ErrBlankInput):
		writeError(w, http.StatusBadRequest, "nothing to translate")
	case errors.Is(err, session.ErrInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &ie), errors.Is(err, codelai.ErrEmptySource):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Printf("translation failed after %v: %v", time.Since(start).Round(time.Millisecond), causeOf(err))
		writeJSON(w, http.StatusBadGateway, s.ctrl.State())
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	att, ok := s.ctrl.Download()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.Name}))
	_, _ = w.Write([]byte(att.Content))
}

// causeOf returns the underlying error of a TranslationError for logging;
// the user-facing message never carries it.
func causeOf(err error) error {
	var te *codelai.TranslationError
	if errors.As(err, &te) && te.Cause != nil {
		return te.Cause
	}
	return err
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
