// Package server serves the résumé optimizer over HTTP: an upload form, a result page,
// a JSON API and the PDF download.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/nikogura/resume-optimizer/pkg/extract"
	"github.com/nikogura/resume-optimizer/pkg/jd"
	"github.com/nikogura/resume-optimizer/pkg/optimizer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// RunTimeout bounds a single optimization request.
	RunTimeout = 5 * time.Minute

	requestIDHeader = "X-Request-ID"
)

// Pipeline runs one optimization request.
type Pipeline interface {
	Run(ctx context.Context, req optimizer.Request) (result optimizer.Result, err error)
}

// FetchFunc loads a job description from a URL.
type FetchFunc func(ctx context.Context, input string) (content string, err error)

// Options configures a Server.
type Options struct {
	DefaultLevel   optimizer.Level
	DefaultMode    optimizer.Mode
	MaxUploadBytes int64
	// RunTimeout bounds each pipeline run, counted from when the run starts. Defaults to RunTimeout.
	RunTimeout time.Duration
	// FetchJD loads job descriptions submitted as a link. Defaults to jd.FetchWithContext.
	FetchJD FetchFunc
	Logger  logrus.FieldLogger
}

// Server handles the web interface. Pipeline runs are serialised because every run
// writes the same PDF file.
type Server struct {
	pipeline Pipeline
	opts     Options
	pages    *template.Template
	log      logrus.FieldLogger

	mu      sync.Mutex
	lastPDF string
}

// New creates a Server around a pipeline.
func New(pipeline Pipeline, opts Options) (s *Server, err error) {
	if pipeline == nil {
		err = errors.New("pipeline is required")
		return s, err
	}

	if opts.DefaultLevel == "" {
		opts.DefaultLevel = optimizer.Balanced
	}
	if opts.DefaultMode == "" {
		opts.DefaultMode = optimizer.ModeTailor
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = RunTimeout
	}
	if opts.FetchJD == nil {
		opts.FetchJD = jd.FetchWithContext
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	var pages *template.Template
	pages, err = template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		err = errors.Wrap(err, "failed to parse page templates")
		return s, err
	}

	s = &Server{
		pipeline: pipeline,
		opts:     opts,
		pages:    pages,
		log:      opts.Logger,
	}
	return s, err
}

// Routes returns the HTTP handler for every endpoint.
func (s *Server) Routes() (handler http.Handler) {
	r := mux.NewRouter()
	r.Use(s.requestID)

	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/optimize", s.handleOptimizeForm).Methods(http.MethodPost)
	r.HandleFunc("/api/optimize", s.handleOptimizeAPI).Methods(http.MethodPost)
	r.HandleFunc("/download", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	handler = r
	return handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.WithField("address", addr).Info("server listening")

	select {
	case err = <-errCh:
		err = errors.Wrap(err, "server failed")
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "failed to shut down server")
		return err
	}

	s.log.Info("server stopped")
	return err
}

// run executes one request against the pipeline and remembers where its PDF went.
func (s *Server) run(ctx context.Context, req optimizer.Request) (result optimizer.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The timeout starts once the previous run has released the lock
	ctx, cancel := context.WithTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	result, err = s.pipeline.Run(ctx, req)
	if err != nil {
		return result, err
	}

	if result.PDFPath != "" {
		s.lastPDF = result.PDFPath
	}
	return result, err
}

type ctxKey int

const loggerKey ctxKey = iota

// requestID tags each request with an id that is echoed in the response and carried by its log entries.
func (s *Server) requestID(next http.Handler) (handler http.Handler) {
	handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		entry := s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey, entry)))
		entry.WithField("duration", time.Since(start).String()).Debug("request handled")
	})
	return handler
}

func (s *Server) logger(r *http.Request) (log logrus.FieldLogger) {
	if entry, ok := r.Context().Value(loggerKey).(logrus.FieldLogger); ok {
		log = entry
		return log
	}
	log = s.log
	return log
}

// acceptList is the file input accept attribute.
func acceptList() (accept string) {
	accept = strings.Join(extract.SupportedExtensions, ",")
	return accept
}
