package server

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-optimizer/pkg/extract"
	"github.com/nikogura/resume-optimizer/pkg/jd"
	"github.com/nikogura/resume-optimizer/pkg/llm"
	"github.com/nikogura/resume-optimizer/pkg/optimizer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// OptimizeResponse is the JSON body returned by the API.
type OptimizeResponse struct {
	Markdown    string  `json:"markdown"`
	HTML        string  `json:"html"`
	PDFPath     string  `json:"pdf_path,omitempty"`
	Mode        string  `json:"mode"`
	Level       string  `json:"level"`
	Temperature float64 `json:"temperature"`
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type indexPage struct {
	Accept       string
	Levels       []optimizer.Level
	DefaultLevel optimizer.Level
	DefaultMode  optimizer.Mode
}

type resultPage struct {
	Markdown     string
	HTML         template.HTML
	Mode         optimizer.Mode
	Level        optimizer.Level
	Temperature  float64
	PDFAvailable bool
}

// badRequestError marks input problems that the client can fix.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() (msg string) {
	msg = e.msg
	return msg
}

func badRequest(format string, args ...interface{}) (err error) {
	err = &badRequestError{msg: errors.Errorf(format, args...).Error()}
	return err
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "index", indexPage{
		Accept:       acceptList(),
		Levels:       optimizer.Levels,
		DefaultLevel: s.opts.DefaultLevel,
		DefaultMode:  s.opts.DefaultMode,
	})
}

func (s *Server) handleOptimizeForm(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r)

	result, err := s.optimize(w, r)
	if err != nil {
		status := statusFor(err)
		log.WithError(err).WithField("status", status).Warn("optimization failed")
		http.Error(w, err.Error(), status)
		return
	}

	s.renderPage(w, r, "result", resultPage{
		Markdown:     result.Formats.Markdown,
		HTML:         template.HTML(result.Formats.HTML), //nolint:gosec // MarkdownToHTML omits raw HTML
		Mode:         result.Mode,
		Level:        result.Level,
		Temperature:  result.Temperature,
		PDFAvailable: result.PDFPath != "",
	})
}

func (s *Server) handleOptimizeAPI(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r)

	result, err := s.optimize(w, r)
	if err != nil {
		status := statusFor(err)
		log.WithError(err).WithField("status", status).Warn("optimization failed")

		response := ErrorResponse{Error: err.Error()}
		var completionErr *llm.CompletionError
		if errors.As(err, &completionErr) {
			response.Kind = completionErr.Kind.String()
		}
		writeJSON(w, log, status, response)
		return
	}

	writeJSON(w, log, http.StatusOK, OptimizeResponse{
		Markdown:    result.Formats.Markdown,
		HTML:        result.Formats.HTML,
		PDFPath:     result.PDFPath,
		Mode:        string(result.Mode),
		Level:       string(result.Level),
		Temperature: result.Temperature,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastPDF == "" {
		http.Error(w, "no PDF has been generated yet", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(s.lastPDF)
	if err != nil {
		s.logger(r).WithError(err).Warn("failed to read pdf")
		http.Error(w, "PDF is no longer available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(s.lastPDF)+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger(r), http.StatusOK, map[string]string{"status": "healthy"})
}

// optimize parses the multipart form and runs it through the pipeline.
func (s *Server) optimize(w http.ResponseWriter, r *http.Request) (result optimizer.Result, err error) {
	var req optimizer.Request
	var file multipart.File
	req, file, err = s.parseRequest(w, r)
	if err != nil {
		return result, err
	}
	defer file.Close()

	s.logger(r).WithFields(logrus.Fields{
		"filename": req.Filename,
		"mode":     req.Mode,
		"level":    req.Level,
	}).Info("optimization requested")

	result, err = s.run(r.Context(), req)
	return result, err
}

// parseRequest reads the upload form. The returned file must be closed by the caller.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (req optimizer.Request, file multipart.File, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	err = r.ParseMultipartForm(s.opts.MaxUploadBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = badRequest("upload exceeds %d bytes", s.opts.MaxUploadBytes)
			return req, file, err
		}
		err = badRequest("invalid form: %v", err)
		return req, file, err
	}

	req.Level = s.formLevel(r, r.FormValue("level"))

	req.Mode, err = s.formMode(r.FormValue("mode"))
	if err != nil {
		err = badRequest("%v", err)
		return req, file, err
	}

	req.JobDescription, err = s.jobDescription(r.Context(), r.FormValue("job_description"))
	if err != nil {
		return req, file, err
	}

	var header *multipart.FileHeader
	file, header, err = r.FormFile("resume")
	if err != nil {
		err = badRequest("resume file is required")
		return req, file, err
	}

	req.Filename = header.Filename
	req.Resume = file
	return req, file, err
}

// formLevel resolves the submitted level. Unknown names run at the Balanced temperature.
func (s *Server) formLevel(r *http.Request, value string) (level optimizer.Level) {
	if strings.TrimSpace(value) == "" {
		level = s.opts.DefaultLevel
		return level
	}

	level, known := optimizer.ParseLevel(value)
	if !known {
		s.logger(r).WithField("level", value).Warnf("unknown optimization level, using %s", level)
	}
	return level
}

func (s *Server) formMode(value string) (mode optimizer.Mode, err error) {
	if strings.TrimSpace(value) == "" {
		mode = s.opts.DefaultMode
		return mode, err
	}
	mode, err = optimizer.ParseMode(value)
	return mode, err
}

// jobDescription returns the submitted text, or the text of the posting when a link was submitted.
func (s *Server) jobDescription(ctx context.Context, value string) (text string, err error) {
	if !jd.IsURL(value) {
		text = value
		return text, err
	}

	text, err = s.opts.FetchJD(ctx, strings.TrimSpace(value))
	if err != nil {
		err = badRequest("could not load job description: %v", err)
		return text, err
	}
	return text, err
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) (status int) {
	var badInput *badRequestError
	var formatErr *extract.UnsupportedFormatError
	var completionErr *llm.CompletionError

	switch {
	case errors.As(err, &badInput), errors.As(err, &formatErr):
		status = http.StatusBadRequest
	case errors.Is(err, optimizer.ErrEmptyResume), errors.Is(err, optimizer.ErrEmptyJobDescription):
		status = http.StatusBadRequest
	case errors.As(err, &completionErr):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	return status
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	var buf bytes.Buffer
	err := s.pages.ExecuteTemplate(&buf, name, data)
	if err != nil {
		s.logger(r).WithError(err).Error("failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}
