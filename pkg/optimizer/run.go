package optimizer

import (
	"context"
	"io"
	"strings"

	"github.com/nikogura/resume-optimizer/pkg/extract"
	"github.com/nikogura/resume-optimizer/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyResume is returned when no text could be extracted from the upload.
	ErrEmptyResume = errors.New("resume contains no text")
	// ErrEmptyJobDescription is returned when the job description is blank.
	ErrEmptyJobDescription = errors.New("job description is required")
)

// Converter renders a Markdown document into every output format.
type Converter interface {
	Convert(ctx context.Context, markdown string) (formats renderer.Formats, err error)
}

// Request is one résumé submitted for optimisation.
type Request struct {
	// Filename selects the extractor by extension.
	Filename       string
	Resume         io.Reader
	JobDescription string
	Level          Level
	Mode           Mode
}

// Result is the outcome of Run.
type Result struct {
	Formats renderer.Formats
	// PDFPath is empty when no PDF was rendered.
	PDFPath     string
	Mode        Mode
	Level       Level
	Temperature float64
}

// Run extracts the résumé text, runs the flow selected by the request mode and renders
// the result. The PDF, when rendered, replaces whatever was at the PDF path.
func (o *Optimizer) Run(ctx context.Context, req Request) (result Result, err error) {
	if req.Level == "" {
		req.Level = Balanced
	}
	if req.Mode == "" {
		req.Mode = ModeTailor
	}

	result.Mode = req.Mode
	result.Level = req.Level
	result.Temperature = req.Level.Temperature()

	if strings.TrimSpace(req.JobDescription) == "" {
		err = ErrEmptyJobDescription
		return result, err
	}

	if req.Resume == nil {
		err = ErrEmptyResume
		return result, err
	}

	var resumeText string
	resumeText, err = extract.FromReader(req.Filename, req.Resume)
	if err != nil {
		return result, err
	}

	if strings.TrimSpace(resumeText) == "" {
		err = errors.Wrap(ErrEmptyResume, req.Filename)
		return result, err
	}

	log := o.log.WithFields(logrus.Fields{
		"filename":    req.Filename,
		"mode":        req.Mode,
		"level":       req.Level,
		"temperature": result.Temperature,
	})
	log.Info("running optimization")

	var document string
	switch req.Mode {
	case ModeTailor:
		document, err = o.Tailor(ctx, resumeText, req.JobDescription, result.Temperature)
	case ModeAnalyze:
		document, err = o.Analyze(ctx, resumeText, req.JobDescription, result.Temperature)
	default:
		err = errors.Errorf("unknown mode '%s'", req.Mode)
	}
	if err != nil {
		return result, err
	}

	result.Formats, err = o.render(ctx, document)
	if err != nil {
		return result, err
	}

	if len(result.Formats.PDF) > 0 {
		pdfPath := o.pdfPath
		if pdfPath == "" {
			pdfPath = renderer.DefaultPDFPath()
		}

		err = renderer.WriteFile(result.Formats.PDF, pdfPath)
		if err != nil {
			return result, err
		}
		result.PDFPath = pdfPath
	}

	log.WithField("pdf_path", result.PDFPath).Info("optimization complete")
	return result, err
}

// render converts the document with the configured converter, or to Markdown and an HTML
// fragment only when there is none.
func (o *Optimizer) render(ctx context.Context, document string) (formats renderer.Formats, err error) {
	if o.converter != nil {
		formats, err = o.converter.Convert(ctx, document)
		if err != nil {
			err = errors.Wrap(err, "failed to convert result")
		}
		return formats, err
	}

	formats.Markdown = document
	formats.HTML, err = renderer.MarkdownToHTML(document)
	return formats, err
}
