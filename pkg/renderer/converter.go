package renderer

import (
	"context"
	"html/template"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// PDFFilename is the name of the PDF written to the temporary directory on every run.
const PDFFilename = "optimized_resume.pdf"

// Formats holds one document in every output format.
type Formats struct {
	Markdown string
	// HTML is the rendered fragment.
	HTML string
	// Page is HTML wrapped in the page template with the stylesheet inlined.
	Page string
	PDF  []byte
}

// Converter renders Markdown to HTML and PDF.
type Converter struct {
	engine  PDFEngine
	page    *template.Template
	cssPath string
}

// NewConverter creates a converter. A nil engine skips PDF rendering. An empty templatePath
// uses the built-in page template, and cssPath may point at a stylesheet that does not exist,
// in which case it is ignored.
func NewConverter(engine PDFEngine, templatePath, cssPath string) (converter *Converter, err error) {
	var page *template.Template
	page, err = LoadPageTemplate(templatePath)
	if err != nil {
		return converter, err
	}

	converter = &Converter{
		engine:  engine,
		page:    page,
		cssPath: cssPath,
	}
	return converter, err
}

// Convert produces the HTML fragment, the full page and the PDF for a Markdown document.
func (c *Converter) Convert(ctx context.Context, markdown string) (formats Formats, err error) {
	formats.Markdown = markdown

	formats.HTML, err = MarkdownToHTML(markdown)
	if err != nil {
		return formats, err
	}

	var css string
	css, err = readStylesheet(c.cssPath)
	if err != nil {
		return formats, err
	}

	formats.Page, err = RenderPage(c.page, PageData{
		CSS:     template.CSS(css), //nolint:gosec // Stylesheet comes from local configuration
		Content: template.HTML(formats.HTML), //nolint:gosec // Produced by MarkdownToHTML
	})
	if err != nil {
		return formats, err
	}

	if c.engine == nil {
		return formats, err
	}

	formats.PDF, err = c.engine.RenderPDF(ctx, formats.Page, c.cssPath)
	if err != nil {
		err = errors.Wrap(err, "failed to render pdf")
		return formats, err
	}

	return formats, err
}

// DefaultPDFPath is the fixed PDF location in the system temporary directory.
func DefaultPDFPath() (path string) {
	path = filepath.Join(os.TempDir(), PDFFilename)
	return path
}

// WriteFile writes content to outputPath, creating the directory if needed and replacing
// any existing file.
func WriteFile(content []byte, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	// Write file
	err = os.WriteFile(outputPath, content, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", outputPath)
		return err
	}

	return err
}

// Cleanup removes files written by a previous run.
func Cleanup(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove file: %s", path)
			return err
		}
	}
	return err
}
