package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// EnginePandoc renders PDFs with pandoc and weasyprint.
	EnginePandoc = "pandoc"
	// EngineChrome renders PDFs with headless Chromium.
	EngineChrome = "chrome"
)

// PDFEngine converts a complete HTML page to PDF bytes.
type PDFEngine interface {
	RenderPDF(ctx context.Context, page, cssPath string) (pdf []byte, err error)
}

// NewEngine returns the PDF engine with the given name.
func NewEngine(name string) (engine PDFEngine, err error) {
	switch name {
	case "", EnginePandoc:
		engine = &PandocEngine{PDFEngine: "weasyprint"}
	case EngineChrome:
		engine = &ChromeEngine{}
	default:
		err = errors.Errorf("unknown pdf engine '%s': must be '%s' or '%s'", name, EnginePandoc, EngineChrome)
		return engine, err
	}
	return engine, err
}

// PandocEngine converts HTML to PDF by running pandoc.
type PandocEngine struct {
	// PDFEngine is passed to pandoc's --pdf-engine flag.
	PDFEngine string
}

// RenderPDF writes the page to a scratch directory, runs pandoc on it and returns the PDF bytes.
func (p *PandocEngine) RenderPDF(ctx context.Context, page, cssPath string) (pdf []byte, err error) {
	// Validate pandoc exists
	err = checkPandocExists(ctx)
	if err != nil {
		return pdf, err
	}

	var workDir string
	workDir, err = os.MkdirTemp("", "resume-optimizer-")
	if err != nil {
		err = errors.Wrap(err, "failed to create scratch directory")
		return pdf, err
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "resume.html")
	outputPath := filepath.Join(workDir, "resume.pdf")

	err = os.WriteFile(inputPath, []byte(page), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write html file: %s", inputPath)
		return pdf, err
	}

	cmd := exec.CommandContext(ctx, "pandoc", p.buildArgs(inputPath, outputPath, cssPath)...)

	// Capture output
	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return pdf, err
	}

	pdf, err = os.ReadFile(outputPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read pdf output: %s", outputPath)
		return pdf, err
	}

	return pdf, err
}

// buildArgs assembles the pandoc command line. The stylesheet is only passed when it exists.
func (p *PandocEngine) buildArgs(inputPath, outputPath, cssPath string) (args []string) {
	engine := p.PDFEngine
	if engine == "" {
		engine = "weasyprint"
	}

	args = []string{
		"-f", "html",
		"-t", "pdf",
		"-o", outputPath,
		"--pdf-engine=" + engine,
		"--metadata", "pagetitle=Resume",
	}

	if cssPath != "" && validateFiles(cssPath) == nil {
		args = append(args, "--css", cssPath)
	}

	args = append(args, inputPath)
	return args
}

// checkPandocExists verifies pandoc is installed.
func checkPandocExists(ctx context.Context) (err error) {
	cmd := exec.CommandContext(ctx, "pandoc", "--version")
	err = cmd.Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate PDFs)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}
