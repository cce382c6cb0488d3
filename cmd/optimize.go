package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikogura/resume-optimizer/pkg/config"
	"github.com/nikogura/resume-optimizer/pkg/jd"
	"github.com/nikogura/resume-optimizer/pkg/optimizer"
	"github.com/nikogura/resume-optimizer/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var jdInput string

//nolint:gochecknoglobals // Cobra boilerplate
var levelName string

//nolint:gochecknoglobals // Cobra boilerplate
var modeName string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var keepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var skipPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var optimizeCmd = &cobra.Command{
	Use:   "optimize <resume-file>",
	Short: "Tailor a resume to a job description",
	Long: `Tailor a resume to a job description and write it as Markdown, HTML and PDF.

The resume can be a .pdf, .docx, .doc or .txt file.
The job description can be provided as:
- A file path (e.g., jd.txt or a saved posting.html)
- A URL (e.g., https://example.com/jobs/123)

Example:
  resume-optimizer optimize resume.pdf --jd jd.txt
  resume-optimizer optimize resume.docx --jd https://example.com/jobs/123 --level aggressive
  resume-optimizer optimize resume.txt --jd jd.txt --mode analyze --skip-pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		err = runOptimize(args[0], modeName)
		return err
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Suggest how to fit a resume to a job description",
	Long: `Review a resume against a job description without rewriting it. The suggestions
cover keyword alignment, experience relevance and ATS-friendly improvements.

Example:
  resume-optimizer analyze resume.pdf --jd jd.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		err = runOptimize(args[0], string(optimizer.ModeAnalyze))
		return err
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(analyzeCmd)

	for _, c := range []*cobra.Command{optimizeCmd, analyzeCmd} {
		c.Flags().StringVar(&jdInput, "jd", "", "Job description file or URL (required)")
		c.Flags().StringVar(&levelName, "level", "", "Optimization level: conservative, balanced or aggressive (default from config)")
		c.Flags().StringVar(&outputDir, "out-dir", "", "Output directory (default from config)")
		c.Flags().BoolVar(&keepMarkdown, "keep-markdown", true, "Keep markdown and HTML files after PDF generation")
		c.Flags().BoolVar(&skipPDF, "skip-pdf", false, "Skip PDF generation")
		_ = c.MarkFlagRequired("jd")
	}
	optimizeCmd.Flags().StringVar(&modeName, "mode", "", "tailor or analyze (default from config)")
}

func runOptimize(resumePath, modeOverride string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var req optimizer.Request
	req, err = buildRequest(cfg, modeOverride)
	if err != nil {
		return err
	}

	req.JobDescription, err = fetchAndLogJD(ctx, jdInput)
	if err != nil {
		return err
	}

	var opt *optimizer.Optimizer
	opt, err = buildOptimizer(cfg, skipPDF)
	if err != nil {
		return err
	}

	var file *os.File
	file, err = os.Open(resumePath)
	if err != nil {
		err = errors.Wrapf(err, "failed to open resume: %s", resumePath)
		return err
	}
	defer file.Close()

	req.Filename = filepath.Base(resumePath)
	req.Resume = file

	step := startStep(fmt.Sprintf("Running %s at %s level (temperature %.1f)...", req.Mode, req.Level, req.Level.Temperature()))
	var result optimizer.Result
	result, err = opt.Run(ctx, req)
	finishStep(step)
	if err != nil {
		err = errors.Wrap(err, "optimization failed")
		return err
	}
	printDone("Optimization complete")

	outDir := outputDir
	if outDir == "" {
		outDir = cfg.Defaults.OutputDir
	}

	err = writeOutputs(outDir, outputBase(resumePath, result.Mode), result)
	return err
}

// buildRequest resolves the level and mode from flags, falling back to the config defaults.
func buildRequest(cfg config.Config, modeOverride string) (req optimizer.Request, err error) {
	level := levelName
	if level == "" {
		level = cfg.Defaults.Level
	}

	req.Level = resolveLevel(level)

	mode := modeOverride
	if mode == "" {
		mode = cfg.Defaults.Mode
	}

	req.Mode, err = optimizer.ParseMode(mode)
	return req, err
}

// outputBase names the output files after the resume, e.g. "jane-doe-optimized".
func outputBase(resumePath string, mode optimizer.Mode) (base string) {
	name := strings.TrimSuffix(filepath.Base(resumePath), filepath.Ext(resumePath))
	suffix := "optimized"
	if mode == optimizer.ModeAnalyze {
		suffix = "analysis"
	}

	base = sanitizeFilename(name)
	if base == "" {
		base = "resume"
	}
	base = base + "-" + suffix
	return base
}

func writeOutputs(outDir, base string, result optimizer.Result) (err error) {
	mdPath := filepath.Join(outDir, base+".md")
	htmlPath := filepath.Join(outDir, base+".html")
	pdfPath := filepath.Join(outDir, base+".pdf")

	err = renderer.WriteFile([]byte(result.Formats.Markdown), mdPath)
	if err != nil {
		return err
	}

	page := result.Formats.Page
	if page == "" {
		page = result.Formats.HTML
	}

	err = renderer.WriteFile([]byte(page), htmlPath)
	if err != nil {
		return err
	}

	if len(result.Formats.PDF) == 0 {
		fmt.Println("\nFiles saved (PDF generation skipped):")
		fmt.Printf("  Markdown: %s\n", mdPath)
		fmt.Printf("  HTML: %s\n", htmlPath)
		return err
	}

	err = renderer.WriteFile(result.Formats.PDF, pdfPath)
	if err != nil {
		return err
	}
	printDone("PDF saved at: %s", pdfPath)

	if !keepMarkdown {
		err = renderer.Cleanup(mdPath, htmlPath)
		if err != nil {
			printWarning("Failed to clean up intermediate files: %v", err)
			err = nil
		}
		return err
	}

	fmt.Printf("  Markdown: %s\n", mdPath)
	fmt.Printf("  HTML: %s\n", htmlPath)
	return err
}

func fetchAndLogJD(ctx context.Context, input string) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Printf("Loading job description from: %s\n", input)
	}

	jobDescription, err = jd.FetchWithContext(ctx, input)
	if err == nil {
		if getVerbose() {
			fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
		}
		return jobDescription, err
	}

	if !jd.IsURL(input) {
		return jobDescription, err
	}

	// If fetching failed, offer to accept manual input
	printWarning("Failed to fetch job description from URL: %v", err)
	fmt.Println("This often happens with JavaScript-rendered pages (Lever, Workable, etc.)")
	fmt.Println("\nPlease paste the job description text below.")
	fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if scanner.Err() != nil {
		err = errors.Wrap(scanner.Err(), "failed to read job description from stdin")
		return jobDescription, err
	}

	jobDescription = strings.TrimSpace(strings.Join(lines, "\n"))
	if jobDescription == "" {
		err = errors.New("no job description provided")
		return jobDescription, err
	}

	fmt.Printf("\nJob description received (%d characters)\n", len(jobDescription))
	err = nil
	return jobDescription, err
}

// sanitizeFilename lowercases name and replaces everything but letters and digits with single hyphens.
func sanitizeFilename(name string) (sanitized string) {
	sanitized = strings.ToLower(name)

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	// Remove consecutive hyphens
	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	// Trim hyphens from ends
	sanitized = strings.Trim(sanitized, "-")

	return sanitized
}
