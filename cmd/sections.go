package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/nikogura/resume-optimizer/pkg/extract"
	"github.com/nikogura/resume-optimizer/pkg/sections"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var uppercaseHeaders bool

//nolint:gochecknoglobals // Cobra boilerplate
var sectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "Show how a resume splits into sections",
	Long: `Extract the text of a resume, split it into named sections and print each section
followed by the document recomposed in canonical order.

Markdown files (.md) are read as they are and split on '#' headers. Uploadable
formats (.pdf, .docx, .doc, .txt) are extracted first and split on all-uppercase lines.
No API key is needed.

Example:
  resume-optimizer sections resume.md
  resume-optimizer sections resume.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsCmd.Flags().BoolVar(&uppercaseHeaders, "uppercase", false, "Split on uppercase lines even for Markdown files")
}

func runSections(cmd *cobra.Command, args []string) (err error) {
	mode := sections.ModeForFilename(args[0])

	var text string
	text, err = readSectionsInput(args[0], mode)
	if err != nil {
		return err
	}

	if uppercaseHeaders {
		mode = sections.UppercaseHeaders
	}

	secs := sections.Segment(text, mode)

	out := cmd.OutOrStdout()
	heading := color.New(color.Bold, color.Underline)
	_, _ = fmt.Fprintln(out, heading.Sprintf("Sections (%s headers)", mode))
	for _, name := range secs.Names() {
		body, _ := secs.Get(name)
		marker := " "
		if sections.IsCanonical(name) {
			marker = color.GreenString("✓")
		}
		_, _ = fmt.Fprintf(out, "%s %-24s %d lines\n", marker, name, strings.Count(body, "\n")+1)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, heading.Sprint("Recomposed"))
	_, _ = fmt.Fprint(out, sections.Recompose(secs))
	return err
}

// readSectionsInput reads Markdown files as they are and everything else through the upload extractors.
func readSectionsInput(path string, mode sections.HeaderMode) (text string, err error) {
	if mode != sections.MarkdownHeaders {
		text, err = extract.FromFile(path)
		return text, err
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", path)
		return text, err
	}

	text = string(data)
	return text, err
}
