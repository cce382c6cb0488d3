// Package optimizer drives the résumé tailoring and analysis flows around a language model.
package optimizer

import (
	"context"
	"strings"

	"github.com/nikogura/resume-optimizer/pkg/llm"
	"github.com/nikogura/resume-optimizer/pkg/sections"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options configures an Optimizer.
type Options struct {
	// GenerationModel writes the full tailored résumé and the analysis.
	GenerationModel string
	// EnhancementModel rewrites experience sections. Empty uses GenerationModel.
	EnhancementModel string
	// Converter renders the result. Nil skips HTML page and PDF rendering.
	Converter Converter
	// PDFPath is where the PDF is written. Empty uses the fixed temp path.
	PDFPath string
	Logger  logrus.FieldLogger
}

// Optimizer tailors and analyses résumés.
type Optimizer struct {
	completer        llm.Completer
	generationModel  string
	enhancementModel string
	converter        Converter
	pdfPath          string
	log              logrus.FieldLogger
}

// New creates an Optimizer around a completer.
func New(completer llm.Completer, opts Options) (o *Optimizer, err error) {
	if completer == nil {
		err = errors.New("completer is required")
		return o, err
	}

	if opts.EnhancementModel == "" {
		opts.EnhancementModel = opts.GenerationModel
	}

	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	o = &Optimizer{
		completer:        completer,
		generationModel:  opts.GenerationModel,
		enhancementModel: opts.EnhancementModel,
		converter:        opts.Converter,
		pdfPath:          opts.PDFPath,
		log:              opts.Logger,
	}
	return o, err
}

// Tailor rewrites the résumé for the job description, then rewrites every experience
// section again against the job description and reassembles the document in canonical order.
func (o *Optimizer) Tailor(ctx context.Context, resumeText, jobDescription string, temperature float64) (document string, err error) {
	var generated string
	generated, err = o.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:      llm.BuildTransformationPrompt(resumeText, jobDescription),
		Model:       o.generationModel,
		Temperature: temperature,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to generate tailored resume")
		return document, err
	}

	secs := sections.Segment(llm.StripMarkdownFences(generated), sections.MarkdownHeaders)
	o.log.WithField("sections", secs.Names()).Debug("segmented generated resume")

	err = o.EnhanceSections(ctx, secs, jobDescription)
	if err != nil {
		return document, err
	}

	document = sections.Recompose(secs)
	return document, err
}

// Analyze asks the model for advice on fitting the résumé to the job description.
func (o *Optimizer) Analyze(ctx context.Context, resumeText, jobDescription string, temperature float64) (analysis string, err error) {
	analysis, err = o.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:      llm.BuildAnalysisPrompt(resumeText, jobDescription),
		Model:       o.generationModel,
		Temperature: temperature,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to analyze resume")
		return analysis, err
	}

	analysis = strings.TrimSpace(llm.StripMarkdownFences(analysis)) + "\n"
	return analysis, err
}

// EnhanceSections replaces the body of every section whose name contains "experience"
// with a version rewritten for the job description. Other sections are left alone.
func (o *Optimizer) EnhanceSections(ctx context.Context, secs *sections.Sections, jobDescription string) (err error) {
	for _, name := range secs.Names() {
		if !strings.Contains(strings.ToLower(name), "experience") {
			continue
		}

		body, _ := secs.Get(name)

		var enhanced string
		enhanced, err = o.completer.Complete(ctx, llm.CompletionRequest{
			Prompt:      llm.BuildExperiencePrompt(body, jobDescription),
			Model:       o.enhancementModel,
			Temperature: ExperienceTemperature,
		})
		if err != nil {
			err = errors.Wrapf(err, "failed to enhance section '%s'", name)
			return err
		}

		o.log.WithField("section", name).Debug("enhanced section")
		secs.Set(name, llm.StripMarkdownFences(enhanced))
	}

	return err
}
