package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nikogura/resume-optimizer/pkg/config"
	"github.com/nikogura/resume-optimizer/pkg/llm"
	"github.com/nikogura/resume-optimizer/pkg/optimizer"
	"github.com/nikogura/resume-optimizer/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// loadConfig reads the config file, or the defaults when there is none, and applies the log level.
func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.LoadOrDefault(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}

	if !getVerbose() {
		var level logrus.Level
		level, err = logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			err = errors.Wrapf(err, "invalid log_level '%s'", cfg.LogLevel)
			return cfg, err
		}
		logrus.SetLevel(level)
	}

	if getVerbose() {
		fmt.Printf("Provider: %s\n", cfg.Provider)
		fmt.Printf("PDF engine: %s\n", cfg.Render.Engine)
	}

	return cfg, err
}

// buildOptimizer wires the completer and converter described by cfg. With skipPDF no PDF engine is used.
func buildOptimizer(cfg config.Config, skipPDF bool) (opt *optimizer.Optimizer, err error) {
	var completer llm.Completer
	completer, err = llm.NewCompleter(llm.Settings{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create completion client")
		return opt, err
	}

	generationModel := cfg.GetGenerationModel()
	if generationModel == "" {
		generationModel = llm.DefaultModel(cfg.Provider)
	}

	enhancementModel := cfg.GetEnhancementModel()
	if enhancementModel == "" {
		enhancementModel = generationModel
	}

	opts := optimizer.Options{
		GenerationModel:  generationModel,
		EnhancementModel: enhancementModel,
		PDFPath:          cfg.Render.PDFPath,
		Logger:           logrus.StandardLogger(),
	}

	var engine renderer.PDFEngine
	if !skipPDF {
		engine, err = renderer.NewEngine(cfg.Render.Engine)
		if err != nil {
			return opt, err
		}
	}

	opts.Converter, err = renderer.NewConverter(engine, cfg.Render.TemplatePath, cfg.Render.CSSFile)
	if err != nil {
		return opt, err
	}

	opt, err = optimizer.New(completer, opts)
	return opt, err
}

// defaultLevelAndMode parses the configured defaults.
func defaultLevelAndMode(cfg config.Config) (level optimizer.Level, mode optimizer.Mode, err error) {
	level = resolveLevel(cfg.Defaults.Level)

	mode, err = optimizer.ParseMode(cfg.Defaults.Mode)
	if err != nil {
		err = errors.Wrap(err, "invalid defaults.mode")
		return level, mode, err
	}

	return level, mode, err
}

// resolveLevel parses a level name. Unknown names run at the Balanced temperature with a warning.
func resolveLevel(name string) (level optimizer.Level) {
	level, known := optimizer.ParseLevel(name)
	if !known {
		logrus.WithField("level", name).Warnf("unknown optimization level, using %s (temperature %.1f)", level, level.Temperature())
	}
	return level
}

func printDone(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}
