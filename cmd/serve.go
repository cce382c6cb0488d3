package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikogura/resume-optimizer/pkg/config"
	"github.com/nikogura/resume-optimizer/pkg/optimizer"
	"github.com/nikogura/resume-optimizer/pkg/server"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	Long: `Run the web interface: an upload form for the resume, a text box for the job
description (or a link to the posting) and the optimization level.

Endpoints:
  GET  /               upload form
  POST /optimize       result page
  POST /api/optimize   JSON result
  GET  /download       last generated PDF
  GET  /health         health check

Example:
  resume-optimizer serve
  resume-optimizer serve --addr 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, or PORT)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var level optimizer.Level
	var mode optimizer.Mode
	level, mode, err = defaultLevelAndMode(cfg)
	if err != nil {
		return err
	}

	var opt *optimizer.Optimizer
	opt, err = buildOptimizer(cfg, false)
	if err != nil {
		return err
	}

	var srv *server.Server
	srv, err = server.New(opt, server.Options{
		DefaultLevel:   level,
		DefaultMode:    mode,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		Logger:         logrus.StandardLogger(),
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create server")
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Address
	}

	err = srv.ListenAndServe(ctx, addr)
	return err
}
