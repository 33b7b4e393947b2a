package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/patchlint/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the patchlint checks.

Endpoints:
  GET  /health    — Health check
  POST /api/lint  — Lint one patch: {"name": "...", "patch": "..."}
  POST /api/run   — Lint a directory: {"dir": "...", "pattern": "*.patch"}
  GET  /api/ws    — WebSocket for interactive lint sessions`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
	serveCmd.Flags().Bool("cache", false, "reuse reports for unchanged patches in /api/run")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")
	useCache, _ := cmd.Flags().GetBool("cache")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := withLogger(cfg)

	opts := api.Options{
		Lint:    cfg.LintOptions(),
		Pattern: cfg.Pattern,
		Jobs:    cfg.Jobs,
		Logger:  log,
	}
	if useCache {
		if c, err := openCache(); err != nil {
			log.Warnw("cache disabled", "error", err)
		} else {
			opts.Cache = c
		}
	}

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv, err := api.New(listen, opts)
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}
