// Command trackresp prints the status code and cookies of tracker responses.
//
//	trackresp inspect capture.http          # raw response captured from a proxy
//	trackresp fetch 'https://stats.example.org/piwik.php?idsite=1&rec=1'
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/WhileEndless/go-trackresp/pkg/response"
	"github.com/WhileEndless/go-trackresp/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// maxFetchBody bounds how much of a fetched body is kept for printing
const maxFetchBody = 1 << 20

type app struct {
	configPath string
	logLevel   string
	jsonOut    bool
	showBody   bool

	cfg    *Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "trackresp",
		Short:         "Inspect status codes and cookies of tracking responses",
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	flags.BoolVar(&a.jsonOut, "json", false, "print reports as JSON")
	flags.BoolVar(&a.showBody, "body", false, "print the decoded response body")

	root.AddCommand(a.inspectCmd(), a.fetchCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("json") {
		cfg.Output.JSON = a.jsonOut
	}
	if flags.Changed("body") {
		cfg.Output.Body = a.showBody
	}

	logger, err := NewLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Parse raw HTTP responses captured to files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.inspectFile(cmd.OutOrStdout(), path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) inspectFile(w io.Writer, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	conn, err := response.ParseRawWithOptions(raw, response.ParseOptions{
		AutoDecodeChunked: true,
		CanonicalKeys:     a.cfg.Fetch.CanonicalKeys,
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	a.logger.Debug("parsed raw response",
		zap.String("file", path),
		zap.Int("bytes", len(raw)),
		zap.Stringer("compression", conn.DetectedCompression))

	data := response.New(conn, response.WithLogger(a.logger.Named("response")))
	return a.writeReport(w, path, data, conn.Body)
}

func (a *app) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch URL",
		Short: "Send a GET request and inspect the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fetch(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) fetch(ctx context.Context, w io.Writer, url string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client := &http.Client{
		Timeout: a.cfg.Fetch.Timeout,
		// Report the tracker's own response, not a redirect target
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.cfg.Fetch.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		a.logger.Warn("reading body failed", zap.String("url", url), zap.Error(err))
	}

	a.logger.Debug("fetched", zap.String("url", url), zap.String("status", resp.Status))

	data := response.New(response.FromHTTPResponse(resp), response.WithLogger(a.logger.Named("response")))
	return a.writeReport(w, url, data, body)
}
