// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the routex command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gogama/routex"
	"github.com/gogama/routex/config"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitClientError = 4
	ExitServerError = 5
)

type options struct {
	configFile string
	headers    []string
	data       string
	timeout    time.Duration
	retries    int
	sel        string
	verbose    bool
	noColor    bool
}

// exitError carries a non-zero exit code out of a command that has
// already reported the problem.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the command line args, writing the response to stdout
// and diagnostics to stderr, and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	var ee *exitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.code
	default:
		fmt.Fprintln(stderr, color.New(color.FgRed).Sprint("Error: ")+err.Error())
		return ExitFailure
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "routex",
		Short:         "Send an HTTP request and route the response by status",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	var opts options
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "configuration file (YAML, JSON or TOML)")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	flags.DurationVarP(&opts.timeout, "timeout", "t", 0, "per-attempt timeout, overriding the configuration")
	flags.IntVarP(&opts.retries, "retries", "r", -1, "number of retries, overriding the configuration")
	flags.StringVarP(&opts.sel, "select", "s", "", "print only this gjson path of a JSON response")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every attempt to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		method := method
		c := &cobra.Command{
			Use:   strings.ToLower(method) + " URL",
			Short: "Send a " + method + " request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), method, args[0], &opts, stdout, stderr)
			},
		}
		if method != http.MethodGet && method != http.MethodHead && method != http.MethodOptions {
			c.Flags().StringVarP(&opts.data, "data", "d", "", "request body; '@file' reads it from a file")
		}
		root.AddCommand(c)
	}
	return root
}

func run(ctx context.Context, method, uri string, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.retries >= 0 {
		cfg.Retry.Times = opts.retries
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Format = "console"
	} else {
		cfg.Log.Level = "warn"
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Log.Logger(stderr)
	if err != nil {
		return err
	}

	req := config.NewClient(cfg, logger).Request(method, uri)
	for _, h := range opts.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("invalid header %q: want 'Name: value'", h)
		}
		req = req.Header(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	body, err := readData(opts.data)
	if err != nil {
		return err
	}
	if body != nil && !hasHeader(opts.headers, "Content-Type") {
		req = req.ContentType(guessContentType(body))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	p := &printer{out: stdout, errOut: stderr, sel: opts.sel, noColor: opts.noColor}
	var payload interface{}
	if body != nil {
		payload = body
	}
	_, err = req.WithContext(ctx).Body(payload).Dispatch(p.route()).Wait()
	var unexpected *routex.UnexpectedResponseError
	if errors.As(err, &unexpected) {
		_ = unexpected.Response.Body.Close()
	}
	if err != nil {
		return err
	}
	if p.code != ExitOK {
		return &exitError{p.code}
	}
	return nil
}

func readData(data string) ([]byte, error) {
	switch {
	case data == "":
		return nil, nil
	case strings.HasPrefix(data, "@"):
		return os.ReadFile(data[1:])
	default:
		return []byte(data), nil
	}
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if n, _, ok := strings.Cut(h, ":"); ok && strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

func guessContentType(body []byte) string {
	if gjson.ValidBytes(body) {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
