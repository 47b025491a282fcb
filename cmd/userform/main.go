// cmd/userform/main.go
//
// Terminal front end for the user create/update form.
//
// Flow
// ----
//
//  1. Load config; a bad or missing api.base_url exits 2.
//
//  2. Start the daily rotating logger (console tee only when log.tee).
//
//  3. Build the controller in create mode, or update mode when -id is set,
//     and load the existing record.
//
//  4. Apply only the field flags given on the command line, so an update
//     touches just what the operator typed.
//
//  5. Submit.  Notices go to stdout, field errors to stderr.
//
// Exit codes: 0 success, 1 rejected (validation, server, or network),
// 2 configuration or start-up failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/yanizio/adept-userform/internal/config"
	"github.com/yanizio/adept-userform/internal/form"
	"github.com/yanizio/adept-userform/internal/logger"
	"github.com/yanizio/adept-userform/internal/message"
	"github.com/yanizio/adept-userform/internal/userapi"
	"github.com/yanizio/adept-userform/internal/userform"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitSetup    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("userform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "identifier of the user to update; empty creates a new user")
	fs.String(userapi.FieldUsername, "", "username")
	fs.String(userapi.FieldEmail, "", "email address")
	fs.String(userapi.FieldPassword, "", "password (create only)")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics to this textfile on exit")
	if err := fs.Parse(args); err != nil {
		return exitSetup
	}

	boot := logger.Console()

	cfg, err := config.Load()
	if err != nil {
		boot.Errorw("load config", "err", err)
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitSetup
	}

	log, err := logger.New(cfg.Paths.Root, cfg.Log.Tee)
	if err != nil {
		fmt.Fprintf(stderr, "start logger: %v\n", err)
		return exitSetup
	}
	defer func() { _ = log.Sync() }()

	fd, err := formDefinition(cfg)
	if err != nil {
		log.Errorw("form definition", "err", err)
		fmt.Fprintf(stderr, "form definition: %v\n", err)
		return exitSetup
	}

	api, err := userapi.New(userapi.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		fmt.Fprintf(stderr, "api client: %v\n", err)
		return exitSetup
	}

	policy := userform.SilentLoadErrors
	if cfg.Form.SurfaceLoadErrors {
		policy = userform.SurfaceLoadErrors
	}
	ctl, err := userform.New(userform.Update(*id), api,
		userform.WithForm(fd),
		userform.WithLoadPolicy(policy),
		userform.WithLogger(log),
		userform.WithNotifier(message.Multi{
			&message.WriterNotifier{W: stdout},
			message.LogNotifier{Log: log},
		}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "form: %v\n", err)
		return exitSetup
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	// Load failures are already logged, and surfaced when the policy says
	// so.  The form stays usable with an empty record either way.
	_ = ctl.Load(ctx)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case userapi.FieldUsername, userapi.FieldEmail, userapi.FieldPassword:
			// Per-field results are reported once, after Submit.
			ctl.Edit(f.Name, f.Value.String())
		}
	})

	out, err := ctl.Submit(ctx)
	writeMetrics(log, *metricsFile)
	if err != nil {
		fmt.Fprintf(stderr, "submit: %v\n", err)
		return exitRejected
	}

	var ve form.ValidationError
	if errors.As(out.Err(), &ve) {
		for _, f := range ve.Fields {
			fmt.Fprintf(stderr, "%s: %s\n", f.Name, f.Message)
		}
	}
	if !out.OK() {
		return exitRejected
	}
	return exitOK
}

// formDefinition returns the configured definition, resolved against the
// config root when relative, or the built-in user form.
func formDefinition(cfg *config.Config) (*form.FormDef, error) {
	path := cfg.Form.Definition
	if path == "" {
		return form.DefaultUserForm(), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Paths.Root, path)
	}
	return form.LoadFormDef(path)
}

func writeMetrics(log *zap.SugaredLogger, path string) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		log.Warnw("write metrics textfile", "file", path, "err", err)
	}
}
