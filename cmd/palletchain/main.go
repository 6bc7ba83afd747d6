package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"palletchain/config"
	"palletchain/core"
	"palletchain/observability/logging"
	telemetry "palletchain/observability/otel"
	"palletchain/storage"
)

const serviceName = "palletchain"

type rootOptions struct {
	configPath string
	jsonOutput bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Execute blocks against an in-memory pallet runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print the execution report as JSON")
	cmd.AddCommand(newDemoCmd(opts), newRunCmd(opts))
	return cmd
}

// session owns everything a single harness invocation needs.
type session struct {
	runID    string
	runtime  *core.Runtime
	logger   *slog.Logger
	logs     io.Closer
	shutdown telemetry.ShutdownFunc
}

func openSession(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	base, logCloser, err := logging.Setup(logging.Options{
		Service: serviceName,
		Env:     cfg.Telemetry.Environment,
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		File:    cfg.Logging.File,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := base.With("run", runID)

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: serviceName,
		Environment: cfg.Telemetry.Environment,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     telemetry.ParseHeaders(cfg.Telemetry.Headers),
		Traces:      cfg.Telemetry.Traces,
		Metrics:     cfg.Telemetry.Metrics,
	})
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	db, err := storage.Open(cfg.Runtime.Backend)
	if err != nil {
		shutdown(ctx)
		logCloser.Close()
		return nil, err
	}
	rt := core.New(
		core.WithDatabase(db),
		core.WithLogger(logger),
		core.WithMaxClaimLength(cfg.Runtime.MaxClaimLength),
	)
	logger.Info("runtime ready", "backend", strings.ToLower(cfg.Runtime.Backend))

	return &session{
		runID:    runID,
		runtime:  rt,
		logger:   logger,
		logs:     logCloser,
		shutdown: shutdown,
	}, nil
}

func (s *session) Close(ctx context.Context) {
	s.runtime.Close()
	if err := s.shutdown(ctx); err != nil {
		s.logger.Warn("telemetry shutdown failed", "err", err)
	}
	s.logs.Close()
}

func writeReport(w io.Writer, report *runReport, asJSON bool) error {
	if asJSON {
		return report.writeJSON(w)
	}
	return report.writeText(w)
}
