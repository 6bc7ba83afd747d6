package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"palletchain/core"
	telemetry "palletchain/observability/otel"
	"palletchain/scenario"
)

//go:embed demo.yaml
var demoScenario []byte

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in transfer and claims walkthrough",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Parse(demoScenario)
			if err != nil {
				return err
			}
			return runScenario(cmd, opts, sc)
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the blocks described by a YAML scenario file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(path)
			if err != nil {
				return err
			}
			return runScenario(cmd, opts, sc)
		},
	}
	cmd.Flags().StringVar(&path, "scenario", "", "Path to the scenario YAML file")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func runScenario(cmd *cobra.Command, opts *rootOptions, sc *scenario.Scenario) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := openSession(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	report, err := execute(ctx, sess, sc)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report, opts.jsonOutput)
}

// execute applies the genesis and every block of sc in order. A block-level
// rejection aborts the run; failed extrinsics are part of the report.
func execute(ctx context.Context, sess *session, sc *scenario.Scenario) (*runReport, error) {
	rt := sess.runtime
	if err := rt.InitGenesis(sc.Genesis); err != nil {
		return nil, err
	}
	report := newRunReport(sess.runID, sc)
	for i, xts := range sc.Blocks {
		receipt, err := executeBlock(ctx, rt, xts)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		report.addBlock(receipt)
	}
	if err := report.snapshot(rt); err != nil {
		return nil, err
	}
	return report, nil
}

func executeBlock(ctx context.Context, rt *core.Runtime, xts []core.Extrinsic) (*core.Receipt, error) {
	block, err := rt.NextBlock(xts...)
	if err != nil {
		return nil, err
	}
	_, span := telemetry.Tracer().Start(ctx, "runtime.ExecuteBlock")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("block.number", int64(block.Header.Number)),
		attribute.Int("block.extrinsics", len(xts)),
	)

	receipt, err := rt.ExecuteBlock(block)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("block.failed", receipt.Failed()))
	return receipt, nil
}
