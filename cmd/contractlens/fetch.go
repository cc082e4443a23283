package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"contractlens/internal/analysis"
	"contractlens/internal/codec"
	"contractlens/internal/domain"
	"contractlens/internal/metrics"
	"contractlens/internal/ui"
)

// blockRange holds optional --from/--to flags
type blockRange struct {
	from, to int64
}

func (b *blockRange) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&b.from, "from", -1, "First block of the analysis window")
	cmd.Flags().Int64Var(&b.to, "to", -1, "Last block of the analysis window")
}

func (b *blockRange) request(address string) analysis.Request {
	req := analysis.Request{Address: address}
	if b.from >= 0 {
		from := b.from
		req.FromBlock = &from
	}
	if b.to >= 0 {
		to := b.to
		req.ToBlock = &to
	}
	return req
}

// fetchPayload calls the analysis API configured by --config
func fetchPayload(ctx context.Context, req analysis.Request) (*domain.GraphPayload, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client := analysis.NewClient(cfg.AnalysisClient(), metrics.NewRegistry())
	return client.Dependencies(ctx, req)
}

func fetchCmd() *cobra.Command {
	var (
		output string
		format string
		blocks blockRange
	)

	cmd := &cobra.Command{
		Use:   "fetch <address>",
		Short: "Download the dependency payload of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := codec.Codec(codec.NewJSONCodec())
			if toFile(output) {
				c = codec.ForPath(output)
			}
			if format != "" {
				var err error
				if c, err = codec.ForFormat(format); err != nil {
					return err
				}
			}

			payload, err := fetchPayload(cmd.Context(), blocks.request(args[0]))
			if err != nil {
				return err
			}

			err = writeOutput(cmd, output, func(w io.Writer) error {
				if err := c.Export(payload, w); err != nil {
					return fmt.Errorf("write payload: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			if toFile(output) {
				ui.Good.Fprintf(cmd.ErrOrStderr(), "  Wrote %s (%d edges)\n", output, len(payload.Edges))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: json or yaml (default from file extension)")
	blocks.register(cmd)
	return cmd
}
