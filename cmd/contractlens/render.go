package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"contractlens/internal/domain"
	"contractlens/internal/layout"
	"contractlens/internal/loader"
	"contractlens/internal/loop"
	"contractlens/internal/render"
	"contractlens/internal/scene"
	"contractlens/internal/ui"
)

// layoutOptions controls an offline layout run
type layoutOptions struct {
	MaxFrames int
	Flow      bool
	Highlight string
}

// layoutPayload runs a scene on a virtual clock until the simulation stops or
// MaxFrames have elapsed, and returns the final frame
func layoutPayload(payload *domain.GraphPayload, opts scene.Options, lo layoutOptions) (*scene.Frame, error) {
	l := loop.New(loop.DefaultFrameInterval)
	st := scene.NewStage(l, opts, nil)
	s := st.Load(payload)
	defer st.Close()

	if err := st.SetFlowVisible(lo.Flow); err != nil {
		return nil, err
	}
	if lo.Highlight != "" {
		if err := st.SetHighlight(lo.Highlight); err != nil {
			return nil, err
		}
	}

	for frames := 0; frames < lo.MaxFrames && s.Simulation().State() != layout.Stopped; frames++ {
		l.AdvanceFrames(1)
	}

	return s.Snapshot(), nil
}

// readPayload decodes a payload file, or stdin when path is "-"
func readPayload(path, format string) (*domain.GraphPayload, error) {
	if path == "-" {
		return loader.Load(os.Stdin, format)
	}
	return loader.LoadFile(path, format)
}

func renderCmd() *cobra.Command {
	var (
		output string
		format string
		lo     layoutOptions
	)

	cmd := &cobra.Command{
		Use:   "render <payload-file|->",
		Short: "Lay out a dependency payload and write it as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			payload, err := readPayload(args[0], format)
			if err != nil {
				return err
			}

			frame, err := layoutPayload(payload, cfg.SceneOptions(), lo)
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}

			err = writeOutput(cmd, output, func(w io.Writer) error {
				if err := render.SVG(w, frame); err != nil {
					return fmt.Errorf("render: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			if toFile(output) {
				ui.Good.Fprintf(cmd.ErrOrStderr(), "  Wrote %s (%d nodes, %d links, %d ticks, %s)\n",
					output, len(frame.Nodes), len(frame.Links), frame.Ticks, frame.State)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Payload format: json or yaml (default from file extension)")
	cmd.Flags().IntVar(&lo.MaxFrames, "max-frames", 1000, "Stop the layout after this many frames")
	cmd.Flags().BoolVar(&lo.Flow, "flow", false, "Draw flow markers")
	cmd.Flags().StringVar(&lo.Highlight, "highlight", "", "Address to highlight")
	return cmd
}
