package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"contractlens/internal/domain"
	"contractlens/internal/ui"
)

// printInteractions writes the summary and interaction table of a payload
func printInteractions(w io.Writer, payload *domain.GraphPayload, filter domain.InteractionFilter, sortField string, direction domain.SortDirection) {
	summary := domain.Summarize(payload)

	ui.Banner(w, "interactions of "+payload.Address)
	ui.KeyValue(w, "Direct dependencies", summary.DirectDependencies)
	ui.KeyValue(w, "Total interactions", summary.TotalInteractions)
	ui.KeyValue(w, "Activity", summary.Activity)
	ui.KeyValue(w, "Top 10 share", fmt.Sprintf("%.1f%%", summary.Top10Ratio*100))
	fmt.Fprintln(w)

	rows := domain.InteractionRows(payload)
	rows = domain.FilterInteractions(rows, filter)
	rows = domain.SortInteractions(rows, sortField, direction)
	if len(rows) == 0 {
		ui.Subtle.Fprintln(w, "  No interactions")
		return
	}

	callTypes := domain.CallTypes(payload)
	headers := append([]string{"KIND", "SOURCE", "TARGET"}, callTypes...)
	headers = append(headers, "TOTAL")

	cells := make([][]ui.Cell, 0, len(rows))
	for _, row := range rows {
		kind := ui.Cell{Text: string(row.Kind), Color: ui.Good}
		if row.Kind == domain.InteractionIndirect {
			kind.Color = ui.Warn
		}

		line := []ui.Cell{kind, ui.Plain(displayName(row.Source, row.SourceName)), ui.Plain(displayName(row.Target, row.TargetName))}
		for _, name := range callTypes {
			line = append(line, ui.Plain(strconv.Itoa(row.Types[name])))
		}
		line = append(line, ui.Cell{Text: strconv.Itoa(row.Total), Color: ui.Info})
		cells = append(cells, line)
	}

	ui.Table(w, headers, cells)
}

func displayName(address, name string) string {
	if name == "" {
		return domain.ShortAddress(address)
	}
	return name
}

func interactionsCmd() *cobra.Command {
	var (
		file   string
		format string
		all    bool
		query  string
		sort   string
		desc   bool
		blocks blockRange
	)

	cmd := &cobra.Command{
		Use:   "interactions [address]",
		Short: "Print the interaction table of a contract",
		Long:  "Print the interaction table of a contract, fetched from the analysis API or read from --file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload *domain.GraphPayload
				err     error
			)
			switch {
			case file != "":
				payload, err = readPayload(file, format)
			case len(args) == 1:
				payload, err = fetchPayload(cmd.Context(), blocks.request(args[0]))
			default:
				return fmt.Errorf("an address or --file is required")
			}
			if err != nil {
				return err
			}

			direction := domain.SortAsc
			if desc {
				direction = domain.SortDesc
			}
			printInteractions(cmd.OutOrStdout(), payload, domain.InteractionFilter{
				IncludeIndirect: all,
				Query:           query,
			}, sort, direction)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the payload from a file instead of the API")
	cmd.Flags().StringVar(&format, "format", "", "Payload format for --file: json or yaml")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include indirect interactions")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only rows whose source or target contains this text")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort by address, type or an interaction type name")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	blocks.register(cmd)
	return cmd
}
