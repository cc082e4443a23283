package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// toFile reports whether output names a file rather than stdout
func toFile(output string) bool {
	return output != "" && output != "-"
}

// writeOutput runs write against the output file, or stdout for "" and "-".
// A failed close is reported, since it can mean the data never reached disk.
func writeOutput(cmd *cobra.Command, output string, write func(io.Writer) error) (err error) {
	if !toFile(output) {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer closeOutput(f, &err)

	return write(f)
}

// closeOutput closes c and keeps the first error in err
func closeOutput(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close output: %w", cerr)
	}
}
