package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ericlevine/dmscan/internal/config"
)

// writeResults prints results in format. In text format only decoded
// symbols go to out; failures are reported on errOut.
func writeResults(out, errOut io.Writer, format string, results []scanResult) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(results)
	case config.FormatText:
		for _, r := range results {
			switch {
			case r.ok() && len(results) > 1:
				fmt.Fprintf(out, "%s: %s\n", r.File, r.Text)
			case r.ok():
				fmt.Fprintln(out, r.Text)
			case r.Error != "":
				fmt.Fprintf(errOut, "%s: %s: %s\n", r.File, r.Status, r.Error)
			default:
				fmt.Fprintf(errOut, "%s: no symbol found\n", r.File)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
