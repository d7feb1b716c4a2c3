package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// output writes command results in the format chosen by --format.
type output struct {
	format string
	w      io.Writer
}

func newOutput(opts *RootOptions, cmd *cobra.Command) *output {
	return &output{format: opts.Format, w: cmd.OutOrStdout()}
}

func (o *output) isJSON() bool {
	return o.format == "json"
}

func (o *output) writeJSON(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// result writes v as JSON, or the formatted text line otherwise.
func (o *output) result(v any, format string, args ...any) error {
	if o.isJSON() {
		return o.writeJSON(v)
	}
	_, err := fmt.Fprintf(o.w, format, args...)
	return err
}
