package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds a `version` subcommand and the --version flag to root.
func AttachCobraVersionCommand(root *cobra.Command) {
	root.Version = Short()
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print the zone-alarm version together with the commit hash, build timestamp and Go runtime the binary was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}
