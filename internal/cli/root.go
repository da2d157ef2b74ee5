package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the reach command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "reach",
		Short:   "A fluent terminal HTTP client",
		Version: version,
		Long: `Reach sends GET and POST requests with query parameters, form,
JSON and multipart bodies in any charset, and prints the response.
It can also build and encode URLs without sending anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Configuration file (YAML or JSON) with request defaults")
	flags.StringP("env", "e", "", "Environment from the configuration file")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.Bool("no-color", false, "Disable colored output")
	flags.DurationP("timeout", "t", 0, "Request timeout (default 30s)")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")

	root.AddCommand(newGetCmd())
	root.AddCommand(newPostCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newQueryCmd())
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}
