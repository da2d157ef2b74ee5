package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/reach/http"
)

func newGetCmd() *cobra.Command {
	flags := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Make a GET request to the specified URL",
		Example: `  reach get https://api.example.com/users -p page=2 -p tag=a -p tag=b
  reach get https://api.example.com/users/1 --extract '$.name'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, http.MethodGet, args[0], flags)
		},
	}
	addRequestFlags(cmd, flags, false)
	return cmd
}
