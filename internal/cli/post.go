package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/reach/http"
)

func newPostCmd() *cobra.Command {
	flags := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Make a POST request to the specified URL",
		Example: `  reach post https://example.com/login -f user=alice -f 'pass=open sesame'
  reach post https://example.com/users --json '{"name":"John"}'
  reach post https://example.com/upload -F title=holiday -F photo=@beach.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, http.MethodPost, args[0], flags)
		},
	}
	addRequestFlags(cmd, flags, true)
	return cmd
}
