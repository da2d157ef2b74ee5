package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/reach/http"
)

func newQueryCmd() *cobra.Command {
	var encode bool
	cmd := &cobra.Command{
		Use:   "query URL [key=value...]",
		Short: "Append query parameters to a URL and print it",
		Example: `  reach query http://host/search q=go tag=a tag=b
  # http://host/search?q=go&tag[]=a&tag[]=b`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			result, err := http.AppendQuery(args[0], params)
			if err != nil {
				return err
			}
			if encode {
				if result, err = http.EncodeURL(result); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&encode, "encode", false, "Percent-encode the resulting URL")
	return cmd
}
