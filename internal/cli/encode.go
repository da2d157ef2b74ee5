package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/reach/http"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode URL...",
		Short: "Percent-encode URLs without sending anything",
		Example: `  reach encode 'http://bücher.example/my docs?name=a b'
  # http://xn--bcher-kva.example/my%20docs?name=a%20b`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, rawURL := range args {
				encoded, err := http.EncodeURL(rawURL)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), encoded)
			}
			return nil
		},
	}
}
