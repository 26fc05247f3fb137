package cmd

import (
	"github.com/assetnote/rawfetch/pkg/command"
	"github.com/assetnote/rawfetch/pkg/context"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "GET a url and print the body",
	Long: `get sends a GET request for URL on a fresh connection and prints the
body of the response. Only http:// urls are accepted and only a 200 is a success.

usage:
rf get http://127.0.0.1:8080/status
rf get http://example.com -o json
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResult(command.FetchData(context.Context(), args[0], httpConfig()))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
