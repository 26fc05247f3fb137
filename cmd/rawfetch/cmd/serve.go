package cmd

import (
	"github.com/assetnote/rawfetch/internal/bridge"
	"github.com/assetnote/rawfetch/pkg/context"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/spf13/cobra"
)

var (
	serveAddr = bridge.DefaultAddr
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the commands over loopback http",
	Long: `serve starts the bridge server so another process can run fetch_data and
post_data without linking rf. Each invocation is a POST of the json arguments.
Ctrl-C aborts in-flight invocations and shuts the server down.

usage:
rf serve --addr 127.0.0.1:7878
curl -d '{"url":"http://127.0.0.1:8080/"}' http://127.0.0.1:7878/invoke/fetch_data
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := bridge.ListenAndServe(context.Context(), serveAddr, httpConfig()); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", serveAddr, "address to listen on")
}
