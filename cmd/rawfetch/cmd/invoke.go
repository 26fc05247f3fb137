package cmd

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/assetnote/rawfetch/pkg/command"
	"github.com/assetnote/rawfetch/pkg/context"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/spf13/cobra"
)

// invokeCmd represents the invoke command
var invokeCmd = &cobra.Command{
	Use:   "invoke COMMAND [ARGS|-]",
	Short: "run a named command with json arguments and print the json result",
	Long: `invoke runs COMMAND the same way the bridge server does. ARGS is the json
object of arguments. Use - or omit it to read the arguments from stdin.
The result is always printed as json.

commands: ` + strings.Join(command.Names(), ", ") + `

usage:
rf invoke fetch_data '{"url":"http://127.0.0.1:8080/"}'
echo '{"url":"http://127.0.0.1:8080/api","data":"{}"}' | rf invoke post_data
`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var payload []byte
		if len(args) == 2 && args[1] != "-" {
			payload = []byte(args[1])
		} else {
			b, err := ioutil.ReadAll(os.Stdin)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to read arguments from stdin")
			}
			payload = b
		}

		res := command.Invoke(context.Context(), args[0], payload, httpConfig())
		b, err := res.MarshalJSON()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to encode result")
		}
		os.Stdout.Write(append(b, '\n'))
		if !res.OK() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
}
