package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/assetnote/rawfetch/pkg/command"
	"github.com/assetnote/rawfetch/pkg/context"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post URL [DATA]",
	Short: "POST json data to a url and print the body",
	Long: `post sends DATA as an application/json body to URL on a fresh connection and
prints the body of the response. DATA is sent verbatim, it is not checked to be json.
If DATA is omitted you will be prompted for it.

usage:
rf post http://127.0.0.1:8080/api '{"name":"value"}'
rf post http://127.0.0.1:8080/api
`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var data string
		if len(args) == 2 {
			data = args[1]
		} else {
			prompt := promptui.Prompt{
				Label:  "Body",
				Stdout: os.Stderr,
				Validate: func(in string) error {
					if strings.TrimSpace(in) == "" {
						return errors.New("body cannot be empty")
					}
					return nil
				},
			}

			v, err := prompt.Run()
			if err != nil {
				log.Fatal().Err(err).Msg("no body provided")
			}
			data = v
		}

		printResult(command.PostData(context.Context(), args[0], data, httpConfig()))
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
}
