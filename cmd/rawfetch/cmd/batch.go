package cmd

import (
	"time"

	"github.com/assetnote/rawfetch/internal/batch"
	"github.com/assetnote/rawfetch/pkg/context"
	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/spf13/cobra"
)

var (
	batchVars        = []string{}
	batchParallel    = batch.DefaultMaxParallel
	batchDelay       = 0 * time.Second
	batchProgress    = false
	batchIncludeBody = false
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "send every request listed in a file",
	Long: `batch reads one request per line from FILE and sends them concurrently,
each on its own connection. Lines look like

	METHOD URL [BODY]
	URL

a bare URL is a GET. Blank lines and lines starting with # are skipped.
{{name}} placeholders are filled from --var name=value.

The results are printed in the order of the file using the -o format.
The exit code is non-zero if any request failed.

usage:
rf batch requests.txt
rf batch requests.txt --var host=127.0.0.1:8080 -j 20 -o json --body
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := batch.FormatFromString(Output)
		if err != nil {
			log.Fatal().Err(err).Str("output", Output).Msg("invalid format")
		}

		vars, err := batch.ParseVars(batchVars)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid var")
		}

		err = batch.RunFile(context.Context(), args[0], vars,
			batch.MaxParallel(batchParallel),
			batch.Delay(batchDelay),
			batch.ShowProgress(batchProgress),
			batch.IncludeBody(batchIncludeBody),
			batch.OutputFormat(format),
			batch.HTTPConfig(*httpConfig()),
		)
		if err != nil {
			errors2.PrintError(err, 0)
			log.Fatal().Err(err).Msg("batch failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringSliceVar(&batchVars, "var", batchVars, "placeholder values as name=value. can be repeated")
	batchCmd.Flags().IntVarP(&batchParallel, "max-parallel", "j", batchParallel, "max number of requests in flight at once")
	batchCmd.Flags().DurationVar(&batchDelay, "delay", batchDelay, "delay to place inbetween starting requests")
	batchCmd.Flags().BoolVar(&batchProgress, "progress", batchProgress, "a progress bar on stderr while sending")
	batchCmd.Flags().BoolVar(&batchIncludeBody, "body", batchIncludeBody, "include response bodies in text and json output")
}
