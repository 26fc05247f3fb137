package cmd

import (
	"fmt"
	"os"

	"github.com/assetnote/rawfetch/pkg/command"
	"github.com/assetnote/rawfetch/pkg/log"
)

// printResult writes the body of a successful result to stdout, or the whole result as JSON
// with -o json. A failed result exits non-zero.
func printResult(res command.Result) {
	if Output == "json" {
		b, err := res.MarshalJSON()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to encode result")
		}
		fmt.Fprintln(os.Stdout, string(b))
		if !res.OK() {
			os.Exit(1)
		}
		return
	}

	if !res.OK() {
		log.Error().Msg(res.Error)
		os.Exit(1)
	}
	fmt.Fprint(os.Stdout, res.Body)
}
