package cmd

import (
	"fmt"
	"os"

	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// These global variables can be configured with the corresponding lowercase flag
var (
	Verbose string // Verbose defines the logging level, either trace, debug, info, error, fatal
	Output  string // Output defines the output format, either pretty, text, json

	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rf",
	Short: "rf sends a single raw HTTP/1.1 request and prints the body",
	Long: `rf writes GET and POST requests directly onto a TCP connection and prints
the body of a 200 response. Anything else is reported as an error naming the stage
that failed: url validation, parsing, connecting, writing, reading or the status.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rawfetch.yaml)")

	rootCmd.PersistentFlags().StringVarP(&Verbose, "verbose", "v", "info", "level of logging verbosity. can be error,info,debug,trace")
	rootCmd.PersistentFlags().StringVarP(&Output, "output", "o", "pretty", "output format. can be json,text,pretty")

	rootCmd.PersistentFlags().Duration("timeout", http.DefaultTimeout, "deadline for the whole exchange. 0 disables it")
	rootCmd.PersistentFlags().Int("max-response-bytes", http.DefaultMaxResponseBytes, "largest response accepted, headers included. 0 disables the cap")
	rootCmd.PersistentFlags().Bool("legacy-post-scheme", false, "do not require http:// on POST urls")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("max_response_bytes", rootCmd.PersistentFlags().Lookup("max-response-bytes"))
	viper.BindPFlag("legacy_post_scheme", rootCmd.PersistentFlags().Lookup("legacy-post-scheme"))
}

func initLogging() {
	// logs go to stderr, stdout is reserved for response bodies
	log.SetOutput(os.Stderr)
	log.SetFormat(viper.GetString("output"))

	level := viper.GetString("verbose")
	if level != "" {
		if err := log.SetLevelString(level); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize logging")
		}
	}
	log.Debug().Str("level", level).Str("format", viper.GetString("output")).Msg("custom log settings")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".rawfetch" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".rawfetch")
	}

	viper.SetEnvPrefix("rawfetch")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpConfig builds the request config from flags, env and the config file
func httpConfig() *http.Config {
	config := http.NewConfig(
		http.Timeout(viper.GetDuration("timeout")),
		http.MaxResponseBytes(viper.GetInt("max_response_bytes")),
		http.LegacyPostScheme(viper.GetBool("legacy_post_scheme")),
	)
	log.Trace().Msg(spew.Sdump(config))
	return config
}
