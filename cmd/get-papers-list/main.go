// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers-list CLI. The root
// command searches PubMed and lists papers with at least one author
// affiliated with a pharmaceutical or biotech company.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/logging"
	"github.com/pdiddy/get-papers-list/internal/secrets"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Set by PersistentPreRunE.
var (
	loadedSecrets secrets.Secrets
	log           logging.Logger = logging.NewNop()
)

// secretDefault returns value when it is set, otherwise the secret stored
// under key, otherwise "".
func secretDefault(key, value string) string {
	if value != "" {
		return value
	}
	if v, ok := loadedSecrets.Get(key); ok {
		return v
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "get-papers-list [query...]",
	Short: "List PubMed papers with pharmaceutical or biotech company authors",
	Long: `get-papers-list searches PubMed with the full PubMed query syntax and keeps
papers where at least one author lists a non-academic, company affiliation.

Results print to the console as a table (or JSON / CSL-YAML with --format),
or are written as CSV with --file. Records are examined in PubMed relevance
order until --max papers are collected or the candidates run out.`,
	Example: `  get-papers-list "mRNA vaccine" -m 10
  get-papers-list 'cancer AND immunotherapy[MeSH]' -f results.csv
  get-papers-list classify "Pfizer Inc., New York, NY"`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runFetch,
	PersistentPostRun: func(*cobra.Command, []string) { _ = log.Sync() },
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./get-papers-list.yaml or ~/.config/get-papers-list/get-papers-list.yaml)")
	pf.BoolP("debug", "d", false, "print debug information during execution")
	pf.String("lexicon", "", "YAML file overriding the affiliation lexicon")

	f := rootCmd.Flags()
	f.StringP("file", "f", "", "write results as CSV to this file instead of the console")
	f.IntP("max", "m", types.DefaultMaxResults, "maximum number of papers to return")
	f.StringP("api-key", "k", "", "NCBI API key (raises the rate limit to 10 requests/s)")
	f.String("email", "", "contact e-mail sent to NCBI with each request")
	f.String("format", "table", "console output format: table, json or csl")
	f.Duration("timeout", 30*time.Second, "HTTP request timeout")

	// Flags win over config and environment when set explicitly.
	_ = viper.BindPFlag("lexicon", pf.Lookup("lexicon"))
	for key, name := range map[string]string{
		"max_results": "max",
		"api_key":     "api-key",
		"email":       "email",
		"format":      "format",
		"timeout":     "timeout",
	} {
		_ = viper.BindPFlag(key, f.Lookup(name))
	}

	viper.SetDefault("base_url", "")
	viper.SetDefault("log_format", "console")
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("get-papers-list")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "get-papers-list"))
		}
	}

	viper.SetEnvPrefix("GET_PAPERS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup builds the logger and loads secrets ahead of every command.
func setup(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	level := "info"
	if debug {
		level = "debug"
	}
	l, err := logging.New(types.LogConfig{Level: level, Format: viper.GetString("log_format")})
	if err != nil {
		return err
	}
	log = l

	s, err := secrets.Load(secrets.DefaultDir, log)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Debug("loaded secrets", logging.Strings("keys", keys))
	}
	return nil
}

// loadClassifier compiles the default lexicon, or the file at path.
func loadClassifier(path string) (*classify.Classifier, error) {
	lex, err := loadLexicon(path)
	if err != nil {
		return nil, err
	}
	return classify.New(lex)
}

func loadLexicon(path string) (classify.Lexicon, error) {
	if path == "" {
		return classify.DefaultLexicon(), nil
	}
	return classify.LoadLexicon(path)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
