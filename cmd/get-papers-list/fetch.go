// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/fetch"
	"github.com/pdiddy/get-papers-list/internal/logging"
	"github.com/pdiddy/get-papers-list/internal/output"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/internal/secrets"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

var errNoQuery = errors.New("a PubMed query is required")

// runFetch is the root command: search, filter, and render.
func runFetch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errNoQuery
	}

	format, err := output.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}
	classifier, err := loadClassifier(viper.GetString("lexicon"))
	if err != nil {
		return err
	}

	cfg := fetchConfig()
	log.Debug("fetch configuration",
		logging.Bool("api_key", cfg.APIKey != ""),
		logging.Bool("email", cfg.Email != ""),
		logging.Duration("timeout", cfg.Timeout))
	client := pubmed.NewClient(nil, cfg, log)
	engine := fetch.NewEngine(client, classifier, cfg, log)

	res, err := engine.Fetch(cmd.Context(), query, clampMax(viper.GetInt("max_results")))
	if err != nil {
		return fmt.Errorf("fetching papers: %w", err)
	}
	if res.FailedBatches > 0 {
		log.Warn("some batches could not be retrieved",
			logging.Int("failed", res.FailedBatches), logging.Int("batches", res.Batches))
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if err := output.WriteCSVFile(path, res.Papers); err != nil {
			return err
		}
		log.Info("results saved", logging.String("file", path), logging.Int("papers", len(res.Papers)))
		return nil
	}
	return output.Write(cmd.OutOrStdout(), format, res.Papers)
}

// fetchConfig assembles the engine configuration. The API key and e-mail
// come from the flag, then config or environment, then .secrets/.
func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: "get-papers-list/" + version,
		},
		BaseURL: viper.GetString("base_url"),
		APIKey:  secretDefault(secrets.APIKey, viper.GetString("api_key")),
		Email:   secretDefault(secrets.Email, viper.GetString("email")),
		Tool:    types.DefaultTool,
	}
}

// clampMax maps the --max value to a result cap: 0 selects the default and
// negative values become 1.
func clampMax(n int) int {
	switch {
	case n == 0:
		return types.DefaultMaxResults
	case n < 0:
		return 1
	default:
		return n
	}
}
