// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Print the effective affiliation lexicon as YAML",
	Long: `Lexicon prints the term lists the classifier uses. The output is a valid
--lexicon file: edit it and pass it back to override the defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lex, err := loadLexicon(viper.GetString("lexicon"))
		if err != nil {
			return err
		}
		data, err := lex.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(lexiconCmd)
}
