// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify affiliation...",
	Short: "Classify affiliation strings as commercial or academic",
	Long: `Classify runs the affiliation classifier on each argument and prints the
verdict with the lexicon terms that matched. An academic term always wins
over a commercial signal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClassifier(viper.GetString("lexicon"))
		if err != nil {
			return err
		}
		return writeVerdicts(cmd.OutOrStdout(), c, args)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func writeVerdicts(w io.Writer, c *classify.Classifier, affiliations []string) error {
	for _, aff := range affiliations {
		v := c.Explain(aff)
		label := "academic"
		if v.Commercial {
			label = "commercial"
		}
		if _, err := fmt.Fprintf(w, "%-10s  %s\n", label, aff); err != nil {
			return err
		}
		var why []string
		if len(v.AcademicTerms) > 0 {
			why = append(why, "academic: "+strings.Join(v.AcademicTerms, ", "))
		}
		if len(v.CommercialTerms) > 0 {
			why = append(why, "commercial: "+strings.Join(v.CommercialTerms, ", "))
		}
		if v.Suffix != "" {
			why = append(why, "suffix: "+v.Suffix)
		}
		for _, line := range why {
			if _, err := fmt.Fprintf(w, "%-10s    %s\n", "", line); err != nil {
				return err
			}
		}
	}
	return nil
}
