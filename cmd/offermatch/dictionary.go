package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var dictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Show the keyword dictionary",
	Long:  "Loads the configured dictionary and prints its version with skill, keyword and category counts.",
	RunE:  runDictionary,
}

func init() {
	rootCmd.AddCommand(dictionaryCmd)
}

func runDictionary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(cfg)
	if err != nil {
		return err
	}

	st := dict.Stats()
	source := cfg.Dictionary.Path
	if source == "" {
		source = "embedded"
	}
	fmt.Fprintf(os.Stdout, "Dictionary %s (%s)\n", st.Version, source)
	fmt.Fprintf(os.Stdout, "Skills: %d  Keywords: %d  Ambiguous: %d\n\n", st.Skills, st.Keywords, st.Ambiguous)

	categories := make([]string, 0, len(st.Categories))
	for c := range st.Categories {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Fprintf(os.Stdout, "%-20s %s\n", "Category", "Skills")
	fmt.Fprintln(os.Stdout, strings.Repeat("─", 27))
	for _, c := range categories {
		fmt.Fprintf(os.Stdout, "%-20s %d\n", c, st.Categories[c])
	}
	return nil
}
