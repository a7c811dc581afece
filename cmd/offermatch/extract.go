package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/offermatch/internal/extract"
	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/report"
	"github.com/amishk599/offermatch/internal/resolver"
)

var (
	offerTitle      string
	descriptionFile string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract skills from an offer",
	Long:  "Reads an offer title and description and prints the parsed skills as JSON. Use --description-file - for stdin.",
	RunE:  runExtract,
}

var contextCmd = &cobra.Command{
	Use:   "context KEYWORD TEXT...",
	Short: "Explain the disambiguation of a keyword",
	Long:  "Prints whether KEYWORD is read as a technical skill in TEXT, with the positive and negative indicators found.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runContext,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Extract and resolve skills against the repository",
	Long:  "Extracts skills from an offer and joins them to the configured skill repository. Prints resolved skills and lookup stats.",
	RunE:  runResolve,
}

func init() {
	for _, c := range []*cobra.Command{extractCmd, resolveCmd} {
		c.Flags().StringVarP(&offerTitle, "title", "t", "", "offer title")
		c.Flags().StringVarP(&descriptionFile, "description-file", "f", "", "file holding the offer description (- for stdin)")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(contextCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(cfg)
	if err != nil {
		return err
	}
	description, err := readText(descriptionFile)
	if err != nil {
		return err
	}

	parsed := extract.New(dict).ParseSkillsFromDescription(description, offerTitle)
	return report.WriteJSON(os.Stdout, parsed)
}

func runContext(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(cfg)
	if err != nil {
		return err
	}

	evidence := dict.Disambiguator().Explain(args[0], strings.Join(args[1:], " "))
	return report.WriteJSON(os.Stdout, evidence)
}

type resolveOutput struct {
	Parsed   []model.ParsedSkill   `json:"parsed"`
	Resolved []model.ResolvedSkill `json:"resolved"`
	Stats    resolver.Stats        `json:"stats"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(cfg)
	if err != nil {
		return err
	}
	description, err := readText(descriptionFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := ensureSeeded(ctx, st, dict, logger); err != nil {
		return err
	}

	res := resolver.New(lookupRepository(st, cfg, logger), cfg.Resolver.Concurrency, cfg.Resolver.LookupTimeout, logger)
	parsed := extract.New(dict).ParseSkillsFromDescription(description, offerTitle)
	resolved, stats := res.MatchSkillsToDatabase(ctx, parsed)

	return report.WriteJSON(os.Stdout, resolveOutput{Parsed: parsed, Resolved: resolved, Stats: stats})
}
