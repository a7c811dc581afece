package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/offermatch/internal/store"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Canonical skill repository subcommands",
}

var skillsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the repository from the dictionary",
	Long:  "Upserts every skill of the configured dictionary into the configured repository. Safe to run repeatedly.",
	RunE:  runSkillsSeed,
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the repository's skills",
	RunE:  runSkillsList,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsSeedCmd)
	skillsCmd.AddCommand(skillsListCmd)
}

func runSkillsSeed(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(cfg)
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

	n, err := store.Seed(ctx, st, dict.Descriptors())
	if err != nil {
		return err
	}
	logger.Info("repository seeded", "skills", n, "dictionary", dict.Version(), "driver", cfg.Repository.Driver)
	return nil
}

func runSkillsList(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
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

	records, err := st.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-6s %-20s %-25s %s\n", "ID", "Slug", "Name", "Category")
	fmt.Fprintln(os.Stdout, strings.Repeat("─", 66))
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "%-6d %-20s %-25s %s\n", r.ID, r.Slug, r.Name, r.Category)
	}
	fmt.Fprintf(os.Stdout, "\nTotal: %d skills\n", len(records))
	return nil
}
