package main

import (
	"fmt"
	"strings"

	"childguard/backend/internal/config"
	"childguard/backend/internal/laws"

	"github.com/spf13/cobra"
)

var lawsCmd = &cobra.Command{
	Use:   "laws [category]",
	Short: "Show the statutes that apply to a nature of abuse",
	Long: "Show the statutes that apply to a nature of abuse. Without a category,\n" +
		"every category is listed. Categories: " + strings.Join(config.AbuseCategories, ", "),
	Args: cobra.MaximumNArgs(1),
	RunE: runLaws,
}

var resourcesCmd = &cobra.Command{
	Use:   "resources [query]",
	Short: "Search the directory of child-protection laws",
	Args:  cobra.ArbitraryArgs,
	RunE:  runResources,
}

func runLaws(cmd *cobra.Command, args []string) error {
	table := laws.Default()
	categories := config.AbuseCategories
	if len(args) == 1 {
		categories = args[:1]
	}

	out := cmd.OutOrStdout()
	for _, category := range categories {
		fmt.Fprintln(out, sectionStyle.Render(category))
		fmt.Fprint(out, renderStatutes(table.Lookup(category)))
	}
	return nil
}

func runResources(cmd *cobra.Command, args []string) error {
	found := laws.Default().Resources(strings.Join(args, " "))
	if len(found) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching laws.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), renderResources(found))
	return nil
}
