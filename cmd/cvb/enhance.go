package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder-cli/internal/builder"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Request AI rewrites for a section item's bullets",
	Long:  "Fetches enhancement suggestions for one section item. With --accept-all, every suggestion is merged into the draft and the section is saved; otherwise suggestions are printed for review.",
	RunE:  runEnhance,
}

var enhanceSummaryCmd = &cobra.Command{
	Use:   "enhance-summary",
	Short: "Request an AI rewrite of the summary",
	RunE:  runEnhanceSummary,
}

var (
	enhanceSection   string
	enhanceItem      string
	enhanceContext   string
	enhanceAcceptAll bool
)

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceSection, "section", "s", "experience", "Section: experience, education, or projects")
	enhanceCmd.Flags().StringVarP(&enhanceItem, "item", "i", "", "Section item id")
	enhanceCmd.Flags().StringVar(&enhanceContext, "context", "", "Extra context for the rewrite (e.g. a target role)")
	enhanceCmd.Flags().BoolVar(&enhanceAcceptAll, "accept-all", false, "Accept every suggestion and save the section")

	enhanceSummaryCmd.Flags().StringVar(&enhanceContext, "context", "", "Extra context for the rewrite")
	enhanceSummaryCmd.Flags().BoolVar(&enhanceAcceptAll, "accept", false, "Accept the suggestion and save the summary")

	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(enhanceSummaryCmd)
}

func runEnhance(_ *cobra.Command, _ []string) error {
	if enhanceItem == "" {
		return fmt.Errorf("--item is required")
	}
	section := builder.Section(enhanceSection)
	switch section {
	case builder.SectionExperience, builder.SectionEducation, builder.SectionProjects:
	default:
		return fmt.Errorf("unknown section %q", enhanceSection)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.loadCurrent(ctx); err != nil {
		return err
	}

	bullets, err := a.store.Bullets(section, enhanceItem)
	if err != nil {
		return err
	}
	suggestions, err := a.engine.EnhanceBullets(ctx, section, enhanceItem, bullets, enhanceContext)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Println("No suggestions returned; the bullets may already be in good shape.")
		return nil
	}

	a.printer.PrintSuggestions(enhanceItem, suggestions)

	if !enhanceAcceptAll {
		fmt.Println("Re-run with --accept-all to merge the suggestions.")
		return nil
	}

	for _, s := range suggestions {
		if err := a.engine.Accept(section, enhanceItem, s.Original, s.Enhanced); err != nil {
			return err
		}
	}
	if err := a.store.SaveSection(ctx, section); err != nil {
		return err
	}
	fmt.Printf("Accepted %d suggestions and saved %s\n", len(suggestions), section)
	return nil
}

func runEnhanceSummary(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.loadCurrent(ctx); err != nil {
		return err
	}

	suggestion, err := a.engine.EnhanceSummary(ctx, enhanceContext)
	if err != nil {
		return err
	}
	fmt.Printf("- %s\n+ %s\n", suggestion.Original, suggestion.Enhanced)
	if suggestion.Explanation != "" {
		fmt.Printf("  (%s)\n", suggestion.Explanation)
	}

	if !enhanceAcceptAll {
		fmt.Println("Re-run with --accept to apply.")
		return nil
	}
	if err := a.engine.AcceptSummary(); err != nil {
		return err
	}
	if err := a.store.SaveSection(ctx, builder.SectionSummary); err != nil {
		return err
	}
	fmt.Println("Summary updated and saved")
	return nil
}
