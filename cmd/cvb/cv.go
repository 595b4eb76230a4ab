package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder-cli/internal/api"
)

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Manage CV documents",
}

var cvListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your CV documents",
	RunE:  runCVList,
}

var cvCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new CV document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVCreate,
}

var cvShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current CV",
	RunE:  runCVShow,
}

var cvDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a CV document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVDelete,
}

var cvSetPrimaryCmd = &cobra.Command{
	Use:   "set-primary <id>",
	Short: "Make a CV document the primary one",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVSetPrimary,
}

var (
	cvCreateFromParsed bool
	cvCreateTemplate   string
)

func init() {
	cvCreateCmd.Flags().BoolVar(&cvCreateFromParsed, "from-parsed", false, "Seed the new CV from your parsed profile")
	cvCreateCmd.Flags().StringVarP(&cvCreateTemplate, "template", "t", "", "Template id for the new CV")

	cvCmd.AddCommand(cvListCmd, cvCreateCmd, cvShowCmd, cvDeleteCmd, cvSetPrimaryCmd)
	rootCmd.AddCommand(cvCmd)
}

func runCVList(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.store.Refresh(context.Background()); err != nil {
		return err
	}
	docs := a.store.CVList()
	if len(docs) == 0 {
		fmt.Println("No CVs yet. Create one with 'cvb cv create <name>'.")
		return nil
	}
	for _, doc := range docs {
		marker := " "
		if doc.IsPrimary {
			marker = "*"
		}
		score := "-"
		if doc.LatestScore != nil {
			score = fmt.Sprintf("%d", doc.LatestScore.OverallScore)
		}
		fmt.Printf("%s %-36s %-24s score %s\n", marker, doc.ID, doc.Name, score)
	}
	return nil
}

func runCVCreate(_ *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	doc, err := a.store.CreateCV(ctx, api.CreateCVRequest{
		Name:             args[0],
		FromParsedCV:     cvCreateFromParsed,
		SelectedTemplate: cvCreateTemplate,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (%s)\n", doc.Name, doc.ID)
	return nil
}

func runCVShow(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.loadCurrent(context.Background()); err != nil {
		return err
	}
	cur := a.store.Current()
	a.printer.PrintCV(cur)
	if a.cfg.Verbose {
		for _, item := range cur.Experience {
			fmt.Printf("\n%s — %s [%s]\n", item.Role, item.Company, item.ID)
			for i, b := range item.Bullets {
				fmt.Printf("  %d. %s\n", i, b)
			}
		}
	}
	return nil
}

func runCVDelete(_ *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	if err := a.store.DeleteCV(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runCVSetPrimary(_ *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	if err := a.store.SetPrimaryCV(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Primary CV is now %s\n", args[0])
	return nil
}
