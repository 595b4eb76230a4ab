package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available CV templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	templates, err := a.catalog.Templates(context.Background())
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println("No templates available.")
		return nil
	}
	a.printer.PrintTemplates(templates)
	return nil
}
