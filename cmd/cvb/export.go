package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current CV as a PDF",
	RunE:  runExport,
}

var (
	exportTemplate string
	exportDir      string
)

func init() {
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template id (defaults to the CV's selected template)")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "Directory to write the PDF into")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.loadCurrent(ctx); err != nil {
		return err
	}

	templateID := exportTemplate
	if templateID == "" {
		templateID = a.store.Current().TemplateID
	}
	if templateID == "" {
		return fmt.Errorf("no template selected: pass --template or set one on the CV (see 'cvb templates')")
	}

	path, err := a.exporter.ExportCV(ctx, templateID, exportDir)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
