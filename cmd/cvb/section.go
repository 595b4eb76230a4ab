package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder-cli/internal/builder"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Edit CV section drafts",
	Long:  "Edits apply to an in-memory draft and are persisted with a partial save of just that section. Every editing subcommand saves before exiting unless --no-save is given.",
}

var addBulletCmd = &cobra.Command{
	Use:   "add-bullet <text>",
	Short: "Append a bullet to a section item",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddBullet,
}

var editBulletCmd = &cobra.Command{
	Use:   "edit-bullet <index> <text>",
	Short: "Replace the bullet at an index",
	Args:  cobra.ExactArgs(2),
	RunE:  runEditBullet,
}

var rmBulletCmd = &cobra.Command{
	Use:   "rm-bullet <index>",
	Short: "Remove the bullet at an index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRmBullet,
}

var moveBulletCmd = &cobra.Command{
	Use:   "move-bullet <from> <to>",
	Short: "Reorder a bullet",
	Args:  cobra.ExactArgs(2),
	RunE:  runMoveBullet,
}

var setSummaryCmd = &cobra.Command{
	Use:   "set-summary <text>",
	Short: "Replace the summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetSummary,
}

var (
	sectionName string
	sectionItem string
	sectionKeep bool
)

func init() {
	sectionCmd.PersistentFlags().StringVarP(&sectionName, "section", "s", "experience", "Section: experience, education, or projects")
	sectionCmd.PersistentFlags().StringVarP(&sectionItem, "item", "i", "", "Section item id (see 'cvb cv show -v')")
	sectionCmd.PersistentFlags().BoolVar(&sectionKeep, "no-save", false, "Apply the edit to the draft only, without saving (dry run)")

	sectionCmd.AddCommand(addBulletCmd, editBulletCmd, rmBulletCmd, moveBulletCmd, setSummaryCmd)
	rootCmd.AddCommand(sectionCmd)
}

func sectionFlag() (builder.Section, error) {
	switch builder.Section(sectionName) {
	case builder.SectionExperience, builder.SectionEducation, builder.SectionProjects:
		return builder.Section(sectionName), nil
	default:
		return "", fmt.Errorf("unknown section %q", sectionName)
	}
}

// editAndSave runs one draft edit and persists the section, reporting
// whether the dirty flag cleared.
func editAndSave(edit func(a *app, section builder.Section) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.loadCurrent(ctx); err != nil {
		return err
	}
	section, err := sectionFlag()
	if err != nil {
		return err
	}
	if err := edit(a, section); err != nil {
		return err
	}
	if sectionKeep {
		fmt.Printf("Draft updated (%s unsaved)\n", section)
		return nil
	}
	if err := a.store.SaveSection(ctx, section); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", section)
	return nil
}

func requireItem() error {
	if sectionItem == "" {
		return fmt.Errorf("--item is required")
	}
	return nil
}

func runAddBullet(_ *cobra.Command, args []string) error {
	if err := requireItem(); err != nil {
		return err
	}
	return editAndSave(func(a *app, section builder.Section) error {
		return a.store.AddBullet(section, sectionItem, args[0])
	})
}

func runEditBullet(_ *cobra.Command, args []string) error {
	if err := requireItem(); err != nil {
		return err
	}
	var index int
	if _, err := fmt.Sscanf(args[0], "%d", &index); err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	return editAndSave(func(a *app, section builder.Section) error {
		return a.store.EditBullet(section, sectionItem, index, args[1])
	})
}

func runRmBullet(_ *cobra.Command, args []string) error {
	if err := requireItem(); err != nil {
		return err
	}
	var index int
	if _, err := fmt.Sscanf(args[0], "%d", &index); err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	return editAndSave(func(a *app, section builder.Section) error {
		return a.store.RemoveBullet(section, sectionItem, index)
	})
}

func runMoveBullet(_ *cobra.Command, args []string) error {
	if err := requireItem(); err != nil {
		return err
	}
	var from, to int
	if _, err := fmt.Sscanf(args[0], "%d", &from); err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	if _, err := fmt.Sscanf(args[1], "%d", &to); err != nil {
		return fmt.Errorf("invalid index %q", args[1])
	}
	return editAndSave(func(a *app, section builder.Section) error {
		return a.store.MoveBullet(section, sectionItem, from, to)
	})
}

func runSetSummary(_ *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.loadCurrent(ctx); err != nil {
		return err
	}
	a.store.SetSummary(args[0])
	if sectionKeep {
		fmt.Println("Draft updated (summary unsaved)")
		return nil
	}
	if err := a.store.SaveSection(ctx, builder.SectionSummary); err != nil {
		return err
	}
	fmt.Println("Saved summary")
	return nil
}
