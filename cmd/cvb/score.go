package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Request a fresh ATS score for the current CV",
	RunE:  runScore,
}

var scoreHistory int

func init() {
	scoreCmd.Flags().IntVar(&scoreHistory, "history", 0, "Show the last N scores instead of requesting a new one")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.loadCurrent(ctx); err != nil {
		return err
	}

	if scoreHistory > 0 {
		scores, err := a.tracker.History(ctx, scoreHistory)
		if err != nil {
			return err
		}
		if len(scores) == 0 {
			fmt.Println("No scores yet.")
			return nil
		}
		for _, s := range scores {
			fmt.Printf("%s  %3d/100  (template %s)\n", s.CreatedAt.Format("2006-01-02 15:04"), s.OverallScore, s.TemplateID)
		}
		return nil
	}

	result, err := a.tracker.ScoreCV(ctx)
	if err != nil {
		return err
	}
	a.printer.PrintScore(result)
	return nil
}
