/*
Copyright © 2025 The lexikon authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/lexikon-app/lexikon/internal/app"
	"github.com/lexikon-app/lexikon/internal/entity"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()
		ctx := cmd.Context()

		streak, err := container.Stats.Streak(ctx)
		if err != nil {
			return err
		}
		total, err := container.Stats.TotalLearned(ctx)
		if err != nil {
			return err
		}
		minutes, err := container.Stats.MinutesToday(ctx)
		if err != nil {
			return err
		}
		stats, err := container.Stats.ReviewStats(ctx)
		if err != nil {
			return err
		}
		due, err := container.Stats.DueByDomain(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("streak: %d days\n", streak)
		cmd.Printf("learning: %d cards\n", total)
		cmd.Printf("practiced today: %d min\n", minutes)
		cmd.Printf("retention: %.0f%% over %d reviews (avg ease %.2f)\n",
			stats.Retention()*100, stats.TotalReviews, stats.AverageEase)
		for domain, n := range due {
			cmd.Printf("due in %s: %d\n", domain, n)
		}
		return nil
	},
}

var statsForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the review load for the coming days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		forecast, err := container.Stats.DueForecast(cmd.Context(), days)
		if err != nil {
			return err
		}
		for _, day := range forecast {
			cmd.Printf("%s  %d due\n", day.Date.Format(time.DateOnly), day.Due)
		}
		return nil
	},
}

var statsRetentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Show the retention curve and weak domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		minReviews, _ := cmd.Flags().GetInt("min-reviews")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()
		ctx := cmd.Context()

		curve, err := container.Stats.RetentionCurve(ctx, days)
		if err != nil {
			return err
		}
		for _, point := range curve {
			cmd.Printf("%s  %3d%%  (%d reviewed)\n",
				point.Date.Format(time.DateOnly), point.Rate(), point.Total)
		}

		weak, err := container.Stats.WeakAreas(ctx, minReviews)
		if err != nil {
			return err
		}
		if len(weak) > 0 {
			cmd.Println("weakest domains:")
			for _, d := range weak {
				cmd.Printf("  %s  %.0f%%\n", d.Domain, d.Rate()*100)
			}
		}
		return nil
	},
}

var statsForgettingCmd = &cobra.Command{
	Use:   "forgetting",
	Short: "Show accuracy bucketed by review interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		curve, err := container.Stats.ForgettingCurve(cmd.Context())
		if err != nil {
			return err
		}
		for _, bucket := range curve {
			cmd.Printf("%3dd interval  %3.0f%% accuracy  (%d cards)\n",
				bucket.IntervalDays, bucket.Accuracy*100, bucket.Cards)
		}
		return nil
	},
}

var statsWeakCmd = &cobra.Command{
	Use:   "weak",
	Short: "List the hardest cards, lowest ease first",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		limit, _ := cmd.Flags().GetInt("limit")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		weak, err := container.Stats.WeakCards(cmd.Context(), domain, limit)
		if err != nil {
			return err
		}
		for _, c := range weak {
			cmd.Printf("card %d  item %d  %s  ease %.2f  %d/%d correct\n",
				c.Card.ID, c.Card.ItemID, c.Domain,
				c.Card.EaseFactor, c.Card.CorrectReviews, c.Card.TotalReviews)
		}
		return nil
	},
}

var statsLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionType, _ := cmd.Flags().GetString("type")
		minutes, _ := cmd.Flags().GetInt("minutes")
		learned, _ := cmd.Flags().GetInt("learned")
		reviewed, _ := cmd.Flags().GetInt("reviewed")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		err = container.Stats.LogPractice(cmd.Context(), &entity.PracticeEntry{
			SessionType:     sessionType,
			DurationMinutes: minutes,
			ItemsLearned:    learned,
			ItemsReviewed:   reviewed,
		})
		if err != nil {
			return err
		}
		cmd.Println("logged")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsForecastCmd)
	statsCmd.AddCommand(statsRetentionCmd)
	statsCmd.AddCommand(statsForgettingCmd)
	statsCmd.AddCommand(statsWeakCmd)
	statsCmd.AddCommand(statsLogCmd)

	statsForecastCmd.Flags().Int("days", 7, "days to project")
	statsRetentionCmd.Flags().Int("days", 7, "days of retention history")
	statsRetentionCmd.Flags().Int("min-reviews", 5, "reviews required before judging a domain")
	statsWeakCmd.Flags().String("domain", "", "restrict to one domain")
	statsWeakCmd.Flags().Int("limit", 10, "maximum cards to list (0 = all)")
	statsLogCmd.Flags().String("type", "review", "session type")
	statsLogCmd.Flags().Int("minutes", 0, "practice duration in minutes")
	statsLogCmd.Flags().Int("learned", 0, "new items learned")
	statsLogCmd.Flags().Int("reviewed", 0, "items reviewed")
}
