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
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexikon-app/lexikon/internal/app"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage the review queue",
}

var reviewStartCmd = &cobra.Command{
	Use:   "start <item-id>...",
	Short: "Commit items to active learning",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		itemIDs := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", arg)
			}
			itemIDs = append(itemIDs, id)
		}

		if len(itemIDs) == 1 {
			cardID, err := container.Review.StartLearning(cmd.Context(), itemIDs[0])
			if err != nil {
				return err
			}
			cmd.Printf("card %d\n", cardID)
			return nil
		}
		if err := container.Review.StartLearningBatch(cmd.Context(), itemIDs); err != nil {
			return err
		}
		cmd.Printf("started learning %d items\n", len(itemIDs))
		return nil
	},
}

var reviewDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		group, _ := cmd.Flags().GetString("group")
		limit, _ := cmd.Flags().GetInt32("limit")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		due, err := container.Review.Due(cmd.Context(), domain, group, limit)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			cmd.Println("nothing due")
			return nil
		}
		for _, c := range due {
			cmd.Printf("card %d  item %d  %s/%s  ease %.2f  due %s\n",
				c.Card.ID, c.Card.ItemID, c.Domain, c.Category,
				c.Card.EaseFactor, c.Card.NextReviewAt.Format(time.DateOnly))
		}
		return nil
	},
}

var reviewRecordCmd = &cobra.Command{
	Use:   "record <card-id> <quality>",
	Short: "Record a graded review outcome (quality 0-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid card id %q", args[0])
		}
		quality, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quality %q", args[1])
		}

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		outcome, err := container.Review.RecordReview(cmd.Context(), cardID, quality)
		if err != nil {
			return err
		}
		if outcome == nil {
			cmd.Printf("card %d no longer exists\n", cardID)
			return nil
		}
		cmd.Printf("card %d  ease %.2f  interval %dd  next %s\n",
			outcome.CardID, outcome.EaseFactor, outcome.IntervalDays,
			outcome.NextReviewAt.Format(time.DateOnly))
		if outcome.Mastered {
			cmd.Println("mastered")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewStartCmd)
	reviewCmd.AddCommand(reviewDueCmd)
	reviewCmd.AddCommand(reviewRecordCmd)

	reviewDueCmd.Flags().String("domain", "", "restrict to one domain")
	reviewDueCmd.Flags().String("group", "", "restrict to one domain group")
	reviewDueCmd.Flags().Int32("limit", 0, "maximum cards to list (0 = all)")
}
