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
	"github.com/spf13/cobra"

	"github.com/lexikon-app/lexikon/internal/app"
	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/usecase"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Compose practice sessions",
}

var sessionFillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Build a review session: due cards hardest first, backfilled with recent items",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		group, _ := cmd.Flags().GetString("group")
		limit, _ := cmd.Flags().GetInt("limit")
		tier, _ := cmd.Flags().GetString("tier")
		exact, _ := cmd.Flags().GetBool("tier-exact")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		req := &usecase.PriorityFillRequest{Domain: domain, Group: group, Limit: limit}
		if tier != "" {
			mode := usecase.TierAtOrBelow
			if exact {
				mode = usecase.TierExactly
			}
			req.Filter = &usecase.TierFilter{Tier: entity.Tier(tier), Mode: mode}
		}

		session, err := container.Session.PriorityFill(cmd.Context(), req)
		if err != nil {
			return err
		}
		printSession(cmd, session)
		return nil
	},
}

var sessionMixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Build a mixed session interleaving domains and categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, _ := cmd.Flags().GetStringSlice("domains")
		limit, _ := cmd.Flags().GetInt("limit")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		session, err := container.Session.Interleaved(cmd.Context(), &usecase.InterleaveRequest{
			Domains: domains,
			Limit:   limit,
		})
		if err != nil {
			return err
		}
		printSession(cmd, session)
		return nil
	},
}

var sessionDrillCmd = &cobra.Command{
	Use:   "drill",
	Short: "List the error-focused drill queue over struggling cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		limit, _ := cmd.Flags().GetInt("limit")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		drill, err := container.Session.ErrorFocused(cmd.Context(), &usecase.ErrorFocusedRequest{
			Domain: domain,
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		if drill.Remaining() == 0 {
			cmd.Println("no struggling cards")
			return nil
		}
		for item := drill.Next(); item != nil; item = drill.Next() {
			cmd.Printf("card %d  item %d  %s/%s  ease %.2f\n",
				item.Card.ID, item.Card.ItemID, item.Domain, item.Category, item.Card.EaseFactor)
			drill.Record(true)
		}
		return nil
	},
}

func printSession(cmd *cobra.Command, session []entity.SessionCandidate) {
	if len(session) == 0 {
		cmd.Println("empty session")
		return
	}
	for i, c := range session {
		cmd.Printf("%2d. card %d  item %d  %s/%s  tier %s\n",
			i+1, c.Card.ID, c.Card.ItemID, c.Domain, c.Category, c.Tier)
	}
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionFillCmd)
	sessionCmd.AddCommand(sessionMixCmd)
	sessionCmd.AddCommand(sessionDrillCmd)

	sessionFillCmd.Flags().String("domain", "", "restrict to one domain")
	sessionFillCmd.Flags().String("group", "", "restrict to one domain group")
	sessionFillCmd.Flags().Int("limit", 20, "session size")
	sessionFillCmd.Flags().String("tier", "", "tier filter (e.g. A2)")
	sessionFillCmd.Flags().Bool("tier-exact", false, "match the tier exactly instead of at-or-below")

	sessionMixCmd.Flags().StringSlice("domains", nil, "domains to draw from (default all)")
	sessionMixCmd.Flags().Int("limit", 20, "session size")

	sessionDrillCmd.Flags().String("domain", "", "restrict to one domain")
	sessionDrillCmd.Flags().Int("limit", 0, "maximum cards to drill (0 = all)")
}
