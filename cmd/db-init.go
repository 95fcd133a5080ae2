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
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/infrastructure/config"
	"github.com/lexikon-app/lexikon/internal/infrastructure/database"
)

// dbInitCmd applies the schema and optionally seeds practice items.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize the database schema",
	Long: `Apply the database schema to the configured database. With --items,
also seed practice items from a JSON file so there is something to study.
Note: go-sqlite3 requires CGO_ENABLED=1 at build time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		itemsPath, _ := cmd.Flags().GetString("items")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, cleanup, err := database.NewConnection(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		if err := database.Migrate(cmd.Context(), db, cfg.DriverName()); err != nil {
			return err
		}
		cmd.Println("schema applied")

		if itemsPath == "" {
			return nil
		}
		count, err := seedItems(cmd, db, itemsPath)
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d items\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().String("items", "", "JSON file with practice items to seed")
}

type seedItem struct {
	Ref      string `json:"ref"`
	Domain   string `json:"domain"`
	Group    string `json:"group"`
	Category string `json:"category"`
	Tier     string `json:"tier"`
}

func seedItems(cmd *cobra.Command, db *sql.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read items file: %w", err)
	}
	var items []seedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("parse items file: %w", err)
	}

	today := entity.DateOnly(time.Now()).Format(time.DateOnly)
	count := 0
	for _, item := range items {
		if item.Ref == "" || item.Domain == "" {
			return count, fmt.Errorf("item needs at least ref and domain: %+v", item)
		}
		_, err := db.ExecContext(cmd.Context(), `
			INSERT INTO items (ref, domain, domain_group, category, tier, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ref) DO NOTHING`,
			item.Ref, item.Domain, item.Group, item.Category, item.Tier, today)
		if err != nil {
			return count, fmt.Errorf("seed item %q: %w", item.Ref, err)
		}
		count++
	}
	return count, nil
}
