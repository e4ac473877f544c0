package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jshaha/cognitive-load-annotation/internal/ingest"
	"github.com/jshaha/cognitive-load-annotation/internal/repository"
)

var seedArticlesCmd = &cobra.Command{
	Use:   "seed-articles [file]",
	Short: "Load articles from a JSON, CSV or XLSX file into an empty database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := context.Background()
		existing, err := repository.CountArticles(ctx)
		if err != nil {
			return fmt.Errorf("failed to count articles: %w", err)
		}
		if existing > 0 {
			fmt.Printf("Database already has %d articles. Skipping seed.\n", existing)
			return nil
		}

		path := args[0]
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		articles, err := ingest.Parse(filepath.Base(path), file)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		added, err := repository.CreateArticles(ctx, articles)
		if err != nil {
			return fmt.Errorf("failed to store articles: %w", err)
		}

		fmt.Printf("Successfully added %d articles.\n", added)
		return nil
	},
}
