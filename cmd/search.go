package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"streamit/internal/media"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog for movies and series",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRun,
}

func searchRun(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if utf8.RuneCountInString(query) < cfg.MinQuery {
		return fmt.Errorf("query must be at least %d characters", cfg.MinQuery)
	}

	d, err := newDeps()
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	titles, err := d.catalog.Search(cmd.Context(), query)
	if err != nil {
		return failed("search results", err)
	}
	logger.Debug("search done", "query", query, "results", len(titles))

	if flagJSON {
		return printJSON(titles)
	}
	if len(titles) == 0 {
		fmt.Println("No titles found.")
		return nil
	}
	printTitles(titles)
	return nil
}

// printTitles prints one line per title: id, name, kind and rating.
func printTitles(titles []media.Title) {
	for _, t := range titles {
		fmt.Printf("%-11s %-45s %-6s %s\n", t.ID, t.DisplayName(), t.MediaType(), ratingText(t.Rating))
	}
}

func ratingText(r *media.Rating) string {
	if r == nil || r.VoteCount == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%s votes)", r.AggregateRating, humanize.Comma(int64(r.VoteCount)))
}
