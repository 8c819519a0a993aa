package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagCount int

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "List featured titles",
	Args:  cobra.NoArgs,
	RunE:  exploreRun,
}

func init() {
	exploreCmd.Flags().IntVarP(&flagCount, "count", "n", 0, "Number of titles (default: featured_count from config)")
}

func exploreRun(cmd *cobra.Command, args []string) error {
	count := cfg.FeaturedCount
	if flagCount > 0 {
		count = flagCount
	}

	d, err := newDeps()
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	titles, err := d.catalog.FetchFeatured(cmd.Context(), count)
	if err != nil {
		return failed("featured titles", err)
	}

	if flagJSON {
		return printJSON(titles)
	}
	if len(titles) == 0 {
		fmt.Println("Nothing featured right now.")
		return nil
	}
	printTitles(titles)
	return nil
}
