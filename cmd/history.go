package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"streamit/internal/config"
	"streamit/internal/history"
)

var (
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently viewed titles",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <title-id> [season episode]",
	Short: "Remove one entry from the history",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  historyRmRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries, 0 for all")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole history")
	historyCmd.AddCommand(historyRmCmd)
}

func openHistoryStrict() (*history.Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, fmt.Errorf("locating history: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return store, nil
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStrict()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if flagClear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	entries, err := store.Recent(ctx, flagLimit)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}
	for i, line := range history.FormatForDisplay(entries, time.Now()) {
		fmt.Printf("%-11s %s\n", entries[i].ID, line)
	}
	return nil
}

func historyRmRun(cmd *cobra.Command, args []string) error {
	var season, episode int
	if len(args) == 3 {
		var err error
		if season, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid season %q", args[1])
		}
		if episode, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("invalid episode %q", args[2])
		}
	} else if len(args) == 2 {
		return fmt.Errorf("give both season and episode, or neither")
	}

	store, err := openHistoryStrict()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.Remove(cmd.Context(), args[0], season, episode)
}
