package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"streamit/internal/media"
)

var titleCmd = &cobra.Command{
	Use:   "title <title-id>",
	Short: "Show details for a title, with its seasons for a series",
	Args:  cobra.ExactArgs(1),
	RunE:  titleRun,
}

type seasonSummary struct {
	Season   int             `json:"season"`
	Episodes []media.Episode `json:"episodes"`
}

type titleOutput struct {
	media.Title
	Seasons []seasonSummary `json:"seasons,omitempty"`
}

func titleRun(cmd *cobra.Command, args []string) error {
	d, err := newDeps()
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	ctx := cmd.Context()
	t, err := d.catalog.FetchTitle(ctx, args[0])
	if err != nil {
		return failed("media details", err)
	}

	out := titleOutput{Title: *t}
	if t.MediaType() == media.TV {
		episodes, err := d.catalog.FetchEpisodes(ctx, t.ID)
		if err != nil {
			logger.Warn("could not load episodes", "id", t.ID, "error", err)
		}
		idx := media.BuildSeasonIndex(episodes)
		for _, s := range idx.Seasons() {
			out.Seasons = append(out.Seasons, seasonSummary{Season: s, Episodes: idx.Episodes(s)})
		}
	}

	if flagJSON {
		return printJSON(out)
	}

	fmt.Println(t.DisplayName())
	meta := []string{t.ID, t.MediaType().String(), t.Years()}
	if mins := t.RuntimeMinutes(); mins > 0 {
		meta = append(meta, fmt.Sprintf("%d min", mins))
	}
	meta = append(meta, "rating "+ratingText(t.Rating))
	fmt.Println(strings.Join(meta, " | "))
	if t.Plot != "" {
		fmt.Println()
		fmt.Println(t.Plot)
	}
	if len(out.Seasons) > 0 {
		fmt.Println()
		for _, s := range out.Seasons {
			fmt.Printf("Season %d: %d episodes\n", s.Season, len(s.Episodes))
		}
	}
	return nil
}
