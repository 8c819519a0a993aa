package cmd

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"streamit/internal/app"
	"streamit/internal/location"
	"streamit/internal/media"
	"streamit/internal/player"
)

var (
	flagSeason  int
	flagEpisode int
	flagOpen    bool
	flagCopy    bool
)

var embedCmd = &cobra.Command{
	Use:   "embed <title-id>",
	Short: "Resolve the embed player URL for a title",
	Long: `Resolve the embed player URL for a movie or a series episode.

The provider is --provider if it can serve the title, otherwise the first
capable one. Series default to the first episode of the first season.`,
	Args: cobra.ExactArgs(1),
	RunE: embedRun,
}

func init() {
	embedCmd.Flags().IntVarP(&flagSeason, "season", "s", 0, "Season number (series only)")
	embedCmd.Flags().IntVarP(&flagEpisode, "episode", "e", 0, "Episode number (series only)")
	embedCmd.Flags().BoolVarP(&flagOpen, "open", "o", false, "Open the embed with the configured launcher")
	embedCmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the embed URL to the clipboard")
}

// playerCapture is a Renderer that keeps the last player view and error.
type playerCapture struct {
	view   app.PlayerView
	errMsg string
}

func (p *playerCapture) ShowSection(app.Section)           {}
func (p *playerCapture) ShowLoading(app.Section)           {}
func (p *playerCapture) ShowResults(string, []media.Title) {}
func (p *playerCapture) ShowFeatured([]media.Title)        {}
func (p *playerCapture) ShowDetails(media.Title)           {}
func (p *playerCapture) ShowPlayer(view app.PlayerView)    { p.view = view }
func (p *playerCapture) ShowError(message string)          { p.errMsg = message }

type embedOutput struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Provider       string `json:"provider"`
	Season         int    `json:"season,omitempty"`
	Episode        int    `json:"episode,omitempty"`
	URL            string `json:"url"`
	ReferrerPolicy string `json:"referrerPolicy,omitempty"`
}

func embedRun(cmd *cobra.Command, args []string) error {
	d, err := newDeps()
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	ctx := cmd.Context()
	capture := &playerCapture{}
	ctl, err := d.controller(ctx, "", capture)
	if err != nil {
		return err
	}

	if err := ctl.Navigate(ctx, location.Title(args[0], true)); err != nil {
		if msg := ctl.LastError(); msg != "" {
			return errors.New(msg)
		}
		return failed("media details", err)
	}
	if flagSeason > 0 {
		if err := ctl.SelectSeason(flagSeason); err != nil {
			return err
		}
	}
	if flagEpisode > 0 {
		if err := ctl.SelectEpisode(flagEpisode); err != nil {
			return err
		}
	}

	view := capture.view
	if view.Notice != "" {
		logger.Warn(view.Notice, "id", view.Title.ID)
	}
	switch view.Status {
	case app.EmbedUnsupported:
		if view.Provider.ID == "" {
			return fmt.Errorf("no provider can play %s", view.Title.DisplayName())
		}
		return fmt.Errorf("provider %s cannot play %s", view.Provider.ID, view.Title.DisplayName())
	case app.EmbedNotReady:
		return errors.New("select a season and episode")
	}

	if flagJSON {
		if err := printJSON(embedOutput{
			ID:             view.Title.ID,
			Title:          view.Title.DisplayName(),
			Provider:       view.Provider.ID,
			Season:         view.Season,
			Episode:        view.Episode,
			URL:            view.EmbedURL,
			ReferrerPolicy: view.Provider.ReferrerPolicy,
		}); err != nil {
			return err
		}
	} else {
		fmt.Println(view.EmbedURL)
	}

	if flagCopy {
		if err := clipboard.WriteAll(view.EmbedURL); err != nil {
			return fmt.Errorf("copying URL: %w", err)
		}
	}
	if flagOpen {
		launcher := player.New(cfg.Launcher)
		if !launcher.Available() {
			return fmt.Errorf("launcher %q not found", launcher.Name())
		}
		if err := launcher.Open(view.EmbedURL, view.Title.DisplayName()); err != nil {
			return fmt.Errorf("opening embed: %w", err)
		}
	}
	return nil
}
