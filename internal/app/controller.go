package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"streamit/internal/embed"
	"streamit/internal/location"
	"streamit/internal/media"
	"streamit/internal/provider"
)

const (
	DefaultDebounce      = 300 * time.Millisecond
	DefaultMinQuery      = 3
	DefaultFeaturedCount = 20
)

var (
	// ErrSuperseded is returned when a newer navigation or search replaced
	// the one in flight; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")

	ErrNotInPlayer     = errors.New("player section is not active")
	ErrNoTitle         = errors.New("no title loaded")
	ErrNotSeries       = errors.New("title has no seasons")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrUnknownEpisode  = errors.New("no such season or episode")
)

// Catalog is the data source the controller loads from.
type Catalog interface {
	Search(ctx context.Context, query string) ([]media.Title, error)
	FetchTitle(ctx context.Context, id string) (*media.Title, error)
	FetchEpisodes(ctx context.Context, id string) ([]media.Episode, error)
	FetchFeatured(ctx context.Context, count int) ([]media.Title, error)
}

// Recorder stores titles the user opened.
type Recorder interface {
	Record(ctx context.Context, entry media.HistoryEntry) error
}

// Options configures a Controller. Catalog, Providers, Location and
// Renderer are required.
type Options struct {
	Catalog           Catalog
	Providers         *provider.Registry
	Location          *location.Sync
	Renderer          Renderer
	Recorder          Recorder
	Debounce          time.Duration
	MinQuery          int
	FeaturedCount     int
	PreferredProvider string
	// Context is used for debounced searches, which run outside any caller.
	Context context.Context
	Logger  *slog.Logger
}

// Controller is the single authority for what is on screen. It is safe for
// concurrent use; network calls run without holding its lock and their
// results are applied only if no newer request was issued meanwhile.
type Controller struct {
	catalog       Catalog
	providers     *provider.Registry
	loc           *location.Sync
	render        Renderer
	recorder      Recorder
	logger        *slog.Logger
	baseCtx       context.Context
	minQuery      int
	featuredCount int
	preferred     string
	search        *Debouncer

	mu         sync.Mutex
	seq        uint64
	section    Section
	intent     location.Intent
	state      *media.State
	query      string
	results    []media.Title
	featured   []media.Title
	providerID string
	season     int
	episode    int
	embedURL   string
	notice     string
	lastError  string
}

// New creates a controller and subscribes it to history navigation.
func New(opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQuery <= 0 {
		opts.MinQuery = DefaultMinQuery
	}
	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = DefaultFeaturedCount
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		catalog:       opts.Catalog,
		providers:     opts.Providers,
		loc:           opts.Location,
		render:        opts.Renderer,
		recorder:      opts.Recorder,
		logger:        opts.Logger,
		baseCtx:       opts.Context,
		minQuery:      opts.MinQuery,
		featuredCount: opts.FeaturedCount,
		preferred:     opts.PreferredProvider,
		search:        NewDebouncer(opts.Debounce),
		section:       SectionHome,
	}
	c.loc.Subscribe(c.onHistory)
	return c
}

// Start shows whatever the current location points at. A location carrying
// stray parameters is rewritten in place first.
func (c *Controller) Start(ctx context.Context) error {
	in := c.loc.Intent()
	c.loc.Push(in, true)
	return c.Activate(ctx, in)
}

// Navigate records the intent in the location, adding a history frame when
// the location changes, and activates it.
func (c *Controller) Navigate(ctx context.Context, in location.Intent) error {
	c.loc.Push(in, false)
	return c.Activate(ctx, in)
}

// OpenTitle shows the details of a title.
func (c *Controller) OpenTitle(ctx context.Context, id string) error {
	return c.Navigate(ctx, location.Title(id, false))
}

// Play opens the current title in the player.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	if st == nil {
		return ErrNoTitle
	}
	return c.Navigate(ctx, location.Title(st.Title.ID, true))
}

// Home returns to the home section.
func (c *Controller) Home(ctx context.Context) error {
	return c.Navigate(ctx, location.Intent{})
}

// Explore shows the featured titles.
func (c *Controller) Explore(ctx context.Context) error {
	return c.Navigate(ctx, location.Intent{Explore: true})
}

// About shows the about section.
func (c *Controller) About(ctx context.Context) error {
	return c.Navigate(ctx, location.Intent{About: true})
}

// Back goes one history frame back. The section follows the location.
func (c *Controller) Back(ctx context.Context) bool {
	return c.loc.Back(ctx)
}

// Forward goes one history frame forward.
func (c *Controller) Forward(ctx context.Context) bool {
	return c.loc.Forward(ctx)
}

func (c *Controller) onHistory(ctx context.Context, in location.Intent) {
	if err := c.Activate(ctx, in); err != nil && !errors.Is(err, ErrSuperseded) {
		c.logger.Debug("history navigation failed", "intent", in, "error", err)
	}
}

// Activate replaces the active section with the one the intent targets,
// fetching whatever it needs. It does not touch the location.
func (c *Controller) Activate(ctx context.Context, in location.Intent) error {
	c.search.Cancel()

	c.mu.Lock()
	c.seq++
	token := c.seq
	c.intent = in
	c.mu.Unlock()

	c.logger.Debug("activate", "intent", in, "token", token)

	switch target := SectionFor(in); target {
	case SectionDetails, SectionPlayer:
		return c.activateTitle(ctx, in, token)
	case SectionExplore:
		return c.activateExplore(ctx, token)
	case SectionResults:
		if c.shortQuery(in.Query) {
			return c.showStatic(SectionHome, token)
		}
		return c.runSearch(ctx, strings.TrimSpace(in.Query), token, false)
	default:
		return c.showStatic(target, token)
	}
}

func (c *Controller) showStatic(s Section, token uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq {
		return ErrSuperseded
	}
	if s == SectionHome {
		c.query, c.results = "", nil
	}
	c.section = s
	c.render.ShowSection(s)
	return nil
}

func (c *Controller) activateTitle(ctx context.Context, in location.Intent, token uint64) error {
	target := SectionFor(in)

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	cached := c.state != nil && c.state.Title.ID == in.MediaID
	c.render.ShowLoading(target)
	c.mu.Unlock()

	if !cached {
		t, err := c.catalog.FetchTitle(ctx, in.MediaID)

		c.mu.Lock()
		if token != c.seq {
			c.mu.Unlock()
			return ErrSuperseded
		}
		if err != nil {
			c.failLocked("media details", err)
			c.mu.Unlock()
			return err
		}
		c.state = media.NewState(*t)
		c.providerID, c.season, c.episode, c.embedURL, c.notice = "", 0, 0, "", ""
		c.mu.Unlock()
	}

	if target == SectionPlayer {
		return c.enterPlayer(ctx, token)
	}

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.section = SectionDetails
	c.render.ShowDetails(c.state.Title)
	entry := c.historyEntryLocked(false)
	c.mu.Unlock()

	c.record(ctx, entry)
	return nil
}

// enterPlayer shows the player for the loaded title. A series' episode list
// is fetched on its first player view; if that fails the player still opens
// with season 1 episode 1 selected.
func (c *Controller) enterPlayer(ctx context.Context, token uint64) error {
	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	id := c.state.Title.ID
	needEpisodes := c.state.IsTV && !c.state.SeasonsLoaded()
	c.mu.Unlock()

	notice := ""
	if needEpisodes {
		eps, err := c.catalog.FetchEpisodes(ctx, id)

		c.mu.Lock()
		if token != c.seq {
			c.mu.Unlock()
			return ErrSuperseded
		}
		switch idx := media.BuildSeasonIndex(eps); {
		case err != nil:
			c.logger.Warn("loading episodes failed", "id", id, "error", err)
			notice = "Could not load episodes."
		case idx.Len() == 0:
			notice = "No episodes listed for this title."
		default:
			c.state.Seasons = idx
			c.season, c.episode = 0, 0
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.section = SectionPlayer
	if needEpisodes || !c.state.IsTV {
		c.notice = notice
	}
	c.ensureSelectionLocked()
	c.ensureProviderLocked()
	c.showPlayerLocked()
	entry := c.historyEntryLocked(true)
	c.mu.Unlock()

	c.record(ctx, entry)
	return nil
}

func (c *Controller) activateExplore(ctx context.Context, token uint64) error {
	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.render.ShowLoading(SectionExplore)
	c.mu.Unlock()

	titles, err := c.catalog.FetchFeatured(ctx, c.featuredCount)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq {
		return ErrSuperseded
	}
	if err != nil {
		c.failLocked("featured titles", err)
		return err
	}
	c.section = SectionExplore
	c.featured = titles
	c.render.ShowFeatured(titles)
	return nil
}

// SelectSearchQuery reacts to the search box changing. Queries shorter than
// the minimum go straight back to home without a request; longer ones are
// debounced and only the last one in a burst is sent.
func (c *Controller) SelectSearchQuery(query string) {
	q := strings.TrimSpace(query)
	if c.shortQuery(q) {
		c.search.Cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		c.seq++
		fromResults := c.section == SectionResults
		c.query, c.results = "", nil
		c.intent = location.Intent{}
		c.section = SectionHome
		c.loc.Push(c.intent, fromResults)
		c.render.ShowSection(SectionHome)
		return
	}

	c.search.Schedule(func() { c.fireSearch(q) })
}

// SubmitSearch sends a pending debounced search immediately. It reports
// whether one was pending.
func (c *Controller) SubmitSearch() bool {
	return c.search.Flush()
}

func (c *Controller) fireSearch(q string) {
	c.mu.Lock()
	c.seq++
	token := c.seq
	c.mu.Unlock()

	if err := c.runSearch(c.baseCtx, q, token, true); err != nil && !errors.Is(err, ErrSuperseded) {
		c.logger.Debug("search failed", "query", q, "error", err)
	}
}

func (c *Controller) runSearch(ctx context.Context, q string, token uint64, push bool) error {
	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.render.ShowLoading(SectionResults)
	c.mu.Unlock()

	titles, err := c.catalog.Search(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq {
		c.logger.Debug("discarding stale search response", "query", q)
		return ErrSuperseded
	}
	if err != nil {
		c.failLocked("search results", err)
		return err
	}
	if push {
		in := location.Search(q)
		c.loc.Push(in, c.section == SectionResults)
		c.intent = in
	}
	c.section = SectionResults
	c.query = q
	c.results = titles
	c.render.ShowResults(q, slices.Clone(titles))
	return nil
}

func (c *Controller) shortQuery(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) < c.minQuery
}

// SelectStreamProvider switches the player to another provider.
func (c *Controller) SelectStreamProvider(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.section != SectionPlayer || c.state == nil {
		return ErrNotInPlayer
	}
	if _, ok := c.providers.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	c.providerID = id
	c.showPlayerLocked()
	return nil
}

// SelectSeason switches to a season and its first episode.
func (c *Controller) SelectSeason(season int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkSeriesLocked(); err != nil {
		return err
	}

	seasons := c.state.Seasons
	switch {
	case seasons.Len() > 0 && !seasons.Has(season):
		return fmt.Errorf("%w: season %d", ErrUnknownEpisode, season)
	case seasons.Len() > 0:
		c.season, c.episode = season, seasons.FirstEpisode(season)
	case season < 1:
		return fmt.Errorf("%w: season %d", ErrUnknownEpisode, season)
	default:
		c.season, c.episode = season, 1
	}
	c.showPlayerLocked()
	return nil
}

// SelectEpisode switches to an episode of the selected season.
func (c *Controller) SelectEpisode(episode int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkSeriesLocked(); err != nil {
		return err
	}

	seasons := c.state.Seasons
	if (seasons.Len() > 0 && !seasons.HasEpisode(c.season, episode)) || episode < 1 {
		return fmt.Errorf("%w: S%dE%d", ErrUnknownEpisode, c.season, episode)
	}
	c.episode = episode
	c.showPlayerLocked()
	return nil
}

func (c *Controller) checkSeriesLocked() error {
	if c.section != SectionPlayer || c.state == nil {
		return ErrNotInPlayer
	}
	if !c.state.IsTV {
		return ErrNotSeries
	}
	return nil
}

// ensureSelectionLocked makes the season/episode selection valid for the
// loaded title, defaulting to the first episode of the first season.
func (c *Controller) ensureSelectionLocked() {
	st := c.state
	switch {
	case !st.IsTV:
		c.season, c.episode = 0, 0
	case st.SeasonsLoaded():
		if !st.Seasons.HasEpisode(c.season, c.episode) {
			c.season = st.Seasons.FirstSeason()
			c.episode = st.Seasons.FirstEpisode(c.season)
		}
	case c.season < 1 || c.episode < 1:
		c.season, c.episode = 1, 1
	}
}

// ensureProviderLocked keeps the active provider if it can serve the title,
// otherwise picks the preferred one, otherwise the first capable one.
func (c *Controller) ensureProviderLocked() {
	kind := c.state.Title.MediaType()
	for _, id := range []string{c.providerID, c.preferred} {
		if e, ok := c.providers.Lookup(id); ok && e.SupportsType(kind) {
			c.providerID = e.ID
			return
		}
	}
	if e, ok := c.providers.First(kind); ok {
		c.providerID = e.ID
		return
	}
	c.providerID = ""
}

// showPlayerLocked renders the player with a loading frame, resolves the
// embed URL and renders the result.
func (c *Controller) showPlayerLocked() {
	st := c.state
	view := PlayerView{
		Title:     st.Title,
		IsTV:      st.IsTV,
		Seasons:   st.Seasons.Seasons(),
		Episodes:  st.Seasons.Episodes(c.season),
		Season:    c.season,
		Episode:   c.episode,
		Providers: c.providers.Supporting(st.Title.MediaType()),
		Status:    EmbedLoading,
		Notice:    c.notice,
	}
	entry, ok := c.providers.Lookup(c.providerID)
	view.Provider = entry
	c.render.ShowPlayer(view)

	c.embedURL = ""
	if !ok {
		view.Status = EmbedUnsupported
		c.render.ShowPlayer(view)
		return
	}

	url, err := embed.Resolve(entry, st.Title.ID, st.IsTV, c.season, c.episode)
	switch {
	case errors.Is(err, embed.ErrUnsupported):
		view.Status = EmbedUnsupported
	case errors.Is(err, embed.ErrNotReady):
		view.Status = EmbedNotReady
	default:
		view.Status = EmbedReady
		view.EmbedURL = url
		c.embedURL = url
	}
	c.render.ShowPlayer(view)
}

func (c *Controller) failLocked(action string, err error) {
	msg := Describe(action, err)
	c.logger.Warn("catalog request failed", "action", action, "error", err)
	c.section = SectionError
	c.lastError = msg
	c.render.ShowError(msg)
}

func (c *Controller) historyEntryLocked(played bool) media.HistoryEntry {
	t := c.state.Title
	return media.HistoryEntry{
		ID:       t.ID,
		Title:    t.DisplayName(),
		Type:     t.MediaType(),
		Season:   c.season,
		Episode:  c.episode,
		Played:   played,
		ViewedAt: time.Now(),
	}
}

func (c *Controller) record(ctx context.Context, entry media.HistoryEntry) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, entry); err != nil {
		c.logger.Debug("saving history failed", "id", entry.ID, "error", err)
	}
}

// Section returns the active section.
func (c *Controller) Section() Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section
}

// Intent returns the intent of the last activation.
func (c *Controller) Intent() location.Intent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent
}

// State returns the currently loaded title, or nil. The state is kept when
// a later navigation fails.
func (c *Controller) State() *media.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil
	}
	st := *c.state
	return &st
}

// Results returns the last search query and its results.
func (c *Controller) Results() (string, []media.Title) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query, slices.Clone(c.results)
}

// Featured returns the last featured listing.
func (c *Controller) Featured() []media.Title {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.featured)
}

// Selection returns the active provider, season and episode.
func (c *Controller) Selection() (providerID string, season, episode int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.providerID, c.season, c.episode
}

// EmbedURL returns the resolved embed URL of the player, or "".
func (c *Controller) EmbedURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.embedURL
}

// LastError returns the message of the last error section.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Location returns the current location.
func (c *Controller) Location() string {
	return location.Canonical(c.loc.Location())
}
