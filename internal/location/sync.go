package location

import (
	"context"
	"net/url"
	"sync"
)

// Listener is told about history navigation (back/forward).
type Listener func(ctx context.Context, in Intent)

// Sync maps intents onto a History. The location is the source of truth on
// history navigation: listeners receive the intent re-derived from it.
type Sync struct {
	history History

	mu        sync.Mutex
	listeners []Listener
}

// NewSync creates a Sync over h.
func NewSync(h History) *Sync {
	return &Sync{history: h}
}

// Location returns the current location.
func (s *Sync) Location() *url.URL {
	return s.history.Current()
}

// Intent derives the intent of the current location.
func (s *Sync) Intent() Intent {
	return FromQuery(s.history.Current().Query())
}

// Push writes the location for an intent. A history frame is added only
// when the effective location changes; replaceOnly rewrites the current
// frame instead. Pushing the intent the current location already means
// only cleans up its parameters in place. It reports whether the location
// changed.
func (s *Sync) Push(in Intent, replaceOnly bool) bool {
	cur := s.history.Current()
	next := Apply(cur, in)
	if Canonical(next) == Canonical(cur) {
		return false
	}
	if replaceOnly || FromQuery(cur.Query()) == in {
		s.history.Replace(next)
	} else {
		s.history.Push(next)
	}
	return true
}

// Subscribe registers fn for back/forward navigation.
func (s *Sync) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Back moves one frame back and notifies listeners. It reports false when
// there is nothing to go back to.
func (s *Sync) Back(ctx context.Context) bool {
	u, ok := s.history.Back()
	if !ok {
		return false
	}
	s.notify(ctx, FromQuery(u.Query()))
	return true
}

// Forward moves one frame forward and notifies listeners.
func (s *Sync) Forward(ctx context.Context) bool {
	u, ok := s.history.Forward()
	if !ok {
		return false
	}
	s.notify(ctx, FromQuery(u.Query()))
	return true
}

func (s *Sync) notify(ctx context.Context, in Intent) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, in)
	}
}

// ParseStart builds a starting location from a raw query string such as
// "id=tt1375666&view=player" (a leading "?" is allowed).
func ParseStart(raw string) (*url.URL, error) {
	u := &url.URL{Path: "/"}
	if raw == "" {
		return u, nil
	}
	if raw[0] == '?' {
		raw = raw[1:]
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	u.RawQuery = q.Encode()
	return u, nil
}
