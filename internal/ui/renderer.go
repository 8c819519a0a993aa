package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"streamit/internal/app"
	"streamit/internal/media"
)

type sectionMsg struct{ section app.Section }

type loadingMsg struct{ section app.Section }

type resultsMsg struct {
	query  string
	titles []media.Title
}

type featuredMsg struct{ titles []media.Title }

type detailsMsg struct{ title media.Title }

type playerMsg struct{ view app.PlayerView }

type errorMsg struct{ message string }

// Renderer turns controller output into program messages. Messages are
// queued without blocking the caller and delivered in order once a program
// is attached, so the controller may render while the program is busy
// calling into it.
type Renderer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []tea.Msg
	closed bool
}

// NewRenderer creates a renderer with nothing attached.
func NewRenderer() *Renderer {
	r := &Renderer{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Attach starts delivering queued and future messages to send, typically
// (*tea.Program).Send.
func (r *Renderer) Attach(send func(tea.Msg)) {
	go r.pump(send)
}

// Close stops delivery. Messages still queued are dropped.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.closed = true
	r.queue = nil
	r.mu.Unlock()
	r.cond.Broadcast()
}

func (r *Renderer) push(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.queue = append(r.queue, msg)
	r.cond.Signal()
}

func (r *Renderer) pump(send func(tea.Msg)) {
	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.closed {
			r.cond.Wait()
		}
		if r.closed {
			r.mu.Unlock()
			return
		}
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		send(msg)
	}
}

func (r *Renderer) ShowSection(s app.Section) { r.push(sectionMsg{s}) }

func (r *Renderer) ShowLoading(s app.Section) { r.push(loadingMsg{s}) }

func (r *Renderer) ShowResults(query string, titles []media.Title) {
	r.push(resultsMsg{query: query, titles: titles})
}

func (r *Renderer) ShowFeatured(titles []media.Title) { r.push(featuredMsg{titles}) }

func (r *Renderer) ShowDetails(title media.Title) { r.push(detailsMsg{title}) }

func (r *Renderer) ShowPlayer(view app.PlayerView) { r.push(playerMsg{view}) }

func (r *Renderer) ShowError(message string) { r.push(errorMsg{message}) }
