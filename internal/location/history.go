package location

import (
	"net/url"
	"sync"
)

// History is the browser-style history stack a Sync writes to.
type History interface {
	// Current returns the location of the active frame.
	Current() *url.URL
	// Push appends a frame after the active one, discarding forward frames.
	Push(u *url.URL)
	// Replace rewrites the active frame.
	Replace(u *url.URL)
	// Back and Forward move the active frame and return its location.
	Back() (*url.URL, bool)
	Forward() (*url.URL, bool)
}

// Memory is an in-process History.
type Memory struct {
	mu      sync.Mutex
	entries []url.URL
	pos     int
}

// NewMemory creates a history whose only frame is start.
func NewMemory(start *url.URL) *Memory {
	if start == nil {
		start = &url.URL{Path: "/"}
	}
	return &Memory{entries: []url.URL{*start}}
}

func (m *Memory) Current() *url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.entries[m.pos]
	return &u
}

func (m *Memory) Push(u *url.URL) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.pos+1], *u)
	m.pos++
}

func (m *Memory) Replace(u *url.URL) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.pos] = *u
}

func (m *Memory) Back() (*url.URL, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos == 0 {
		return nil, false
	}
	m.pos--
	u := m.entries[m.pos]
	return &u, true
}

func (m *Memory) Forward() (*url.URL, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos >= len(m.entries)-1 {
		return nil, false
	}
	m.pos++
	u := m.entries[m.pos]
	return &u, true
}

// Len returns the number of frames.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
