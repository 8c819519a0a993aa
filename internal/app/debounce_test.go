package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerTrailingCallOnly(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	var calls []string
	record := func(s string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, s)
		}
	}

	d.Schedule(record("inc"))
	d.Schedule(record("ince"))
	d.Schedule(record("incep"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"incep"}, calls)
	assert.False(t, d.Pending())
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	ran := 0
	d.Schedule(func() { ran++ })
	assert.True(t, d.Pending())

	assert.True(t, d.Flush())
	assert.Equal(t, 1, ran)
	assert.False(t, d.Flush(), "nothing left to flush")
	assert.Equal(t, 1, ran)
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	fired := make(chan struct{}, 1)
	d.Schedule(func() { fired <- struct{}{} })
	d.Cancel()

	select {
	case <-fired:
		t.Fatal("cancelled call ran")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, d.Pending())
}
