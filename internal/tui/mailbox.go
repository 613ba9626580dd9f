// ABOUTME: Hand-off of render results from view listeners to the tea loop.
// ABOUTME: Only the newest render per source is kept until the loop takes it.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// renderBatch carries every pending render, oldest source first.
type renderBatch []tea.Msg

type mailbox struct {
	mu      sync.Mutex
	pending map[int]tea.Msg
	order   []int
	ready   chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{pending: make(map[int]tea.Msg), ready: make(chan struct{}, 1)}
}

// put replaces any render from source that the loop has not taken yet.
func (b *mailbox) put(source int, msg tea.Msg) {
	b.mu.Lock()
	if _, ok := b.pending[source]; !ok {
		b.order = append(b.order, source)
	}
	b.pending[source] = msg
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// take returns the pending renders without blocking.
func (b *mailbox) take() renderBatch {
	select {
	case <-b.ready:
	default:
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.order) == 0 {
		return nil
	}
	out := make(renderBatch, 0, len(b.order))
	for _, source := range b.order {
		out = append(out, b.pending[source])
	}
	clear(b.pending)
	b.order = b.order[:0]
	return out
}

// wait blocks until a render is pending.
func (b *mailbox) wait() tea.Cmd {
	return func() tea.Msg {
		<-b.ready
		return b.take()
	}
}
