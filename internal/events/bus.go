// ABOUTME: Change notification bus signalled after every successful record write.
// ABOUTME: Delivery is synchronous and in subscription order, before the writer returns.
package events

import (
	"sync"

	"github.com/harperreed/practice/internal/models"
)

// Change announces that a collection was mutated.
type Change struct {
	Collection models.Collection
}

// Handler receives change notifications.
type Handler func(Change)

type subscription struct {
	id         uint64
	collection models.Collection // empty means every collection
	fn         Handler
}

// Bus is a typed publish/subscribe channel. The zero value is ready to use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for changes to any collection.
// The returned function removes the subscription; calling it twice is safe.
func (b *Bus) Subscribe(fn Handler) func() {
	return b.subscribe("", fn)
}

// SubscribeTo registers fn for changes to the listed collections only.
func (b *Bus) SubscribeTo(fn Handler, collections ...models.Collection) func() {
	if len(collections) == 0 {
		return b.Subscribe(fn)
	}
	cancels := make([]func(), 0, len(collections))
	for _, c := range collections {
		cancels = append(cancels, b.subscribe(c, fn))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

func (b *Bus) subscribe(c models.Collection, fn Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, collection: c, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ch to every matching subscriber before returning.
// Handlers may subscribe or unsubscribe while being notified; such changes
// take effect from the next Publish.
func (b *Bus) Publish(ch Change) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if s.collection == "" || s.collection == ch.Collection {
			s.fn(ch)
		}
	}
}

// Len reports the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
