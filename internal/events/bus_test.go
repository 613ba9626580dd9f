// ABOUTME: Tests for the change notification bus.
// ABOUTME: Covers ordering, collection filtering, unsubscribe and re-entrancy.
package events

import (
	"testing"

	"github.com/harperreed/practice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func(Change) { got = append(got, "first") })
	bus.Subscribe(func(Change) { got = append(got, "second") })

	bus.Publish(Change{Collection: models.CollectionSessions})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestSubscribeToFiltersCollections(t *testing.T) {
	bus := NewBus()
	var seen []models.Collection
	bus.SubscribeTo(func(ch Change) { seen = append(seen, ch.Collection) },
		models.CollectionGoals, models.CollectionCategories)

	bus.Publish(Change{Collection: models.CollectionSessions})
	bus.Publish(Change{Collection: models.CollectionGoals})
	bus.Publish(Change{Collection: models.CollectionCategories})

	assert.Equal(t, []models.Collection{models.CollectionGoals, models.CollectionCategories}, seen)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	cancel := bus.SubscribeTo(func(Change) { calls++ }, models.CollectionMedia, models.CollectionGoals)
	require.Equal(t, 2, bus.Len())

	cancel()
	cancel()
	bus.Publish(Change{Collection: models.CollectionMedia})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, bus.Len())
}

func TestHandlerMaySubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	late := 0
	bus.Subscribe(func(Change) {
		bus.Subscribe(func(Change) { late++ })
	})

	bus.Publish(Change{Collection: models.CollectionSessions})
	assert.Equal(t, 0, late, "subscription added mid-publish must not see the current change")

	bus.Publish(Change{Collection: models.CollectionSessions})
	assert.Equal(t, 1, late)
}

func TestZeroValueBus(t *testing.T) {
	var bus Bus
	called := false
	bus.Subscribe(func(Change) { called = true })
	bus.Publish(Change{Collection: models.CollectionSettings})
	assert.True(t, called)
}
