// Package events is the in-process change bus behind the live cache views.
package events

import (
	"context"
	"sync"

	"github.com/KarpelesLab/emitter"
)

// Bus publishes change topics on an emitter hub and fans them out to watchers
// that can unsubscribe. Notifications coalesce: a slow watcher sees one pending
// signal, never a backlog.
type Bus struct {
	hub *emitter.Hub

	mu       sync.Mutex
	topics   map[string]bool
	watchers map[string]map[int]chan struct{}
	nextID   int
}

func NewBus() *Bus {
	return &Bus{
		hub:      emitter.New(),
		topics:   make(map[string]bool),
		watchers: make(map[string]map[int]chan struct{}),
	}
}

// Publish notifies every watcher of topic
func (b *Bus) Publish(ctx context.Context, topic string) {
	b.ensureTopic(topic)
	b.hub.Emit(ctx, topic)
}

// Watch implements interfaces.ChangeFeed
func (b *Bus) Watch(topic string) (<-chan struct{}, func()) {
	b.ensureTopic(topic)

	ch := make(chan struct{}, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.watchers[topic] == nil {
		b.watchers[topic] = make(map[int]chan struct{})
	}
	b.watchers[topic][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers[topic], id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Watchers returns how many watchers are registered for topic
func (b *Bus) Watchers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers[topic])
}

// ensureTopic arranca un unico listener del hub por topic
func (b *Bus) ensureTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.topics[topic] {
		return
	}
	b.topics[topic] = true
	go b.fanOut(topic, b.hub.On(topic))
}

func (b *Bus) fanOut(topic string, events <-chan *emitter.Event) {
	for range events {
		b.mu.Lock()
		for _, ch := range b.watchers[topic] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
		b.mu.Unlock()
	}
}
