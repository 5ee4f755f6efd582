package store

import (
	"context"
	"sync"

	"github.com/rnote-app/rnote/internal/note"
)

// Subscription is a live feed of the full committed note collection,
// newest-created first. The current set is delivered on subscribe and a
// fresh full snapshot after every committed-note mutation; consumers need
// no merge logic. Cancel (or cancelling the subscribe context) is the only
// supported cancellation path and releases all resources.
type Subscription struct {
	ch     chan []note.Note
	cancel func()
	once   sync.Once
}

// Updates returns the snapshot channel. It is closed on cancellation.
func (s *Subscription) Updates() <-chan []note.Note {
	return s.ch
}

// Cancel tears down the subscription and closes the update channel.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// subscriber holds the per-consumer mailbox. Capacity one, latest-wins:
// a slow consumer always observes the most recent snapshot rather than
// blocking producers.
type subscriber struct {
	ch chan []note.Note
}

// subscribers is the fan-out registry shared by one Store.
type subscribers struct {
	mu   sync.Mutex
	next uint64
	m    map[uint64]*subscriber
}

func newSubscribers() *subscribers {
	return &subscribers{m: make(map[uint64]*subscriber)}
}

func (s *subscribers) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m) == 0
}

// publish delivers snapshot to every registered subscriber, replacing any
// undelivered previous snapshot. Sends never block: the mailbox is drained
// before sending and has capacity one.
func (s *subscribers) publish(snapshot []note.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.m {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snapshot
	}
}

// add registers a subscriber seeded with the given snapshot and returns
// its registry key.
func (s *subscribers) add(initial []note.Note) (uint64, *subscriber) {
	sub := &subscriber{ch: make(chan []note.Note, 1)}
	sub.ch <- initial

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.m[id] = sub
	return id, sub
}

// remove unregisters and closes a subscriber. Idempotent.
func (s *subscribers) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.m[id]
	if !ok {
		return
	}
	delete(s.m, id)
	close(sub.ch)
}

// SubscribeAll opens a live subscription to the committed note collection.
// The current set is delivered immediately. The subscription ends when ctx
// is cancelled or Cancel is called, whichever comes first.
func (s *Store) SubscribeAll(ctx context.Context) (*Subscription, error) {
	initial, err := s.All()
	if err != nil {
		return nil, err
	}

	id, mailbox := s.subs.add(initial)

	sub := &Subscription{
		ch:     mailbox.ch,
		cancel: func() { s.subs.remove(id) },
	}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Cancel()
		}()
	}

	return sub, nil
}
