package session

import "sync"

const subscriberBuffer = 8

// Feed is a multicast, last-value-replaying channel of *Session. A nil value
// means unauthenticated; the feed starts at nil. Every subscriber receives
// published values in publish order, and a new subscriber immediately
// receives the most recently published value rather than missing it.
//
// Publish never blocks: a subscriber that falls behind has its oldest
// undelivered value dropped in favour of the newest, so slow consumers
// always converge on the latest session.
type Feed struct {
	mu     sync.RWMutex
	latest *Session
	nextID int
	subs   map[int]chan *Session
}

// NewFeed creates a Feed with no current session.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan *Session)}
}

// Latest returns the most recently published session, or nil when
// unauthenticated.
func (f *Feed) Latest() *Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest
}

// Subscribe registers a new subscriber and immediately replays the latest
// value to it. The returned cancel function unregisters the subscriber and
// closes its channel; it is safe to call more than once.
func (f *Feed) Subscribe() (<-chan *Session, func()) {
	ch := make(chan *Session, subscriberBuffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	ch <- f.latest
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish replaces the current session and delivers the new value to all
// subscribers.
func (f *Feed) Publish(s *Session) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = s
	for _, ch := range f.subs {
		for {
			select {
			case ch <- s:
			default:
				// Full buffer: drop the oldest undelivered value and retry.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}
